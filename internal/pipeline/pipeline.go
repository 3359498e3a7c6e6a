// Package pipeline composes the grayscale, edge detection and vectorization
// stages into a single run and implements the end-to-end "test" and
// "convert" operations on files.
//
// A run moves through a fixed sequence of stages:
//
//	Pending -> Grayscaled -> EdgeDetected -> Vectorized
//
// Each stage finishes before the next begins and hands its output buffer to
// the next stage. A failing stage stops the run; the buffers of the stages
// that completed are still returned in the Result.
package pipeline

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/edgevec/internal/imaging"
	"github.com/ironsheep/edgevec/internal/vector"
)

// Stage identifies how far a run has progressed.
type Stage int

const (
	StagePending Stage = iota
	StageGrayscaled
	StageEdgeDetected
	StageVectorized
)

func (s Stage) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageGrayscaled:
		return "grayscale"
	case StageEdgeDetected:
		return "edge-detect"
	case StageVectorized:
		return "vectorize"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// StageError reports the stage that failed and why. Use errors.As on the
// wrapped error to reach *imaging.DimensionError or *storage.PersistError.
//
// Decode failures happen before any stage runs; Test and Convert return
// them as a bare *imaging.DecodeError.
type StageError struct {
	Stage Stage

	// Saving is set when the stage computed its output but persisting that
	// output failed.
	Saving bool

	Err error
}

func (e *StageError) Error() string {
	if e.Saving {
		return fmt.Sprintf("failed to save %s output: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Result holds the output of every stage that completed.
type Result struct {
	// Stage is the last stage whose computation completed. If saving that
	// stage's output failed, the run's *StageError has Saving set.
	Stage    Stage
	Gray     *imaging.GrayscaleImage
	Edges    *imaging.MagnitudeImage
	Document *vector.Document
}

// Pipeline runs the three stages with fixed vectorizer options.
//
// A Pipeline holds no per-run state and may be used from several goroutines.
type Pipeline struct {
	opts  vector.Options
	log   logrus.FieldLogger
	cache *imaging.ImageCache
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for stage progress. The default discards
// all output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithCache decodes input files through c instead of reading them from disk
// on every run.
func WithCache(c *imaging.ImageCache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// New validates opts and returns a Pipeline.
func New(opts vector.Options, options ...Option) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vectorizer options: %w", err)
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	p := &Pipeline{opts: opts, log: discard}
	for _, o := range options {
		o(p)
	}
	return p, nil
}

// Run takes a decoded raster through all three stages.
func (p *Pipeline) Run(src *imaging.RasterImage) (*Result, error) {
	return p.run(src, nil)
}

// stageHook is called after each stage completes, before the next starts.
// Returning an error stops the run at that stage.
type stageHook func(s Stage, res *Result) error

func (p *Pipeline) run(src *imaging.RasterImage, hook stageHook) (*Result, error) {
	res := &Result{Stage: StagePending}

	gray, err := imaging.ToGrayscale(src)
	if err != nil {
		return res, &StageError{Stage: StageGrayscaled, Err: err}
	}
	res.Gray = gray
	if err := p.advance(res, StageGrayscaled, hook); err != nil {
		return res, err
	}

	edges, err := imaging.DetectEdges(gray)
	if err != nil {
		return res, &StageError{Stage: StageEdgeDetected, Err: err}
	}
	res.Edges = edges
	if err := p.advance(res, StageEdgeDetected, hook); err != nil {
		return res, err
	}

	doc, err := vector.Vectorize(edges, p.opts)
	if err != nil {
		return res, &StageError{Stage: StageVectorized, Err: err}
	}
	res.Document = doc
	if err := p.advance(res, StageVectorized, hook); err != nil {
		return res, err
	}

	return res, nil
}

func (p *Pipeline) advance(res *Result, s Stage, hook stageHook) error {
	res.Stage = s
	p.logStage(res, s)
	if hook == nil {
		return nil
	}
	if err := hook(s, res); err != nil {
		return &StageError{Stage: s, Saving: true, Err: err}
	}
	return nil
}

func (p *Pipeline) logStage(res *Result, s Stage) {
	fields := logrus.Fields{"stage": s.String()}
	switch s {
	case StageGrayscaled:
		fields["width"], fields["height"] = res.Gray.Width, res.Gray.Height
	case StageEdgeDetected:
		fields["width"], fields["height"] = res.Edges.Width, res.Edges.Height
	case StageVectorized:
		fields["primitives"] = res.Document.Len()
	}
	p.log.WithFields(fields).Debug("stage complete")
}

func (p *Pipeline) load(path string) (*imaging.RasterImage, error) {
	if p.cache == nil {
		return imaging.Load(path)
	}
	src, err := p.cache.Load(path)
	if err != nil {
		return nil, err
	}
	p.log.WithFields(logrus.Fields{"input": path, "cached": p.cache.Len()}).Debug("input loaded through cache")
	return src, nil
}

// forget drops path from the cache after a failed run so a retry decodes
// the file again.
func (p *Pipeline) forget(path string) {
	if p.cache != nil {
		p.cache.Evict(path)
	}
}
