package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/edgevec/internal/imaging"
	"github.com/ironsheep/edgevec/internal/vector"
)

// TestPaths names the input and the three artifacts of the "test" operation.
type TestPaths struct {
	Input  string
	Gray   string
	Edge   string
	Vector string
}

// Test decodes paths.Input, runs every stage and writes each stage's output
// as soon as it completes: the grayscale PNG, the edge PNG, then the SVG.
//
// If a later stage fails, the artifacts of earlier stages stay on disk.
// Artifacts are written atomically, so a failed write never leaves a
// truncated file.
func (p *Pipeline) Test(paths TestPaths) (*Result, error) {
	log := p.log.WithField("input", paths.Input)

	src, err := p.load(paths.Input)
	if err != nil {
		return &Result{Stage: StagePending}, err
	}
	log.WithFields(logrus.Fields{"width": src.Width, "height": src.Height}).Debug("decoded input")

	res, err := p.run(src, func(s Stage, res *Result) error {
		switch s {
		case StageGrayscaled:
			return imaging.SaveGrayscale(res.Gray, paths.Gray)
		case StageEdgeDetected:
			return imaging.SaveMagnitude(res.Edges, paths.Edge)
		case StageVectorized:
			return vector.WriteFile(res.Document, paths.Vector)
		}
		return nil
	})
	if err != nil {
		p.forget(paths.Input)
		return res, err
	}

	log.WithFields(logrus.Fields{
		"gray":       paths.Gray,
		"edge":       paths.Edge,
		"vector":     paths.Vector,
		"primitives": res.Document.Len(),
	}).Info("image processed")
	return res, nil
}

// Convert decodes input and writes only the vector document, next to the
// input file as returned by VectorPath. It returns the path written.
func (p *Pipeline) Convert(input string) (string, *Result, error) {
	out := VectorPath(input)

	src, err := p.load(input)
	if err != nil {
		return out, &Result{Stage: StagePending}, err
	}

	res, err := p.run(src, func(s Stage, res *Result) error {
		if s == StageVectorized {
			return vector.WriteFile(res.Document, out)
		}
		return nil
	})
	if err != nil {
		p.forget(input)
		return out, res, err
	}

	p.log.WithFields(logrus.Fields{
		"input":      input,
		"vector":     out,
		"primitives": res.Document.Len(),
	}).Info("image converted")
	return out, res, nil
}

// VectorPath derives the SVG path for an input image: "<stem>_edge.svg" in
// the input's directory, where stem is the file name without its last
// extension. Inputs without a usable file name use the stem "output".
//
//	VectorPath("/img/photo.png")  // "/img/photo_edge.svg"
//	VectorPath("scan.tar.gz")     // "scan.tar_edge.svg"
func VectorPath(input string) string {
	dir, base := filepath.Split(input)

	stem := base
	if ext := filepath.Ext(base); ext != base {
		stem = strings.TrimSuffix(base, ext)
	}
	if stem == "" || stem == "." || stem == ".." {
		stem = "output"
	}

	return filepath.Join(dir, fmt.Sprintf("%s_edge.svg", stem))
}
