package vector

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/edgevec/internal/imaging"
)

const (
	// DefaultThreshold is the intensity below which a pixel is drawn.
	DefaultThreshold = 100

	// DefaultFill is the fill color of emitted squares.
	DefaultFill = "black"
)

// Options controls which pixels are drawn and how.
type Options struct {
	// Threshold: pixels with intensity strictly below it are drawn (0-255).
	Threshold int

	// Fill is an SVG color keyword or a "#RRGGBB" hex color. Empty means
	// DefaultFill.
	Fill string
}

// DefaultOptions returns the options matching the historical output:
// threshold 100 and black squares.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, Fill: DefaultFill}
}

// Validate checks the threshold range and the fill color.
func (o Options) Validate() error {
	if o.Threshold < 0 || o.Threshold > 255 {
		return fmt.Errorf("threshold %d out of range 0-255", o.Threshold)
	}
	if _, err := ParseFill(o.Fill); err != nil {
		return err
	}
	return nil
}

// ParseFill validates a fill color and returns its normalized form.
//
// Hex colors ("#RGB" or "#RRGGBB") are normalized to lowercase "#rrggbb".
// Anything else must be an alphabetic color keyword such as "black"; it is
// returned lowercased. An empty string yields DefaultFill.
func ParseFill(fill string) (string, error) {
	fill = strings.TrimSpace(fill)
	if fill == "" {
		return DefaultFill, nil
	}
	if strings.HasPrefix(fill, "#") {
		c, err := colorful.Hex(fill)
		if err != nil {
			return "", fmt.Errorf("invalid fill color %q: %w", fill, err)
		}
		return c.Hex(), nil
	}
	for _, r := range fill {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return "", fmt.Errorf("invalid fill color %q: not a color keyword or hex value", fill)
		}
	}
	return strings.ToLower(fill), nil
}

// Vectorize scans a magnitude image in row-major order and emits one unit
// square for every pixel whose intensity is strictly below the threshold.
//
// The document canvas has the image's dimensions and the squares appear in
// scan order. Adjacent squares are not merged.
//
// Returns an error if opts is invalid, or if img is nil or its buffer does not
// match its dimensions.
func Vectorize(img *imaging.MagnitudeImage, opts Options) (*Document, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	fill, _ := ParseFill(opts.Fill)

	b := NewBuilder(img.Width, img.Height, fill)
	b.Grow(CountBelow(img, opts.Threshold))
	for y := 0; y < img.Height; y++ {
		for x, v := range img.Row(y) {
			if int(v) >= opts.Threshold {
				continue
			}
			if err := b.AddSquare(x, y); err != nil {
				return nil, err
			}
		}
	}
	return b.Document(), nil
}

// CountBelow returns the number of pixels whose intensity is strictly below
// threshold, which is the number of squares Vectorize emits.
func CountBelow(img *imaging.MagnitudeImage, threshold int) int {
	n := 0
	for _, v := range img.Pix {
		if int(v) < threshold {
			n++
		}
	}
	return n
}
