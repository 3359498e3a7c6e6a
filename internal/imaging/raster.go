package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// MinEdgeSize is the smallest width or height the Sobel stage accepts.
const MinEdgeSize = 3

// RasterImage is a decoded four-channel image with 8-bit samples.
//
// Samples are stored row-major as R, G, B, A (non-premultiplied), so the
// pixel at (x, y) starts at Pix[(y*Width+x)*4].
type RasterImage struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRasterImage allocates a zeroed raster of the given size.
func NewRasterImage(width, height int) *RasterImage {
	return &RasterImage{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// RasterFromImage converts any image.Image into a RasterImage.
//
// The source is normalized to non-premultiplied 8-bit RGBA, so 16-bit and
// paletted images are accepted. The returned raster does not alias the
// source's pixel memory.
func RasterFromImage(img image.Image) *RasterImage {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	return &RasterImage{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    nrgba.Pix,
	}
}

func (r *RasterImage) index(x, y int) int {
	return (y*r.Width + x) * 4
}

// At returns the RGBA samples of the pixel at (x, y).
func (r *RasterImage) At(x, y int) color.NRGBA {
	i := r.index(x, y)
	p := r.Pix[i : i+4 : i+4]
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Set stores the RGBA samples of the pixel at (x, y).
func (r *RasterImage) Set(x, y int, c color.NRGBA) {
	i := r.index(x, y)
	p := r.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Validate reports an error if r is nil or its buffer does not match its
// dimensions.
func (r *RasterImage) Validate() error {
	if r == nil {
		return fmt.Errorf("raster image is nil")
	}
	return checkBuffer("raster", r.Width, r.Height, 4, len(r.Pix))
}

// checkBuffer verifies that a buffer of n samples holds exactly
// width*height pixels of the given number of channels.
func checkBuffer(kind string, width, height, channels, n int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("invalid %s dimensions %dx%d", kind, width, height)
	}
	if want := width * height * channels; n != want {
		return fmt.Errorf("%s buffer holds %d samples, want %d for %dx%d",
			kind, n, want, width, height)
	}
	return nil
}

// GrayscaleImage holds an intensity and an alpha sample for every pixel.
type GrayscaleImage struct {
	Width  int
	Height int
	Pix    []uint8
}

func newGrayscaleImage(width, height int) *GrayscaleImage {
	return &GrayscaleImage{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*2),
	}
}

func (g *GrayscaleImage) index(x, y int) int {
	return (y*g.Width + x) * 2
}

// Intensity returns the intensity sample at (x, y).
func (g *GrayscaleImage) Intensity(x, y int) uint8 {
	return g.Pix[g.index(x, y)]
}

// Alpha returns the alpha sample at (x, y).
func (g *GrayscaleImage) Alpha(x, y int) uint8 {
	return g.Pix[g.index(x, y)+1]
}

// Validate reports an error if g is nil or its buffer does not match its
// dimensions.
func (g *GrayscaleImage) Validate() error {
	if g == nil {
		return fmt.Errorf("grayscale image is nil")
	}
	return checkBuffer("grayscale", g.Width, g.Height, 2, len(g.Pix))
}

// Image returns the buffer as an NRGBA image with R=G=B=intensity so it can
// be encoded by the standard image codecs.
func (g *GrayscaleImage) Image() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for i, j := 0, 0; i < len(g.Pix); i, j = i+2, j+4 {
		v := g.Pix[i]
		out.Pix[j], out.Pix[j+1], out.Pix[j+2], out.Pix[j+3] = v, v, v, g.Pix[i+1]
	}
	return out
}

// MagnitudeImage holds the inverted Sobel magnitude of every interior pixel
// of a GrayscaleImage. Low values mark strong edges.
type MagnitudeImage struct {
	Width  int
	Height int
	Pix    []uint8
}

func newMagnitudeImage(width, height int) *MagnitudeImage {
	return &MagnitudeImage{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At returns the sample at (x, y).
func (m *MagnitudeImage) At(x, y int) uint8 {
	return m.Pix[y*m.Width+x]
}

// Row returns the samples of row y. The slice aliases the buffer.
func (m *MagnitudeImage) Row(y int) []uint8 {
	return m.Pix[y*m.Width : (y+1)*m.Width]
}

// Validate reports an error if m is nil or its buffer does not match its
// dimensions.
func (m *MagnitudeImage) Validate() error {
	if m == nil {
		return fmt.Errorf("magnitude image is nil")
	}
	return checkBuffer("magnitude", m.Width, m.Height, 1, len(m.Pix))
}

// Image returns the buffer as a single-channel gray image.
func (m *MagnitudeImage) Image() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	copy(out.Pix, m.Pix)
	return out
}

// DimensionError reports an image too small for the 3x3 convolution.
type DimensionError struct {
	Width  int
	Height int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("image %dx%d is smaller than the %dx%d minimum for edge detection",
		e.Width, e.Height, MinEdgeSize, MinEdgeSize)
}
