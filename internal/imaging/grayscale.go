package imaging

import (
	"fmt"

	"github.com/anthonynsimon/bild/parallel"
)

// Grayscale weights. They sum to 0.8 rather than 1.0, which darkens the
// result relative to BT.601 luma; existing outputs depend on these values.
const (
	weightR float32 = 0.2
	weightG float32 = 0.5
	weightB float32 = 0.1
)

// ToGrayscale converts a raster image to intensity plus alpha.
//
// For every pixel:
//
//	intensity = trunc(0.2*R + 0.5*G + 0.1*B)
//	alpha     = A
//
// The products are evaluated in float32 and truncated toward zero. Rows are
// converted in parallel; the source raster is not modified.
//
// Returns an error only if the raster is nil or its buffer does not match
// its dimensions.
func ToGrayscale(src *RasterImage) (*GrayscaleImage, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("failed to convert to grayscale: %w", err)
	}

	dst := newGrayscaleImage(src.Width, src.Height)
	rowIn := src.Width * 4
	rowOut := src.Width * 2

	parallel.Line(src.Height, func(start, end int) {
		for y := start; y < end; y++ {
			in := src.Pix[y*rowIn : (y+1)*rowIn]
			out := dst.Pix[y*rowOut : (y+1)*rowOut]
			for i, j := 0, 0; i < len(in); i, j = i+4, j+2 {
				out[j] = luma(in[i], in[i+1], in[i+2])
				out[j+1] = in[i+3]
			}
		}
	})

	return dst, nil
}

// luma applies the grayscale weights. Each product is converted explicitly
// so the compiler cannot fuse it into a multiply-add, keeping results
// identical across architectures.
func luma(r, g, b uint8) uint8 {
	v := float32(weightR*float32(r)) + float32(weightG*float32(g)) + float32(weightB*float32(b))
	return uint8(v)
}
