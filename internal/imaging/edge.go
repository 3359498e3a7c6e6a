package imaging

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// Sobel kernels, indexed [row][column] over the 3x3 neighborhood.
var (
	sobelX = [3][3]int{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]int{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// DetectEdges computes the inverted Sobel gradient magnitude of a grayscale
// image.
//
// The convolution uses no padding, so only interior pixels have a result and
// the output is (Width-2)x(Height-2). Output pixel (i, j) is computed from the
// source neighborhood with top-left corner (i, j):
//
//	Gx = -v0 - 2*v3 - v6 + v2 + 2*v5 + v8
//	Gy = -v0 - 2*v1 - v2 + v6 + 2*v7 + v8
//	out = 255 - min(round(sqrt(Gx² + Gy²)), 255)
//
// where v0..v8 are the neighborhood intensities in row-major order. Alpha is
// ignored. Strong edges come out dark and flat regions white.
//
// # Errors
//
// Returns *DimensionError if either dimension is below 3, and an error if the
// buffer length does not match the dimensions.
//
// # Concurrency
//
// Output rows are independent: each one reads three source rows and writes
// only its own slice of the result, so rows are processed in parallel
// without synchronization.
func DetectEdges(src *GrayscaleImage) (*MagnitudeImage, error) {
	if src == nil || src.Width < MinEdgeSize || src.Height < MinEdgeSize {
		e := &DimensionError{}
		if src != nil {
			e.Width, e.Height = src.Width, src.Height
		}
		return nil, e
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}

	dst := newMagnitudeImage(src.Width-2, src.Height-2)

	parallel.Line(dst.Height, func(start, end int) {
		for j := start; j < end; j++ {
			row := dst.Row(j)
			for i := range row {
				gx, gy := gradient(src, i, j)
				row[i] = 255 - gradientMagnitude(gx, gy)
			}
		}
	})

	return dst, nil
}

// gradient convolves the 3x3 neighborhood whose top-left corner is (x, y)
// with both Sobel kernels. Results fit comfortably in int: |G| <= 1020.
func gradient(src *GrayscaleImage, x, y int) (gx, gy int) {
	for ky := 0; ky < 3; ky++ {
		for kx := 0; kx < 3; kx++ {
			v := int(src.Intensity(x+kx, y+ky))
			gx += v * sobelX[ky][kx]
			gy += v * sobelY[ky][kx]
		}
	}
	return gx, gy
}

// gradientMagnitude returns round(sqrt(gx² + gy²)) clamped to 255.
func gradientMagnitude(gx, gy int) uint8 {
	mag := math.Round(math.Sqrt(float64(gx*gx + gy*gy)))
	return uint8(clamp(int(mag), 0, 255))
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
