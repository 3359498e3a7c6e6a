// Package imaging provides the pixel stages of the edge vectorizer: raster
// decoding, grayscale conversion, and Sobel edge detection.
//
// All buffers in this package are contiguous arenas of 8-bit samples with an
// explicit width and height. Pixels are addressed with (0,0) at the top-left
// corner, X increasing rightward and Y increasing downward.
//
// # Buffers
//
//   - RasterImage: 4 samples per pixel (R, G, B, A), non-premultiplied.
//   - GrayscaleImage: 2 samples per pixel (intensity, alpha).
//   - MagnitudeImage: 1 sample per pixel, inverted edge strength.
//
// Each stage returns a freshly allocated buffer and never mutates its input,
// so a buffer can be handed to the next stage without copying.
//
// # Concurrency
//
// ToGrayscale and DetectEdges split their output into disjoint row ranges and
// process them in parallel. Every worker writes only to rows it owns, and the
// stage returns after all workers have finished.
//
// The ImageCache type is safe for concurrent use.
//
// # Error Handling
//
//   - DecodeError: the input file cannot be opened or decoded.
//   - DimensionError: the image is smaller than 3x3, so the Sobel convolution
//     has no valid output.
package imaging
