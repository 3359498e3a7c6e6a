// Package vector turns an edge magnitude image into an SVG document.
//
// Every pixel darker than the threshold becomes one filled unit square. Squares
// are emitted in row-major scan order (y outer, x inner) and are never merged,
// so the document for a given image is always the same byte for byte.
//
// # Output Format
//
// The serialized document is an SVG element sized W x H with viewBox
// "0 0 W H", holding one path per square:
//
//	<path d="M x y h 1 v 1 h -1 z" fill="black" />
//
// where W and H are the magnitude image dimensions. ParsePath and ReadSVG
// decode this format back into primitives.
package vector
