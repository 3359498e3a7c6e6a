package vector

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// PathPrimitive is a filled unit square anchored at integer pixel coordinates.
type PathPrimitive struct {
	X    int
	Y    int
	Fill string
}

// D returns the SVG path data of the square: move to (X, Y), one unit right,
// one down, one left, close.
func (p PathPrimitive) D() string {
	return "M " + strconv.Itoa(p.X) + " " + strconv.Itoa(p.Y) + " h 1 v 1 h -1 z"
}

// Bounds returns the square covered by the primitive.
func (p PathPrimitive) Bounds() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+1, p.Y+1)
}

// Document is an ordered list of primitives on a fixed-size canvas.
type Document struct {
	Width  int
	Height int
	Paths  []PathPrimitive
}

// Len returns the number of primitives in the document.
func (d *Document) Len() int {
	return len(d.Paths)
}

// Builder assembles a Document one primitive at a time.
//
// A Builder is not safe for concurrent use; primitives keep the order in
// which they were added.
type Builder struct {
	doc  *Document
	fill string
}

// NewBuilder returns a builder for a width x height canvas whose squares are
// filled with fill.
func NewBuilder(width, height int, fill string) *Builder {
	return &Builder{
		doc:  &Document{Width: width, Height: height},
		fill: fill,
	}
}

// AddSquare appends a unit square at (x, y). The square must lie inside the
// canvas.
func (b *Builder) AddSquare(x, y int) error {
	if x < 0 || y < 0 || x >= b.doc.Width || y >= b.doc.Height {
		return fmt.Errorf("square (%d,%d) outside canvas %dx%d", x, y, b.doc.Width, b.doc.Height)
	}
	b.doc.Paths = append(b.doc.Paths, PathPrimitive{X: x, Y: y, Fill: b.fill})
	return nil
}

// Grow reserves room for n more primitives.
func (b *Builder) Grow(n int) {
	if free := cap(b.doc.Paths) - len(b.doc.Paths); n > free {
		paths := make([]PathPrimitive, len(b.doc.Paths), len(b.doc.Paths)+n)
		copy(paths, b.doc.Paths)
		b.doc.Paths = paths
	}
}

// Len returns the number of primitives added so far.
func (b *Builder) Len() int {
	return len(b.doc.Paths)
}

// Document returns the assembled document. The builder must not be used
// afterwards.
func (b *Builder) Document() *Document {
	doc := b.doc
	b.doc = nil
	return doc
}

// ParsePath decodes path data of the form "M x y h 1 v 1 h -1 z" and returns
// the unit square it describes.
func ParsePath(d string) (image.Rectangle, error) {
	fields := strings.Fields(d)
	want := []string{"M", "", "", "h", "1", "v", "1", "h", "-1", "z"}
	if len(fields) != len(want) {
		return image.Rectangle{}, fmt.Errorf("invalid path data %q: want %d tokens, got %d", d, len(want), len(fields))
	}
	for i, tok := range want {
		if tok != "" && fields[i] != tok {
			return image.Rectangle{}, fmt.Errorf("invalid path data %q: token %d is %q, want %q", d, i, fields[i], tok)
		}
	}

	x, err := strconv.Atoi(fields[1])
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("invalid path data %q: bad x: %w", d, err)
	}
	y, err := strconv.Atoi(fields[2])
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("invalid path data %q: bad y: %w", d, err)
	}
	return image.Rect(x, y, x+1, y+1), nil
}
