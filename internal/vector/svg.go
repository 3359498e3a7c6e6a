package vector

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/ironsheep/edgevec/internal/storage"
)

type svgRoot struct {
	XMLName xml.Name  `xml:"svg"`
	ViewBox string    `xml:"viewBox,attr"`
	Width   int       `xml:"width,attr"`
	Height  int       `xml:"height,attr"`
	Paths   []svgPath `xml:"path"`
}

type svgPath struct {
	Fill string `xml:"fill,attr"`
	D    string `xml:"d,attr"`
}

// Encode streams the document to w as SVG.
//
// Paths are written one at a time, so memory use does not grow with a second
// copy of the document.
func (d *Document) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)

	canvas.Startview(d.Width, d.Height, 0, 0, d.Width, d.Height)
	for _, p := range d.Paths {
		canvas.Path(p.D(), fmt.Sprintf(`fill="%s"`, p.Fill))
	}
	canvas.End()

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to encode svg: %w", err)
	}
	return nil
}

// WriteFile atomically writes the document to path as SVG. A failed write
// leaves no partial file; the error is a *storage.PersistError.
func WriteFile(d *Document, path string) error {
	return storage.WriteFile(path, d.Encode)
}

// ReadSVG decodes a document written by Encode.
//
// The canvas size is taken from the width and height attributes and every
// path's data must describe a unit square inside the canvas.
func ReadSVG(r io.Reader) (*Document, error) {
	var root svgRoot
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to decode svg: %w", err)
	}

	var minX, minY, vbW, vbH int
	if _, err := fmt.Sscanf(root.ViewBox, "%d %d %d %d", &minX, &minY, &vbW, &vbH); err != nil {
		return nil, fmt.Errorf("invalid viewBox %q: %w", root.ViewBox, err)
	}
	if minX != 0 || minY != 0 || vbW != root.Width || vbH != root.Height {
		return nil, fmt.Errorf("viewBox %q does not match canvas %dx%d", root.ViewBox, root.Width, root.Height)
	}

	b := NewBuilder(root.Width, root.Height, "")
	b.Grow(len(root.Paths))
	for _, p := range root.Paths {
		sq, err := ParsePath(p.D)
		if err != nil {
			return nil, err
		}
		b.fill = p.Fill
		if err := b.AddSquare(sq.Min.X, sq.Min.Y); err != nil {
			return nil, err
		}
	}
	return b.Document(), nil
}
