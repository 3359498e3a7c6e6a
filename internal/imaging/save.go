package imaging

import (
	"image"
	"io"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/edgevec/internal/storage"
)

// SavePNG atomically writes img to path as a PNG file.
//
// Failures are reported as *storage.PersistError and leave no partial file
// behind.
func SavePNG(img image.Image, path string) error {
	return storage.WriteFile(path, func(w io.Writer) error {
		return imaging.Encode(w, img, imaging.PNG)
	})
}

// SaveGrayscale writes a grayscale buffer as an RGBA PNG with R=G=B.
func SaveGrayscale(g *GrayscaleImage, path string) error {
	return SavePNG(g.Image(), path)
}

// SaveMagnitude writes a magnitude buffer as an 8-bit gray PNG.
func SaveMagnitude(m *MagnitudeImage, path string) error {
	return SavePNG(m.Image(), path)
}
