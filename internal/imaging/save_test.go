package imaging

import (
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/edgevec/internal/storage"
)

func TestSaveMagnitude(t *testing.T) {
	m := newMagnitudeImage(3, 2)
	copy(m.Pix, []uint8{0, 10, 20, 30, 40, 255})
	path := filepath.Join(t.TempDir(), "out", "edges.png")

	if err := SaveMagnitude(m, path); err != nil {
		t.Fatalf("SaveMagnitude failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds: got %v, want 3x2", img.Bounds())
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			got := color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
			if want := m.At(x, y); got != want {
				t.Errorf("(%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestSaveGrayscale(t *testing.T) {
	gray := grayFromRaster(t, filledRaster(4, 4, color.NRGBA{255, 255, 255, 200}))
	path := filepath.Join(t.TempDir(), "gray.png")

	if err := SaveGrayscale(gray, path); err != nil {
		t.Fatalf("SaveGrayscale failed: %v", err)
	}

	raster, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := raster.At(1, 1); got != (color.NRGBA{204, 204, 204, 200}) {
		t.Errorf("pixel: got %v, want {204 204 204 200}", got)
	}
}

func TestSavePNG_Failure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	// The parent "directory" is a regular file, so the write must fail
	path := filepath.Join(blocker, "edges.png")
	err := SaveMagnitude(newMagnitudeImage(1, 1), path)

	var persistErr *storage.PersistError
	if !errors.As(err, &persistErr) {
		t.Fatalf("expected *storage.PersistError, got %v", err)
	}
	if storage.Exists(path) {
		t.Error("failed save left an output file")
	}
}
