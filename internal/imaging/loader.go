package imaging

import (
	"fmt"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DecodeError reports an input that cannot be read or interpreted as a
// raster image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to decode image: %v", e.Err)
	}
	return fmt.Sprintf("failed to decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode reads an encoded image from r and converts it to a RasterImage.
//
// PNG, JPEG, GIF, BMP, TIFF and WebP are supported. JPEG EXIF orientation
// is applied so the raster is upright.
func Decode(r io.Reader) (*RasterImage, error) {
	return decode(r, "")
}

func decode(r io.Reader, path string) (*RasterImage, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return RasterFromImage(img), nil
}

// Load opens and decodes the image file at path.
func Load(path string) (*RasterImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	return decode(f, path)
}

// ImageCache provides thread-safe caching of decoded rasters to avoid
// redundant disk reads across repeated runs on the same file.
//
// Entries are keyed by the exact path string and are revalidated against the
// file's size and modification time on every Load, so an edited file is
// decoded again.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	raster, err := cache.Load("/path/to/image.png")
//	if err != nil {
//	    return err
//	}
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	raster  *RasterImage
	size    int64
	modTime time.Time
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		entries: make(map[string]cacheEntry),
	}
}

// Load returns the cached raster for path, decoding the file if it is not
// cached or has changed on disk since it was cached.
//
// Cached rasters are shared between callers and must not be modified.
func (c *ImageCache) Load(path string) (*RasterImage, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && entry.size == stat.Size() && entry.modTime.Equal(stat.ModTime()) {
		return entry.raster, nil
	}

	raster, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[path] = cacheEntry{raster: raster, size: stat.Size(), modTime: stat.ModTime()}
	c.mu.Unlock()

	return raster, nil
}

// Len returns the number of cached rasters.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Evict removes a specific raster from the cache by its path.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}
