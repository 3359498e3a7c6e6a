// Package storage writes output artifacts to disk atomically.
//
// Content is written to a pending file next to the destination and renamed
// over it only after it has been flushed and synced. A failed write discards
// the pending file, so the destination either keeps its previous content or
// receives the complete new content, never a truncated file.
package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// FileMode is the permission given to newly created artifacts. An existing
// destination keeps its own permissions.
const FileMode os.FileMode = 0644

// PersistError reports a failure to write an output artifact.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// WriteFunc streams an artifact's content to w.
type WriteFunc func(w io.Writer) error

// WriteFile atomically replaces the file at path with the output of write.
//
// Missing parent directories are created. The writer passed to write is
// buffered; it is flushed before the pending file replaces the destination.
func WriteFile(path string, write WriteFunc) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &PersistError{Path: path, Err: err}
	}

	pf, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(dir),
		renameio.WithPermissions(FileMode),
		renameio.WithExistingPermissions())
	if err != nil {
		return &PersistError{Path: path, Err: err}
	}
	defer pf.Cleanup()

	bw := bufio.NewWriter(pf)
	if err := write(bw); err != nil {
		return &PersistError{Path: path, Err: err}
	}
	if err := bw.Flush(); err != nil {
		return &PersistError{Path: path, Err: err}
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return &PersistError{Path: path, Err: err}
	}
	return nil
}

// Exists reports whether a file exists at path. A path that cannot be
// examined, such as one below a regular file, does not exist.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
