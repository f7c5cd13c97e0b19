package archive

import (
	"archive/zip"
	"fmt"
)

// Open opens the zip archive at path. Any failure, including a missing file,
// is reported as ErrArchiveUnreadable.
func Open(path string) (*zip.ReadCloser, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrArchiveUnreadable, path, err)
	}
	return rc, nil
}
