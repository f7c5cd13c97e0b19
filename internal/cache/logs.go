package cache

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/altinukshini/gha-rerun/internal/archive"
)

// LogStore keeps the log archive of the run being processed at a fixed
// scratch path. It holds at most one archive; storing replaces it.
type LogStore struct {
	path string
}

func NewLogStore(path string) (*LogStore, error) {
	if path == "" {
		return nil, fmt.Errorf("log archive path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log archive dir: %w", err)
	}
	return &LogStore{path: path}, nil
}

func (ls *LogStore) Path() string { return ls.path }

// Store writes zipData to the scratch path and returns the number of bytes
// written. The file is written next to the target and renamed into place so
// a failed download never leaves a truncated archive behind.
func (ls *LogStore) Store(zipData io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(ls.path), ".logs-*.zip")
	if err != nil {
		return 0, fmt.Errorf("create temp archive: %w", err)
	}
	n, err := io.Copy(tmp, zipData)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("write log archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), ls.path); err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("move log archive into place: %w", err)
	}
	return n, nil
}

// Open opens the stored archive. The caller closes it.
func (ls *LogStore) Open() (*zip.ReadCloser, error) {
	return archive.Open(ls.path)
}

// Remove deletes the stored archive. A missing archive is not an error.
func (ls *LogStore) Remove() error {
	if err := os.Remove(ls.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove log archive: %w", err)
	}
	return nil
}
