package cache

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/gha-rerun/internal/archive"
)

func sampleZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("build/1_check.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestLogStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "logs.zip")
	ls, err := NewLogStore(path)
	require.NoError(t, err)
	assert.Equal(t, path, ls.Path())

	data := sampleZip(t)
	n, err := ls.Store(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)

	rc, err := ls.Open()
	require.NoError(t, err)
	require.Len(t, rc.File, 1)
	assert.Equal(t, "build/1_check.txt", rc.File[0].Name)
	require.NoError(t, rc.Close())

	require.NoError(t, ls.Remove())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, ls.Remove(), "removing twice is fine")
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLogStoreFailedWriteKeepsNothing(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLogStore(filepath.Join(dir, "logs.zip"))
	require.NoError(t, err)

	_, err = ls.Store(io.MultiReader(strings.NewReader("PK"), brokenReader{}))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = ls.Open()
	assert.True(t, errors.Is(err, archive.ErrArchiveUnreadable))
}

func TestNewLogStoreRequiresPath(t *testing.T) {
	_, err := NewLogStore("")
	assert.Error(t, err)
}
