package rerun

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/altinukshini/gha-rerun/internal/api"
	"github.com/altinukshini/gha-rerun/internal/archive"
	"github.com/altinukshini/gha-rerun/internal/search"
)

type Kind string

const (
	KindNotFound   Kind = "NotFound"
	KindDownload   Kind = "Download"
	KindDecode     Kind = "Decode"
	KindRerun      Kind = "Rerun"
	KindUnexpected Kind = "Unexpected"
)

// ErrRerunRejected marks a rerun request the platform did not accept.
var ErrRerunRejected = errors.New("rerun rejected")

// Error is a failure while processing a single run. Origin is the file and
// line that reported it.
type Error struct {
	Kind   Kind
	Op     string
	Origin string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// fail wraps err with its kind and the caller's location.
func fail(op string, err error) *Error {
	origin := "unknown"
	if _, file, line, ok := runtime.Caller(1); ok {
		origin = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return &Error{Kind: classify(err), Op: op, Origin: origin, Err: err}
}

func classify(err error) Kind {
	var (
		re *Error
		de *api.DownloadError
	)
	switch {
	case errors.As(err, &re):
		return re.Kind
	case errors.Is(err, ErrRerunRejected):
		return KindRerun
	case errors.As(err, &de):
		return KindDownload
	case errors.Is(err, search.ErrDecode):
		return KindDecode
	case errors.Is(err, archive.ErrEntryNotFound),
		errors.Is(err, archive.ErrArchiveUnreadable),
		errors.Is(err, api.ErrNotFound):
		return KindNotFound
	default:
		return KindUnexpected
	}
}
