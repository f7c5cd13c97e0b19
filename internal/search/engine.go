package search

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/altinukshini/gha-rerun/internal/model"
)

var (
	ErrEmptyTrigger = errors.New("trigger string must not be empty")
	ErrDecode       = errors.New("log is not valid UTF-8")
)

// DecodeError reports the line at which the log stopped being valid UTF-8.
type DecodeError struct {
	Line int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, ErrDecode)
}

func (e *DecodeError) Unwrap() error { return ErrDecode }

type Scanner struct{}

func New() *Scanner {
	return &Scanner{}
}

// ScanForTrigger reads r line by line and returns the first line ending with
// trigger. The trigger is literal text. A line ends at "\r\n", "\n" or a bare
// "\r", and the terminator is not part of the tested text. Reading stops at
// the first match. A nil match with a nil error means the trigger does not
// occur at the end of any line.
func (s *Scanner) ScanForTrigger(r io.Reader, trigger string) (*model.TriggerMatch, error) {
	matcher, err := buildMatcher(trigger)
	if err != nil {
		return nil, err
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	sc.Split(scanLines)
	ln := 0
	for sc.Scan() {
		ln++
		line := sc.Bytes()
		if !utf8.Valid(line) {
			return nil, &DecodeError{Line: ln}
		}
		if matcher(string(line)) {
			return &model.TriggerMatch{Line: ln, Content: strings.TrimSpace(string(line))}, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", ln+1, err)
	}
	return nil, nil
}

// scanLines is bufio.ScanLines with universal newlines: "\r\n", "\n" and a
// lone "\r" all end a line.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		switch {
		case i+1 < len(data):
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		case atEOF:
			return i + 1, data[:i], nil
		default:
			// need the next byte to tell "\r\n" from "\r"
			return 0, nil, nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// buildMatcher anchors the escaped trigger at the end of the line, so
// "SECRETS_MISSING" matches "ERROR: SECRETS_MISSING" but not
// "SECRETS_MISSING: retrying".
func buildMatcher(trigger string) (func(string) bool, error) {
	if trigger == "" {
		return nil, ErrEmptyTrigger
	}
	re, err := regexp.Compile(regexp.QuoteMeta(trigger) + "$")
	if err != nil {
		return nil, err
	}
	return re.MatchString, nil
}
