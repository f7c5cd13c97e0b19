package search

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanForTrigger(t *testing.T) {
	tests := []struct {
		name     string
		log      string
		trigger  string
		wantLine int
		wantText string
	}{
		{
			name:     "match at line seven",
			log:      "1\n2\n3\n4\n5\n6\nERROR: SECRETS_MISSING\n8\n",
			trigger:  "SECRETS_MISSING",
			wantLine: 7,
			wantText: "ERROR: SECRETS_MISSING",
		},
		{
			name:    "mid-line occurrence does not match",
			log:     "SECRETS_MISSING: retrying\nall good\n",
			trigger: "SECRETS_MISSING",
		},
		{
			name:     "first of several matches",
			log:      "a SECRETS_MISSING\nb SECRETS_MISSING\n",
			trigger:  "SECRETS_MISSING",
			wantLine: 1,
			wantText: "a SECRETS_MISSING",
		},
		{
			name:     "last line without newline",
			log:      "start\n  fatal: SECRETS_MISSING",
			trigger:  "SECRETS_MISSING",
			wantLine: 2,
			wantText: "fatal: SECRETS_MISSING",
		},
		{
			name:     "crlf terminators",
			log:      "start\r\nfatal: SECRETS_MISSING\r\nend\r\n",
			trigger:  "SECRETS_MISSING",
			wantLine: 2,
			wantText: "fatal: SECRETS_MISSING",
		},
		{
			name:     "bare carriage returns end lines",
			log:      "progress 10%\rERROR: SECRETS_MISSING\rdone\n",
			trigger:  "SECRETS_MISSING",
			wantLine: 2,
			wantText: "ERROR: SECRETS_MISSING",
		},
		{
			name:     "cr before crlf counts as its own line",
			log:      "a\r\r\nb\nfatal: SECRETS_MISSING\r",
			trigger:  "SECRETS_MISSING",
			wantLine: 4,
			wantText: "fatal: SECRETS_MISSING",
		},
		{
			name:    "trailing whitespace is part of the line",
			log:     "fatal: SECRETS_MISSING   \n",
			trigger: "SECRETS_MISSING",
		},
		{
			name:    "metacharacters are literal",
			log:     "Error: secrets.missingX\n",
			trigger: "secrets.missing.",
		},
		{
			name:     "metacharacters match themselves",
			log:      "2024-05-01T10:00:00Z Error: secrets (missing)?\n",
			trigger:  "secrets (missing)?",
			wantLine: 1,
			wantText: "2024-05-01T10:00:00Z Error: secrets (missing)?",
		},
		{
			name:     "whole line equals trigger",
			log:      "SECRETS_MISSING\n",
			trigger:  "SECRETS_MISSING",
			wantLine: 1,
			wantText: "SECRETS_MISSING",
		},
		{
			name:    "empty log",
			log:     "",
			trigger: "SECRETS_MISSING",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().ScanForTrigger(strings.NewReader(tt.log), tt.trigger)
			require.NoError(t, err)
			if tt.wantLine == 0 {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLine, got.Line)
			assert.Equal(t, tt.wantText, got.Content)
		})
	}
}

func TestScanForTriggerIsRepeatable(t *testing.T) {
	log := "setup\nError: SECRETS_MISSING\nteardown\n"
	s := New()
	first, err := s.ScanForTrigger(strings.NewReader(log), "SECRETS_MISSING")
	require.NoError(t, err)
	second, err := s.ScanForTrigger(strings.NewReader(log), "SECRETS_MISSING")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// failAfter serves data and then fails, so reading past the data is visible.
type failAfter struct {
	r io.Reader
}

func (f *failAfter) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err == io.EOF {
		return n, errors.New("read past the match")
	}
	return n, err
}

func TestScanForTriggerStopsAtFirstMatch(t *testing.T) {
	r := &failAfter{r: strings.NewReader("x SECRETS_MISSING\n")}
	got, err := New().ScanForTrigger(r, "SECRETS_MISSING")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Line)
}

func TestScanForTriggerDecodeError(t *testing.T) {
	log := "ok\nbad \xff\xfe bytes\nfatal: SECRETS_MISSING\n"
	_, err := New().ScanForTrigger(strings.NewReader(log), "SECRETS_MISSING")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))

	var decErr *DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, 2, decErr.Line)
}

func TestScanForTriggerEmptyTrigger(t *testing.T) {
	_, err := New().ScanForTrigger(strings.NewReader("x\n"), "")
	assert.ErrorIs(t, err, ErrEmptyTrigger)
}

func TestScanForTriggerTerminatorSplitAcrossReads(t *testing.T) {
	log := "progress 10%\rprogress 90%\r\nfatal: SECRETS_MISSING\r\nend\n"
	got, err := New().ScanForTrigger(iotest.OneByteReader(strings.NewReader(log)), "SECRETS_MISSING")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Line)
	assert.Equal(t, "fatal: SECRETS_MISSING", got.Content)
}

func TestScanForTriggerLongLines(t *testing.T) {
	long := strings.Repeat("x", 200*1024)
	log := long + "\n" + long + " SECRETS_MISSING\n"
	got, err := New().ScanForTrigger(strings.NewReader(log), "SECRETS_MISSING")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Line)
}
