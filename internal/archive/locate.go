// Package archive finds the log of a single job step inside a workflow run
// log archive.
//
// GitHub packs run logs as a zip with one top-level directory per job and
// one file per step inside it, next to a flat "<n>_<job>.txt" file per job:
//
//	0_build.txt
//	build/1_Set up job.txt
//	build/2_Check secrets.txt
//
// Entries are visited in the order the archive lists them. Directories
// that only exist implicitly (as a prefix of a file name) are found too.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrEntryNotFound is the common cause of ErrJobNotFound and
	// ErrStepNotFound.
	ErrEntryNotFound = errors.New("log entry not found")
	ErrJobNotFound   = fmt.Errorf("job directory: %w", ErrEntryNotFound)
	ErrStepNotFound  = fmt.Errorf("step entry: %w", ErrEntryNotFound)

	// ErrArchiveUnreadable means the file is missing or not a zip archive.
	ErrArchiveUnreadable = errors.New("log archive unreadable")

	ErrEmptyPattern = errors.New("job and step name patterns must not be empty")
)

// Locate returns the path of the log entry to scan: the first top-level
// directory whose name contains job, then the first entry directly inside it
// whose name contains step. Only the first matching directory is searched.
func Locate(zr *zip.Reader, job, step string) (string, error) {
	if job == "" || step == "" {
		return "", ErrEmptyPattern
	}

	var jobDir string
	for _, dir := range topLevelDirs(zr) {
		if strings.Contains(dir, job) {
			jobDir = dir
			break
		}
	}
	if jobDir == "" {
		return "", fmt.Errorf("%w: no directory contains %q", ErrJobNotFound, job)
	}

	for _, child := range children(zr, jobDir) {
		if strings.Contains(child, step) {
			return jobDir + "/" + child, nil
		}
	}
	return "", fmt.Errorf("%w: nothing in %q contains %q", ErrStepNotFound, jobDir+"/", step)
}

// OpenEntry opens a located entry for reading.
func OpenEntry(zr *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range zr.File {
		if strings.TrimPrefix(f.Name, "/") == name {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrEntryNotFound, name)
}

// topLevelDirs lists top-level directory names in order of first appearance.
func topLevelDirs(zr *zip.Reader) []string {
	var dirs []string
	seen := make(map[string]bool)
	for _, f := range zr.File {
		dir, _, ok := strings.Cut(strings.TrimPrefix(f.Name, "/"), "/")
		if !ok || dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	return dirs
}

// children lists the names of the immediate entries of dir, files and sub
// directories alike, in order of first appearance.
func children(zr *zip.Reader, dir string) []string {
	prefix := dir + "/"
	var names []string
	seen := make(map[string]bool)
	for _, f := range zr.File {
		rest, ok := strings.CutPrefix(strings.TrimPrefix(f.Name, "/"), prefix)
		if !ok || rest == "" {
			continue
		}
		name, _, _ := strings.Cut(rest, "/")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
