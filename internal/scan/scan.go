// Package scan discovers video/audio file pairs sharing a base filename in
// a source directory.
package scan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Sentinel errors returned by Scan. Both abort the run before any merging.
var (
	ErrDirectoryNotFound = errors.New("source directory not found")
	ErrPermissionDenied  = errors.New("source directory not readable")
)

// Pair is one complete video+audio pairing. Both paths live in the scanned
// directory and differ only in extension. A Pair is built once by Scan and
// consumed once by the merge step.
type Pair struct {
	Base      string // Filename without extension, e.g. "Match 2024-05-01".
	VideoPath string
	AudioPath string
}

// Unmatched is a file whose base name exists under only one of the two
// recognized extensions. Reported for diagnostics; never an error.
type Unmatched struct {
	Base string
	Path string
}

// Result holds the outcome of scanning one directory. Pairs and Unmatched
// are both sorted lexicographically by base name, so a run processes files
// in a reproducible order.
type Result struct {
	Pairs     []Pair
	Unmatched []Unmatched
}

// Scan lists dir (non-recursive) and pairs files whose base names appear
// under both videoExt and audioExt. Matching is exact on the base name
// string: no case folding or normalization, so "Game.mp4" and "game.m4a"
// do not pair. Extensions themselves match case-insensitively, consistent
// with how the files were recorded on a case-insensitive filesystem.
//
// An empty directory yields an empty Result and nil error. Files with other
// extensions and subdirectories are ignored.
func Scan(dir, videoExt, audioExt string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, classifyDirError(dir, err)
	}

	videos := make(map[string]string) // base name → path
	audios := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		base := strings.TrimSuffix(name, filepath.Ext(name))
		switch ext {
		case videoExt:
			videos[base] = filepath.Join(dir, name)
		case audioExt:
			audios[base] = filepath.Join(dir, name)
		}
	}

	res := &Result{}
	for base, vpath := range videos {
		if apath, ok := audios[base]; ok {
			res.Pairs = append(res.Pairs, Pair{Base: base, VideoPath: vpath, AudioPath: apath})
		} else {
			res.Unmatched = append(res.Unmatched, Unmatched{Base: base, Path: vpath})
		}
	}
	for base, apath := range audios {
		if _, ok := videos[base]; !ok {
			res.Unmatched = append(res.Unmatched, Unmatched{Base: base, Path: apath})
		}
	}

	sort.Slice(res.Pairs, func(i, j int) bool { return res.Pairs[i].Base < res.Pairs[j].Base })
	sort.Slice(res.Unmatched, func(i, j int) bool {
		if res.Unmatched[i].Base != res.Unmatched[j].Base {
			return res.Unmatched[i].Base < res.Unmatched[j].Base
		}
		return res.Unmatched[i].Path < res.Unmatched[j].Path
	})
	return res, nil
}

// classifyDirError maps a ReadDir failure onto the scan sentinels, keeping
// the original error in the chain.
func classifyDirError(dir string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return wrapf(ErrDirectoryNotFound, dir, err)
	case errors.Is(err, fs.ErrPermission):
		return wrapf(ErrPermissionDenied, dir, err)
	default:
		// ENOTDIR and friends: the path exists but is not a listable directory.
		if fi, statErr := os.Stat(dir); statErr == nil && !fi.IsDir() {
			return wrapf(ErrDirectoryNotFound, dir, err)
		}
		return wrapf(ErrPermissionDenied, dir, err)
	}
}

type scanError struct {
	sentinel error
	dir      string
	cause    error
}

func wrapf(sentinel error, dir string, cause error) error {
	return &scanError{sentinel: sentinel, dir: dir, cause: cause}
}

func (e *scanError) Error() string {
	return e.sentinel.Error() + ": " + e.dir + ": " + e.cause.Error()
}

func (e *scanError) Is(target error) bool { return target == e.sentinel }

func (e *scanError) Unwrap() error { return e.cause }
