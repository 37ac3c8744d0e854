// Package cromwell holds helpers for tasks running inside a Cromwell
// execution directory: locating the outputs of sibling tasks and
// flattening TSVs written by write_tsv.
package cromwell

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/wgbs/internal/fileutil"
)

// DefaultNearness is the number of directories between a task's working
// directory and the root shared with its sibling tasks in Cromwell's
// layout (call-<task>/execution).
const DefaultNearness = 2

// trimComponents drops the last n '/'-separated components of path.
func trimComponents(path string, n int) string {
	for i := 0; i < n; i++ {
		j := strings.LastIndexByte(path, '/')
		if j < 0 {
			break
		}
		path = path[:j]
	}
	return path
}

// PatternFromDir returns a recursive glob for pattern below the directory
// up levels above dir.
func PatternFromDir(dir, pattern string, up int) string {
	return trimComponents(dir, up) + "/**/" + pattern
}

// PatternFromNeighbour returns a recursive glob for pattern below the
// directory containing file.
func PatternFromNeighbour(file, pattern string) string {
	return trimComponents(file, 1) + "/**/" + pattern
}

// Glob returns the sorted paths matching pattern. "**" matches any number
// of directories.
func Glob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, errors.E(err, "glob", pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

// SearchOpts configures Search.
type SearchOpts struct {
	// Pattern is the glob to search for.
	Pattern string
	// Nearness is the number of directories to climb from the working
	// directory before searching. Ignored if NearestNeighbour is set.
	Nearness int
	// NearestNeighbour, if set, is a file whose directory is searched.
	NearestNeighbour string
	// Dir is the working directory. The process working directory is used
	// if empty.
	Dir string
}

// DefaultSearchOpts holds the default settings.
var DefaultSearchOpts = SearchOpts{
	Nearness: DefaultNearness,
}

// SearchPattern returns the recursive glob described by opts.
func SearchPattern(opts SearchOpts) (string, error) {
	if opts.Pattern == "" {
		return "", fmt.Errorf("empty search pattern")
	}
	if opts.NearestNeighbour != "" {
		return PatternFromNeighbour(opts.NearestNeighbour, opts.Pattern), nil
	}
	if opts.Nearness < 0 {
		return "", fmt.Errorf("nearness must not be negative, got %d", opts.Nearness)
	}
	dir := opts.Dir
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return "", err
		}
	}
	return PatternFromDir(dir, opts.Pattern, opts.Nearness), nil
}

// Search returns the files matching opts.
func Search(opts SearchOpts) ([]string, error) {
	pattern, err := SearchPattern(opts)
	if err != nil {
		return nil, err
	}
	return Glob(pattern)
}

// WriteMatches writes one path per line.
func WriteMatches(w io.Writer, matches []string) error {
	for _, m := range matches {
		if _, err := io.WriteString(w, m+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// AppendMatches appends matches, one per line, to "<name>.txt", creating
// the file if needed.
func AppendMatches(name string, matches []string) (err error) {
	path := name + ".txt"
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return errors.E(err, "open", path)
	}
	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = errors.E(e, "close", path)
		}
	}()
	return WriteMatches(f, matches)
}

// Flatten writes every field of the TSV read from r on its own line. It
// turns the write_tsv output of an Array[Array[File]] into a list of
// files.
func Flatten(r io.Reader, w io.Writer) error {
	tr := tsv.NewReader(r)
	tr.FieldsPerRecord = -1
	tr.LazyQuotes = true
	for {
		fields, err := tr.Reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.E(err, "read tsv")
		}
		for _, f := range fields {
			if f == "" {
				continue
			}
			if _, err := io.WriteString(w, f+"\n"); err != nil {
				return err
			}
		}
	}
}

// FlattenFile runs Flatten on the TSV at path.
func FlattenFile(ctx context.Context, path string, w io.Writer) (err error) {
	in, err := fileutil.Open(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	if err := Flatten(in, w); err != nil {
		return errors.E(err, path)
	}
	return nil
}
