// Package fileutil opens and creates the files read and written by the
// wgbs tools. Paths may be local or use any scheme registered with
// github.com/grailbio/base/file; gzip-compressed inputs are decompressed
// transparently.
package fileutil

import (
	"context"
	"io"
	"io/ioutil"
	"sync"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/grailbio/base/fileio"
	"github.com/klauspost/compress/gzip"
)

var registerOnce sync.Once

// RegisterSchemes registers the s3:// file implementation. It is safe to
// call more than once.
func RegisterSchemes() {
	registerOnce.Do(func() {
		file.RegisterImplementation("s3", func() file.Implementation {
			return s3file.NewImplementation(s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
		})
	})
}

// Reader is an opened input file.
type Reader struct {
	io.Reader
	f  file.File
	gz *gzip.Reader
}

// Open opens path for reading. If the path name says the file is gzipped,
// the returned reader yields the decompressed contents.
func Open(ctx context.Context, path string) (*Reader, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	r := &Reader{Reader: f.Reader(ctx), f: f}
	if fileio.DetermineType(path) == fileio.Gzip {
		if r.gz, err = gzip.NewReader(r.Reader); err != nil {
			_ = f.Close(ctx)
			return nil, errors.E(err, "gunzip", path)
		}
		r.Reader = r.gz
	}
	return r, nil
}

// Close closes the underlying file.
func (r *Reader) Close(ctx context.Context) error {
	var err error
	if r.gz != nil {
		err = r.gz.Close()
	}
	if e := r.f.Close(ctx); e != nil && err == nil {
		err = e
	}
	return err
}

// ReadAll returns the full (decompressed) contents of path.
func ReadAll(ctx context.Context, path string) (data []byte, err error) {
	r, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := r.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	return ioutil.ReadAll(r)
}

// WriteWith creates path and calls fn with a writer for it. The file is
// closed after fn returns; if either fn or Close fails, the first error is
// returned.
func WriteWith(ctx context.Context, path string, fn func(w io.Writer) error) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer func() {
		if e := out.Close(ctx); e != nil && err == nil {
			err = errors.E(e, "close", path)
		}
	}()
	if err = fn(out.Writer(ctx)); err != nil {
		err = errors.E(err, "write", path)
	}
	return err
}
