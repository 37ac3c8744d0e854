// Package reference reads chromosome sizes of a reference genome.
package reference

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/wgbs/internal/fileutil"
)

// ChromSize is the length of one reference sequence.
type ChromSize struct {
	Name   string
	Length int64
}

// ChromSizes lists reference sequences in file order.
type ChromSizes []ChromSize

// GenomeSize returns the total length of all sequences.
func (s ChromSizes) GenomeSize() int64 {
	var total int64
	for _, c := range s {
		total += c.Length
	}
	return total
}

type chromSizeRow struct {
	Name   string
	Length int64
}

type faiRow struct {
	Name      string
	Length    int64
	Offset    int64
	LineBases int64
	LineWidth int64
}

func validate(sizes ChromSizes) error {
	seen := make(map[string]bool, len(sizes))
	for _, c := range sizes {
		if c.Name == "" {
			return fmt.Errorf("empty sequence name")
		}
		if c.Length <= 0 {
			return fmt.Errorf("sequence %s: non-positive length %d", c.Name, c.Length)
		}
		if seen[c.Name] {
			return fmt.Errorf("sequence %s listed twice", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// ParseChromSizes parses a two-column chrom.sizes file (name, length).
// Lines starting with '#' are ignored.
func ParseChromSizes(r io.Reader) (ChromSizes, error) {
	tr := tsv.NewReader(r)
	tr.Comment = '#'
	tr.FieldsPerRecord = 2
	var sizes ChromSizes
	for {
		var row chromSizeRow
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		sizes = append(sizes, ChromSize{row.Name, row.Length})
	}
	return sizes, validate(sizes)
}

// ParseFAI parses a samtools faidx index and returns its sequence lengths.
func ParseFAI(r io.Reader) (ChromSizes, error) {
	tr := tsv.NewReader(r)
	tr.FieldsPerRecord = 5
	var sizes ChromSizes
	for {
		var row faiRow
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		sizes = append(sizes, ChromSize{row.Name, row.Length})
	}
	return sizes, validate(sizes)
}

type fileKind int

const (
	kindChromSizes fileKind = iota
	kindFAI
	kindFASTA
)

func kindOf(path string) fileKind {
	p := strings.TrimSuffix(path, ".gz")
	switch {
	case strings.HasSuffix(p, ".fai"):
		return kindFAI
	case strings.HasSuffix(p, ".fa"), strings.HasSuffix(p, ".fasta"), strings.HasSuffix(p, ".fna"):
		return kindFASTA
	}
	return kindChromSizes
}

// ReadChromSizes reads sequence sizes from path. The format follows the
// file name: a samtools .fai index, a FASTA file (.fa, .fasta, .fna), or
// otherwise a chrom.sizes TSV. Any of these may be gzipped.
func ReadChromSizes(ctx context.Context, path string) (sizes ChromSizes, err error) {
	in, err := fileutil.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	switch kindOf(path) {
	case kindFAI:
		sizes, err = ParseFAI(in)
	case kindFASTA:
		sizes, err = SizesFromFASTA(in)
	default:
		sizes, err = ParseChromSizes(in)
	}
	if err != nil {
		return nil, errors.E(err, "read chromosome sizes", path)
	}
	return sizes, nil
}
