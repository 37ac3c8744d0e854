// Package bedmethyl reads ENCODE bedMethyl files, the per-CpG methylation
// call format described at https://www.encodeproject.org/data-standards/wgbs/.
//
// A bedMethyl row is a BED9+2 record: chrom, start, end, name, score,
// strand, thickStart, thickEnd, itemRgb, coverage, methylation percentage.
package bedmethyl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/wgbs/internal/fileutil"
)

const (
	coverageCol    = 9
	methylationCol = 10
	minCols        = methylationCol + 1
)

// Record is the part of a bedMethyl row used for QC.
type Record struct {
	Chrom string
	Start int64
	End   int64
	// Coverage is the number of reads covering the locus.
	Coverage int64
	// Methylation is the percentage of methylated reads, in [0, 100].
	Methylation float64
}

// getTokens splits line on tabs into tokens, returning the number of
// tokens found. At most len(tokens) tokens are saved; the remainder of the
// line is ignored.
func getTokens(tokens [][]byte, line []byte) int {
	n := 0
	for n < len(tokens) {
		i := bytes.IndexByte(line, '\t')
		if i < 0 {
			tokens[n] = line
			return n + 1
		}
		tokens[n] = line[:i]
		line = line[i+1:]
		n++
	}
	return n
}

func parseInt(b []byte, what string) (int64, error) {
	v, err := strconv.ParseInt(string(bytes.TrimSpace(b)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", what, err)
	}
	return v, nil
}

// Read parses bedMethyl rows from r. Blank lines, comments and the
// "track"/"browser" header lines are skipped. Columns beyond the eleventh
// are ignored.
func Read(r io.Reader) ([]Record, error) {
	var (
		records []Record
		tokens  = make([][]byte, minCols)
		scanner = bufio.NewScanner(r)
	)
	scanner.Buffer(make([]byte, 64<<10), 16<<20)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := bytes.TrimRight(scanner.Bytes(), "\r")
		if len(line) == 0 || line[0] == '#' ||
			bytes.HasPrefix(line, []byte("track")) || bytes.HasPrefix(line, []byte("browser")) {
			continue
		}
		if n := getTokens(tokens, line); n < minCols {
			return nil, fmt.Errorf("line %d: expected at least %d columns, found %d", lineno, minCols, n)
		}
		rec := Record{Chrom: string(tokens[0])}
		var err error
		if rec.Start, err = parseInt(tokens[1], "start"); err != nil {
			return nil, fmt.Errorf("line %d: %v", lineno, err)
		}
		if rec.End, err = parseInt(tokens[2], "end"); err != nil {
			return nil, fmt.Errorf("line %d: %v", lineno, err)
		}
		if rec.Coverage, err = parseInt(tokens[coverageCol], "coverage"); err != nil {
			return nil, fmt.Errorf("line %d: %v", lineno, err)
		}
		if rec.Methylation, err = strconv.ParseFloat(string(bytes.TrimSpace(tokens[methylationCol])), 64); err != nil {
			return nil, fmt.Errorf("line %d: methylation: %v", lineno, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadFile reads the bedMethyl file at path, which may be gzipped.
func ReadFile(ctx context.Context, path string) (records []Record, err error) {
	in, err := fileutil.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	if records, err = Read(in); err != nil {
		return nil, errors.E(err, path)
	}
	return records, nil
}
