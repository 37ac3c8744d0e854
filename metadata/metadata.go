// Package metadata writes the sample metadata CSV that tells gemBS which
// FASTQ files belong to which sample and dataset.
package metadata

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/wgbs/internal/fileutil"
)

// FileGroups lists, for each sample, the FASTQ groups of each dataset
// (sequencing run). A group holds one file for single-ended data and two
// files for paired-ended data.
type FileGroups [][][]string

// Opts configures Process.
type Opts struct {
	// SampleNames has one name per entry of the FileGroups.
	SampleNames []string
	// BarcodePrefix is prepended to the sample name to form the barcode.
	BarcodePrefix string
}

// DefaultOpts holds the default settings.
var DefaultOpts = Opts{
	BarcodePrefix: "sample_",
}

var (
	singleEndedHeader = []string{"Barcode", "Name", "Dataset", "File"}
	pairedEndedHeader = []string{"Barcode", "Name", "Dataset", "File1", "File2"}
)

// ParseFileGroups decodes the JSON produced by the workflow for the FASTQ
// inputs, an array of per-sample arrays of FASTQ groups. Paths are reduced
// to their basenames, since gemBS finds the files through its
// sequence_dir. All groups must have the same size, either one or two.
func ParseFileGroups(r io.Reader) (FileGroups, error) {
	var groups FileGroups
	if err := json.NewDecoder(r).Decode(&groups); err != nil {
		return nil, errors.E(err, "decode fastq groups")
	}
	groupSize := -1
	for i, sample := range groups {
		for j, group := range sample {
			if len(group) == 0 || len(group) > 2 {
				return nil, fmt.Errorf("sample %d, group %d: expected one or two fastq files, found %d", i, j, len(group))
			}
			if groupSize == -1 {
				groupSize = len(group)
			} else if groupSize != len(group) {
				return nil, fmt.Errorf("sample %d, group %d: mixed single-ended and paired-ended fastq groups", i, j)
			}
			for k, p := range group {
				group[k] = path.Base(p)
			}
		}
	}
	return groups, nil
}

// ReadFileGroups reads and parses the FASTQ group JSON at path.
func ReadFileGroups(ctx context.Context, path string) (groups FileGroups, err error) {
	in, err := fileutil.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	if groups, err = ParseFileGroups(in); err != nil {
		return nil, errors.E(err, path)
	}
	return groups, nil
}

// Process returns the rows of the metadata CSV, header first. The dataset
// column numbers the groups of each sample from zero.
func Process(opts Opts, groups FileGroups) ([][]string, error) {
	if len(opts.SampleNames) != len(groups) {
		return nil, fmt.Errorf("found %d sample names but %d samples in the fastq groups",
			len(opts.SampleNames), len(groups))
	}
	header := pairedEndedHeader
	for _, sample := range groups {
		if len(sample) > 0 && len(sample[0]) == 1 {
			header = singleEndedHeader
		}
	}
	rows := [][]string{header}
	for i, sample := range groups {
		name := opts.SampleNames[i]
		for j, group := range sample {
			if len(group)+3 != len(header) {
				return nil, fmt.Errorf("sample %s, group %d: expected %d fastq files, found %d",
					name, j, len(header)-3, len(group))
			}
			row := []string{opts.BarcodePrefix + name, name, strconv.Itoa(j)}
			rows = append(rows, append(row, group...))
		}
	}
	return rows, nil
}

// Write writes rows as CSV with CRLF line endings.
func Write(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteFile writes rows as CSV to path.
func WriteFile(ctx context.Context, path string, rows [][]string) error {
	return fileutil.WriteWith(ctx, path, func(w io.Writer) error {
		return Write(w, rows)
	})
}
