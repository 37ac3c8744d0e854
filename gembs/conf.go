// Package gembs generates configuration files for the gemBS bisulfite
// mapping and methylation calling pipeline.
package gembs

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/grailbio/wgbs/internal/fileutil"
)

// Opts describes a gemBS configuration.
type Opts struct {
	// Reference is the reference FASTA. It is localized into the reference/
	// directory by the workflow, so only its basename is used.
	Reference string
	// ExtraReference is the FASTA holding control sequences, e.g. lambda.
	ExtraReference string
	// UnderconversionSequence names the contig in ExtraReference used as the
	// underconversion control. Optional.
	UnderconversionSequence string
	// IncludeFile is an additional conf file to include. gemBS must find it,
	// so the path is kept as given. Optional.
	IncludeFile string
	// NumThreads is the number of threads gemBS uses per job.
	NumThreads int
	// NumJobs is the number of concurrent gemBS jobs.
	NumJobs int
}

// DefaultOpts holds the default gemBS settings.
var DefaultOpts = Opts{
	NumThreads: 8,
	NumJobs:    3,
}

// MakeConf returns the lines of the gemBS configuration described by opts.
func MakeConf(opts Opts) ([]string, error) {
	if opts.Reference == "" {
		return nil, fmt.Errorf("gembs: reference is required")
	}
	if opts.ExtraReference == "" {
		return nil, fmt.Errorf("gembs: extra reference is required")
	}
	if opts.NumThreads <= 0 || opts.NumJobs <= 0 {
		return nil, fmt.Errorf("gembs: threads (%d) and jobs (%d) must be positive", opts.NumThreads, opts.NumJobs)
	}
	conf := []string{
		"reference = reference/" + filepath.Base(opts.Reference),
		"extra_references = reference/" + filepath.Base(opts.ExtraReference),
		"index_dir = indexes",
		"base = .",
		"sequence_dir = ${base}/fastq/@SAMPLE",
		"bam_dir = ${base}/mapping/@BARCODE",
		"bcf_dir = ${base}/calls/@BARCODE",
		"extract_dir = ${base}/extract/@BARCODE",
		"report_dir = ${base}/report",
		fmt.Sprintf("threads = %d", opts.NumThreads),
		fmt.Sprintf("jobs = %d", opts.NumJobs),
	}
	if opts.UnderconversionSequence != "" || opts.IncludeFile != "" {
		conf = append(conf, "[mapping]")
	}
	if opts.UnderconversionSequence != "" {
		conf = append(conf, "underconversion_sequence = "+opts.UnderconversionSequence)
	}
	if opts.IncludeFile != "" {
		conf = append(conf, "include "+opts.IncludeFile)
	}
	return conf, nil
}

// Write writes conf to w, one line each.
func Write(w io.Writer, conf []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range conf {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteConf writes conf to path.
func WriteConf(ctx context.Context, path string, conf []string) error {
	return fileutil.WriteWith(ctx, path, func(w io.Writer) error {
		return Write(w, conf)
	})
}
