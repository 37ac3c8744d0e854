package coverage

import (
	"context"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/wgbs/internal/fileutil"
	"github.com/grailbio/wgbs/qc"
	"github.com/grailbio/wgbs/reference"
)

const (
	// AlignedReadsKey is the stats entry holding the aligned read count.
	AlignedReadsKey = "reads mapped"
	// ReadLengthKey is the stats entry holding the read length.
	ReadLengthKey = "average length"

	samtoolsStatsMetric   = "samtools_stats"
	averageCoverageMetric = "average_coverage"
)

// Opts configures Run.
type Opts struct {
	// BamPath is the BAM to summarize. Ignored if SamtoolsStatsPath is set.
	BamPath string
	// SamtoolsStatsPath is the text output of "samtools stats" for the BAM.
	SamtoolsStatsPath string
	// ChromSizesPath lists the reference sequence sizes, see
	// reference.ReadChromSizes.
	ChromSizesPath string
	// Threads is the BGZF decompression parallelism.
	Threads int
}

// DefaultOpts holds the default settings.
var DefaultOpts = Opts{
	Threads: 1,
}

// AverageCoverage returns alignedReadCount * readLength / genomeSize.
func AverageCoverage(genomeSize, alignedReadCount int64, readLength float64) (float64, error) {
	if genomeSize <= 0 {
		return 0, fmt.Errorf("genome size must be positive, got %d", genomeSize)
	}
	return float64(alignedReadCount) * readLength / float64(genomeSize), nil
}

// AverageCoverageMetric computes the average coverage from samtools stats
// values and returns it as a QC metric.
func AverageCoverageMetric(stats *qc.Values, genomeSize int64) (qc.Metric, error) {
	aligned, err := stats.Int(AlignedReadsKey)
	if err != nil {
		return qc.Metric{}, err
	}
	readLength, err := stats.Float(ReadLengthKey)
	if err != nil {
		return qc.Metric{}, err
	}
	cov, err := AverageCoverage(genomeSize, aligned, readLength)
	if err != nil {
		return qc.Metric{}, err
	}
	return qc.NewMetric(averageCoverageMetric, qc.Field{Key: "average_coverage", Value: cov}), nil
}

// MakeQCRecord collects metrics into a record.
func MakeQCRecord(metrics ...qc.Metric) (*qc.Record, error) {
	r := &qc.Record{}
	for _, m := range metrics {
		if err := r.Add(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func loadStats(ctx context.Context, opts Opts) (*qc.Values, error) {
	if opts.SamtoolsStatsPath != "" {
		in, err := fileutil.Open(ctx, opts.SamtoolsStatsPath)
		if err != nil {
			return nil, err
		}
		defer in.Close(ctx) // nolint: errcheck
		v, err := ParseSamtoolsStats(in)
		if err != nil {
			return nil, errors.E(err, opts.SamtoolsStatsPath)
		}
		return v, nil
	}
	if opts.BamPath == "" {
		return nil, fmt.Errorf("either a BAM or a samtools stats file is required")
	}
	in, err := fileutil.Open(ctx, opts.BamPath)
	if err != nil {
		return nil, err
	}
	defer in.Close(ctx) // nolint: errcheck
	stats, err := ComputeStats(ctx, in, opts.Threads)
	if err != nil {
		return nil, errors.E(err, opts.BamPath)
	}
	return stats.Values(), nil
}

// Run computes the samtools stats and the average coverage described by
// opts, and returns them as a QC record.
func Run(ctx context.Context, opts Opts) (*qc.Record, error) {
	if opts.ChromSizesPath == "" {
		return nil, fmt.Errorf("chromosome sizes are required")
	}
	sizes, err := reference.ReadChromSizes(ctx, opts.ChromSizesPath)
	if err != nil {
		return nil, err
	}
	stats, err := loadStats(ctx, opts)
	if err != nil {
		return nil, err
	}
	cov, err := AverageCoverageMetric(stats, sizes.GenomeSize())
	if err != nil {
		return nil, err
	}
	log.Printf("genome size %d, average coverage %v", sizes.GenomeSize(), cov.Values.Fields()[0].Value)
	return MakeQCRecord(qc.Metric{Name: samtoolsStatsMetric, Values: stats}, cov)
}
