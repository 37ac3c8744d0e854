// Package correlation computes the replicate concordance QC of WGBS
// methylation calls: the Pearson correlation of per-CpG methylation
// between two bedMethyl files, over well-covered loci present in both.
package correlation

import (
	"context"
	"math"

	"github.com/grailbio/base/log"
	"github.com/grailbio/wgbs/encoding/bedmethyl"
	"github.com/grailbio/wgbs/qc"
	"gonum.org/v1/gonum/stat"
)

// DefaultMinCoverage is the ENCODE coverage threshold for loci used in the
// correlation.
const DefaultMinCoverage = 10

const metricName = "pearson_correlation"

type locus struct {
	chrom      string
	start, end int64
}

// Join keeps the records of a and b with coverage >= minCoverage and
// inner-joins them on (chrom, start, end). It returns the paired
// methylation percentages. A locus repeated in an input pairs with every
// matching record of the other input.
func Join(a, b []bedmethyl.Record, minCoverage int64) (x, y []float64) {
	index := make(map[locus][]float64, len(b))
	for _, r := range b {
		if r.Coverage < minCoverage {
			continue
		}
		l := locus{r.Chrom, r.Start, r.End}
		index[l] = append(index[l], r.Methylation)
	}
	for _, r := range a {
		if r.Coverage < minCoverage {
			continue
		}
		for _, m := range index[locus{r.Chrom, r.Start, r.End}] {
			x = append(x, r.Methylation)
			y = append(y, m)
		}
	}
	return x, y
}

// Pearson returns the Pearson correlation of methylation between a and b
// over the loci kept by Join. The result is NaN if fewer than two loci are
// shared or either side has no variance.
func Pearson(a, b []bedmethyl.Record, minCoverage int64) float64 {
	x, y := Join(a, b, minCoverage)
	log.Debug.Printf("correlation: %d shared loci with coverage >= %d", len(x), minCoverage)
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// MakePearsonQC wraps a correlation into a QC record.
func MakePearsonQC(r float64) *qc.Record {
	rec := &qc.Record{}
	// Adding a single metric to an empty record cannot fail.
	_ = rec.Add(qc.NewMetric(metricName, qc.Field{Key: metricName, Value: r}))
	return rec
}

// Run reads two bedMethyl files and returns their correlation QC record.
func Run(ctx context.Context, path1, path2 string, minCoverage int64) (*qc.Record, error) {
	a, err := bedmethyl.ReadFile(ctx, path1)
	if err != nil {
		return nil, err
	}
	b, err := bedmethyl.ReadFile(ctx, path2)
	if err != nil {
		return nil, err
	}
	r := Pearson(a, b, minCoverage)
	if math.IsNaN(r) {
		log.Error.Printf("correlation between %s and %s is undefined", path1, path2)
	}
	return MakePearsonQC(r), nil
}
