package correlation

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"math"
	"path/filepath"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/grailbio/wgbs/encoding/bedmethyl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin(t *testing.T) {
	a := []bedmethyl.Record{
		{Chrom: "chr1", Start: 1, End: 2, Coverage: 14, Methylation: 57},
		{Chrom: "chr1", Start: 3, End: 4, Coverage: 12, Methylation: 100},
		{Chrom: "chr1", Start: 5, End: 6, Coverage: 3, Methylation: 100},
	}
	b := []bedmethyl.Record{
		{Chrom: "chr1", Start: 1, End: 2, Coverage: 16, Methylation: 87},
		{Chrom: "chr1", Start: 3, End: 4, Coverage: 12, Methylation: 33},
		{Chrom: "chr1", Start: 5, End: 6, Coverage: 3, Methylation: 100},
		{Chrom: "chr1", Start: 7, End: 8, Coverage: 3, Methylation: 100},
	}
	x, y := Join(a, b, DefaultMinCoverage)
	expect.EQ(t, x, []float64{57, 100})
	expect.EQ(t, y, []float64{87, 33})
	assert.InDelta(t, -1.0, Pearson(a, b, DefaultMinCoverage), 1e-12)
}

func TestPearson(t *testing.T) {
	var a, b []bedmethyl.Record
	xs := []float64{10, 20, 30, 40, 50}
	ys := []float64{12, 24, 33, 46, 49}
	for i := range xs {
		a = append(a, bedmethyl.Record{Chrom: "chr2", Start: int64(i), End: int64(i + 1), Coverage: 20, Methylation: xs[i]})
		b = append(b, bedmethyl.Record{Chrom: "chr2", Start: int64(i), End: int64(i + 1), Coverage: 30, Methylation: ys[i]})
	}
	// Below the coverage threshold on one side only.
	a = append(a, bedmethyl.Record{Chrom: "chr2", Start: 9, End: 10, Coverage: 9, Methylation: 0})
	b = append(b, bedmethyl.Record{Chrom: "chr2", Start: 9, End: 10, Coverage: 30, Methylation: 100})

	// Hand computed: mean x = 30, mean y = 32.8.
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-30, ys[i]-32.8
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	want := sxy / math.Sqrt(sxx*syy)
	assert.InDelta(t, want, Pearson(a, b, DefaultMinCoverage), 1e-12)
}

func TestPearsonUndefined(t *testing.T) {
	a := []bedmethyl.Record{{Chrom: "chr1", Start: 1, End: 2, Coverage: 20, Methylation: 50}}
	b := []bedmethyl.Record{{Chrom: "chr1", Start: 1, End: 2, Coverage: 20, Methylation: 60}}
	assert.True(t, math.IsNaN(Pearson(a, b, DefaultMinCoverage)))
	assert.True(t, math.IsNaN(Pearson(nil, nil, DefaultMinCoverage)))
}

func TestMakePearsonQC(t *testing.T) {
	data, err := json.Marshal(MakePearsonQC(0.33))
	require.NoError(t, err)
	expect.EQ(t, string(data), `{"pearson_correlation":{"pearson_correlation":0.33}}`)

	data, err = json.Marshal(MakePearsonQC(math.NaN()))
	require.NoError(t, err)
	expect.EQ(t, string(data), `{"pearson_correlation":{"pearson_correlation":null}}`)
}

func TestRun(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	const header = "track name=\"test\"\n"
	rep1 := header +
		"chr1\t1\t2\t.\t14\t+\t1\t2\t0,0,0\t14\t57\n" +
		"chr1\t3\t4\t.\t12\t+\t3\t4\t0,0,0\t12\t100\n"
	rep2 := header +
		"chr1\t1\t2\t.\t16\t+\t1\t2\t0,0,0\t16\t87\n" +
		"chr1\t3\t4\t.\t12\t+\t3\t4\t0,0,0\t12\t33\n"
	p1 := filepath.Join(tempDir, "rep1.bed")
	p2 := filepath.Join(tempDir, "rep2.bed")
	require.NoError(t, ioutil.WriteFile(p1, []byte(rep1), 0644))
	require.NoError(t, ioutil.WriteFile(p2, []byte(rep2), 0644))

	rec, err := Run(context.Background(), p1, p2, DefaultMinCoverage)
	require.NoError(t, err)
	v, ok := rec.Get("pearson_correlation")
	require.True(t, ok)
	r, err := v.Float("pearson_correlation")
	require.NoError(t, err)
	assert.InDelta(t, -1.0, r, 1e-12)

	_, err = Run(context.Background(), p1, filepath.Join(tempDir, "missing.bed"), DefaultMinCoverage)
	assert.Error(t, err)
}
