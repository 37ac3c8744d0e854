package coverage

import (
	"bytes"
	"context"
	"io/ioutil"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	chr1, _   = sam.NewReference("chr1", "", "", 1000, nil, nil)
	header, _ = sam.NewHeader(nil, []*sam.Reference{chr1})
)

func newRecord(name string, ref *sam.Reference, pos int, flags sam.Flags, mapq byte, cigar sam.Cigar, seq string, qual byte) *sam.Record {
	r := sam.GetFromFreePool()
	r.Name = name
	r.Ref = ref
	r.Pos = pos
	r.MateRef = ref
	r.MatePos = pos
	r.Flags = flags
	r.MapQ = mapq
	r.Cigar = cigar
	r.Seq = sam.NewSeq([]byte(seq))
	r.Qual = bytes.Repeat([]byte{qual}, len(seq))
	return r
}

func cigar(ops ...sam.CigarOp) sam.Cigar { return sam.Cigar(ops) }

func testBAM(t *testing.T) []byte {
	var buf bytes.Buffer
	w, err := bam.NewWriter(&buf, header, 1)
	require.NoError(t, err)
	m4 := cigar(sam.NewCigarOp(sam.CigarMatch, 4))
	records := []*sam.Record{
		newRecord("r1", chr1, 10, sam.Paired|sam.Read1|sam.ProperPair, 60, m4, "ACGT", 30),
		newRecord("r2", chr1, 20, sam.Paired|sam.Read2|sam.ProperPair, 0,
			cigar(sam.NewCigarOp(sam.CigarMatch, 2), sam.NewCigarOp(sam.CigarInsertion, 1), sam.NewCigarOp(sam.CigarMatch, 1)),
			"ACGT", 30),
		newRecord("r3", nil, -1, sam.Unmapped, 0, nil, "AC", 20),
		newRecord("r4", chr1, 30, sam.Secondary, 60, m4, "ACGT", 30),
		newRecord("r5", chr1, 5, sam.Paired|sam.Read1|sam.MateUnmapped|sam.Duplicate|sam.QCFail, 60, m4, "GGGG", 30),
	}
	for _, r := range records {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestComputeStats(t *testing.T) {
	stats, err := ComputeStats(context.Background(), bytes.NewReader(testBAM(t)), 2)
	require.NoError(t, err)
	expect.EQ(t, stats.RawTotal, int64(4))
	expect.EQ(t, stats.Sequences, int64(4))
	expect.EQ(t, stats.NonPrimary, int64(1))
	expect.EQ(t, stats.Paired, int64(3))
	expect.EQ(t, stats.FirstFragments, int64(3))
	expect.EQ(t, stats.LastFragments, int64(1))
	expect.EQ(t, stats.Duplicated, int64(1))
	expect.EQ(t, stats.QCFailed, int64(1))
	expect.EQ(t, stats.Mapped, int64(3))
	expect.EQ(t, stats.Unmapped, int64(1))
	expect.EQ(t, stats.MappedAndPaired, int64(2))
	expect.EQ(t, stats.ProperlyPaired, int64(2))
	expect.EQ(t, stats.MQ0, int64(1))
	expect.EQ(t, stats.TotalLength, int64(14))
	expect.EQ(t, stats.BasesMapped, int64(12))
	expect.EQ(t, stats.BasesMappedCigar, int64(12))
	expect.EQ(t, stats.MaxLength, int64(4))
	expect.EQ(t, stats.AverageLength(), int64(3))
	expect.False(t, stats.Sorted)
	assert.InEpsilon(t, 400.0/14.0, stats.AverageQuality(), 1e-9)

	v := stats.Values()
	n, err := v.Int(AlignedReadsKey)
	require.NoError(t, err)
	expect.EQ(t, n, int64(3))
	sorted, _ := v.Get("is sorted")
	expect.EQ(t, sorted, 0)
}

func TestComputeStatsNotBAM(t *testing.T) {
	_, err := ComputeStats(context.Background(), strings.NewReader("not a bam"), 1)
	assert.Error(t, err)
}

func TestParseSamtoolsStats(t *testing.T) {
	v, err := ParseSamtoolsStats(strings.NewReader("SN\tfoo:\t3\n"))
	require.NoError(t, err)
	foo, ok := v.Get("foo")
	require.True(t, ok)
	expect.EQ(t, foo, int64(3))

	text := `# This file was produced by samtools stats
CHK	a	b	c
SN	raw total sequences:	400000
SN	reads mapped:	358466
SN	average length:	100
SN	average quality:	35.2
SN	error rate:	2.373795e-03	# mismatches / bases mapped (cigar)
FFQ	1	0
`
	v, err = ParseSamtoolsStats(strings.NewReader(text))
	require.NoError(t, err)
	expect.EQ(t, v.Len(), 5)
	q, _ := v.Get("average quality")
	expect.EQ(t, q, 35.2)
	e, _ := v.Get("error rate")
	expect.EQ(t, e, 2.373795e-03)

	_, err = ParseSamtoolsStats(strings.NewReader("SN\tfoo:\tbar\n"))
	assert.Error(t, err)
}

func TestAverageCoverage(t *testing.T) {
	cov, err := AverageCoverage(10, 3, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, cov, 1e-12)
	_, err = AverageCoverage(0, 3, 3)
	assert.Error(t, err)
}

func TestMakeQCRecord(t *testing.T) {
	stats, err := ParseSamtoolsStats(strings.NewReader("SN\treads mapped:\t30\nSN\taverage length:\t100\n"))
	require.NoError(t, err)
	cov, err := AverageCoverageMetric(stats, 1000)
	require.NoError(t, err)
	r, err := MakeQCRecord(cov)
	require.NoError(t, err)
	v, ok := r.Get("average_coverage")
	require.True(t, ok)
	f, err := v.Float("average_coverage")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, f, 1e-12)

	_, err = MakeQCRecord(cov, cov)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()

	bamPath := filepath.Join(tempDir, "in.bam")
	require.NoError(t, ioutil.WriteFile(bamPath, testBAM(t), 0644))
	sizesPath := filepath.Join(tempDir, "chrom.sizes")
	require.NoError(t, ioutil.WriteFile(sizesPath, []byte("chr1\t600\nchr2\t400\n"), 0644))

	opts := DefaultOpts
	opts.BamPath = bamPath
	opts.ChromSizesPath = sizesPath
	r, err := Run(ctx, opts)
	require.NoError(t, err)
	metrics := r.Metrics()
	require.Equal(t, 2, len(metrics))
	expect.EQ(t, metrics[0].Name, "samtools_stats")
	expect.EQ(t, metrics[1].Name, "average_coverage")
	f, err := metrics[1].Values.Float("average_coverage")
	require.NoError(t, err)
	assert.InDelta(t, 0.009, f, 1e-12)

	statsPath := filepath.Join(tempDir, "stats.txt")
	require.NoError(t, ioutil.WriteFile(statsPath, []byte("SN\treads mapped:\t10\nSN\taverage length:\t50\n"), 0644))
	opts = DefaultOpts
	opts.SamtoolsStatsPath = statsPath
	opts.ChromSizesPath = sizesPath
	r, err = Run(ctx, opts)
	require.NoError(t, err)
	v, _ := r.Get("average_coverage")
	f, err = v.Float("average_coverage")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, f, 1e-12)
	assert.False(t, math.IsNaN(f))

	_, err = Run(ctx, Opts{ChromSizesPath: sizesPath})
	assert.Error(t, err)
	_, err = Run(ctx, Opts{BamPath: bamPath})
	assert.Error(t, err)
}
