package mapqc

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/grailbio/wgbs/qc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func checkValues(t *testing.T, got *qc.Values, want map[string]float64) {
	t.Helper()
	assert.Equal(t, len(want), got.Len())
	for key, w := range want {
		v, err := got.Float(key)
		if !assert.NoError(t, err, key) {
			continue
		}
		assert.InDelta(t, w, v, 1e-9, key)
	}
}

func TestParsePairedEnded(t *testing.T) {
	v, err := ParseFile(context.Background(), "testdata/paired.html")
	require.NoError(t, err)
	checkValues(t, v, map[string]float64{
		"sequenced_reads":                    400000,
		"pct_sequenced_reads":                1.0,
		"general_reads":                      358466,
		"pct_general_reads":                  0.8962,
		"reads_in_control_sequences":         0,
		"pct_reads_in_control_sequences":     0.0,
		"reads_under_conversion_control":     12349,
		"pct_reads_under_conversion_control": 0.0309,
		"reads_over_conversion_control":      0,
		"pct_reads_over_conversion_control":  0.0,
		"unmapped_reads":                     29185,
		"pct_unmapped_reads":                 0.073,
		"bisulfite_reads_c2t":                192236,
		"pct_bisulfite_reads_c2t":            0.4806,
		"bisulfite_reads_g2a":                178579,
		"pct_bisulfite_reads_g2a":            0.4464,
		"unique_fragments":                   156841,
		"pct_unique_fragments":               0.7842,
		"conversion_rate":                    0.9986559741624927,
		"correct_pairs":                      179763,
	})
	n, err := v.Int("sequenced_reads")
	require.NoError(t, err)
	expect.EQ(t, n, int64(400000))

	// Values are written in report order.
	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{"sequenced_reads":400000,"pct_sequenced_reads":1,"general_reads":358466`))
}

func TestParseSingleEnded(t *testing.T) {
	v, err := ParseFile(context.Background(), "testdata/single.html")
	require.NoError(t, err)
	checkValues(t, v, map[string]float64{
		"bisulfite_reads_c2t":                427911721,
		"bisulfite_reads_g2a":                410279399,
		"conversion_rate":                    0.993987188263205,
		"general_reads":                      834427445,
		"pct_bisulfite_reads_c2t":            0.3791,
		"pct_bisulfite_reads_g2a":            0.3635,
		"pct_general_reads":                  0.7392,
		"pct_reads_in_control_sequences":     0.0,
		"pct_reads_over_conversion_control":  0.0,
		"pct_reads_under_conversion_control": 0.0033,
		"pct_sequenced_reads":                1.0,
		"pct_unique_fragments":               0.7466,
		"pct_unmapped_reads":                 0.2574,
		"reads_in_control_sequences":         0,
		"reads_over_conversion_control":      0,
		"reads_under_conversion_control":     3763675,
		"sequenced_reads":                    1128751544,
		"unique_fragments":                   625822824,
		"unmapped_reads":                     290560424,
	})
	_, ok := v.Get("correct_pairs")
	assert.False(t, ok)
}

const testTable = `
<HTML>
<BODY>
<H1 id="section"> Mapping Stats (Reads) </H1>
<TABLE id="hor-zebra">
<TR>
    <TH scope="col">Concept</TH> <TH scope="col">Total Reads</TH> <TH scope="col">%</TH>
</TR>
<TR class="odd">
<TD> Sequenced Reads </TD> <TD> 400000 </TD> <TD> 100.00 % </TD>
</TR>
</TABLE>
</BODY>
</HTML>
`

func TestFindTable(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(testTable))
	require.NoError(t, err)
	rows, ok := FindTable(doc, MappingStatsTable)
	require.True(t, ok)
	expect.EQ(t, rows, []Row{{"Sequenced Reads", "400000", "100.00 %"}})

	_, ok = FindTable(doc, "foo")
	expect.False(t, ok)
}

func TestHelpers(t *testing.T) {
	expect.EQ(t, Key(" Mapped Reads "), "mapped_reads")
	expect.EQ(t, Key("Bisulfite_reads C2T"), "bisulfite_reads_c2t")

	pct, err := Percent(" 50.0 % ")
	require.NoError(t, err)
	expect.EQ(t, pct, 0.5)
	pct, err = Percent("73.92 %")
	require.NoError(t, err)
	assert.InDelta(t, 0.7392, pct, 1e-12)
	_, err = Percent("NA")
	assert.Error(t, err)

	n, err := Int(" 3 ")
	require.NoError(t, err)
	expect.EQ(t, n, int64(3))
	_, err = Int("3.5")
	assert.Error(t, err)
}

func TestParseMalformed(t *testing.T) {
	bad := strings.Replace(testTable, "<TD> 400000 </TD>", "<TD> many </TD>", 1)
	_, err := Parse(strings.NewReader(bad))
	assert.Error(t, err)

	short := strings.Replace(testTable, "<TD> 100.00 % </TD>", "", 1)
	_, err = Parse(strings.NewReader(short))
	assert.Error(t, err)
}
