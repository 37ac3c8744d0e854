package bedmethyl

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBedMethyl = `track name="ENCSR156JXJ" description="ENCSR156JXJ" visibility=2 itemRgb="On"
chr1	10468	10469	"ENCSR156JXJ"	1	+	10468	10469	255,0,0	1	100	CG	CG	2
chr1	10470	10471	"ENCSR156JXJ"	12	-	10470	10471	0,255,0	12	33.3
`

func TestRead(t *testing.T) {
	records, err := Read(strings.NewReader(testBedMethyl))
	require.NoError(t, err)
	expect.EQ(t, records, []Record{
		{"chr1", 10468, 10469, 1, 100},
		{"chr1", 10470, 10471, 12, 33.3},
	})
}

func TestReadErrors(t *testing.T) {
	for _, input := range []string{
		"chr1\t1\t2\t.\t1\t+\t1\t2\t0,0,0\t1\n",
		"chr1\tx\t2\t.\t1\t+\t1\t2\t0,0,0\t1\t50\n",
		"chr1\t1\t2\t.\t1\t+\t1\t2\t0,0,0\t1.5\t50\n",
		"chr1\t1\t2\t.\t1\t+\t1\t2\t0,0,0\t1\tNA\n",
	} {
		_, err := Read(strings.NewReader(input))
		assert.Error(t, err, input)
	}
}

func TestGetTokens(t *testing.T) {
	tokens := make([][]byte, 3)
	expect.EQ(t, getTokens(tokens, []byte("a\tb")), 2)
	expect.EQ(t, getTokens(tokens, []byte("a\tb\tc\td")), 3)
	expect.EQ(t, string(tokens[2]), "c")
	expect.EQ(t, getTokens(tokens, []byte("a\t\tc")), 3)
	expect.EQ(t, string(tokens[1]), "")
}

func TestReadFileGzip(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := filepath.Join(tempDir, "calls.bed.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(testBedMethyl))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	records, err := ReadFile(context.Background(), path)
	require.NoError(t, err)
	expect.EQ(t, len(records), 2)

	plain := filepath.Join(tempDir, "calls.bed")
	require.NoError(t, ioutil.WriteFile(plain, []byte(testBedMethyl), 0644))
	records, err = ReadFile(context.Background(), plain)
	require.NoError(t, err)
	expect.EQ(t, records[1].Coverage, int64(12))
}
