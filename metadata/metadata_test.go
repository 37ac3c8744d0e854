package metadata

import (
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess(t *testing.T) {
	tests := []struct {
		names   []string
		groups  FileGroups
		wantErr bool
		want    [][]string
	}{
		{
			[]string{"foo"},
			FileGroups{{{"f1.fastq.gz"}}},
			false,
			[][]string{
				{"Barcode", "Name", "Dataset", "File"},
				{"sample_foo", "foo", "0", "f1.fastq.gz"},
			},
		},
		{
			[]string{"bar"},
			FileGroups{{{"f1.fastq.gz", "f2.fastq.gz"}}},
			false,
			[][]string{
				{"Barcode", "Name", "Dataset", "File1", "File2"},
				{"sample_bar", "bar", "0", "f1.fastq.gz", "f2.fastq.gz"},
			},
		},
		{
			[]string{"baz"},
			FileGroups{{{"f1.fastq.gz", "f2.fastq.gz"}, {"f3.fastq.gz", "f4.fastq.gz"}}},
			false,
			[][]string{
				{"Barcode", "Name", "Dataset", "File1", "File2"},
				{"sample_baz", "baz", "0", "f1.fastq.gz", "f2.fastq.gz"},
				{"sample_baz", "baz", "1", "f3.fastq.gz", "f4.fastq.gz"},
			},
		},
		{
			[]string{"baz", "qux"},
			FileGroups{{{"f1.fastq.gz", "f2.fastq.gz"}}, {{"f3.fastq.gz", "f4.fastq.gz"}}},
			false,
			[][]string{
				{"Barcode", "Name", "Dataset", "File1", "File2"},
				{"sample_baz", "baz", "0", "f1.fastq.gz", "f2.fastq.gz"},
				{"sample_qux", "qux", "0", "f3.fastq.gz", "f4.fastq.gz"},
			},
		},
		{
			[]string{"baz", "qux"},
			FileGroups{{{"f1.fastq.gz"}}},
			true,
			nil,
		},
		{
			[]string{"baz", "qux"},
			FileGroups{{{"f1.fastq.gz"}}, {{"f2.fastq.gz", "f3.fastq.gz"}}},
			true,
			nil,
		},
	}
	for _, test := range tests {
		opts := DefaultOpts
		opts.SampleNames = test.names
		rows, err := Process(opts, test.groups)
		if test.wantErr {
			assert.Error(t, err, "names: %v", test.names)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, test.want, rows)
	}
}

func TestParseFileGroups(t *testing.T) {
	tests := []struct {
		json    string
		wantErr bool
		want    FileGroups
	}{
		{
			`[[["/a/f1.fastq.gz","/b/f2.fastq.gz"]]]`,
			false,
			FileGroups{{{"f1.fastq.gz", "f2.fastq.gz"}}},
		},
		{
			`[[["/a/f1.fastq.gz","/b/f2.fastq.gz"],["/a/f3.fastq.gz","/b/f4.fastq.gz"]]]`,
			false,
			FileGroups{{{"f1.fastq.gz", "f2.fastq.gz"}, {"f3.fastq.gz", "f4.fastq.gz"}}},
		},
		{
			`[[["/a/f1.fastq.gz", "/b/f2.fastq.gz"]],[["/a/f3.fastq.gz", "/b/f4.fastq.gz"]]]`,
			false,
			FileGroups{{{"f1.fastq.gz", "f2.fastq.gz"}}, {{"f3.fastq.gz", "f4.fastq.gz"}}},
		},
		{`[[["f1.fastq.gz", "f2.fastq.gz", "f3.fastq.gz"]]]`, true, nil},
		{`[[["f1.fastq.gz"], ["f2.fastq.gz", "f3.fastq.gz"]]]`, true, nil},
		{`[[[]]]`, true, nil},
		{`{"not": "a list"}`, true, nil},
	}
	for _, test := range tests {
		groups, err := ParseFileGroups(strings.NewReader(test.json))
		if test.wantErr {
			assert.Error(t, err, test.json)
			continue
		}
		require.NoError(t, err, test.json)
		assert.Equal(t, test.want, groups)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, [][]string{
		{"Barcode", "Name", "Dataset", "File"},
		{"sample_foo", "foo", "0", "f1.fastq.gz"},
	}))
	assert.Equal(t, "Barcode,Name,Dataset,File\r\nsample_foo,foo,0,f1.fastq.gz\r\n", buf.String())
}

func TestReadAndWriteFile(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()

	in := filepath.Join(tempDir, "files.json")
	require.NoError(t, ioutil.WriteFile(in, []byte(`[[["/x/f1.fastq.gz"]]]`), 0644))
	groups, err := ReadFileGroups(ctx, in)
	require.NoError(t, err)

	opts := DefaultOpts
	opts.SampleNames = []string{"foo"}
	rows, err := Process(opts, groups)
	require.NoError(t, err)

	out := filepath.Join(tempDir, "metadata.csv")
	require.NoError(t, WriteFile(ctx, out, rows))
	data, err := ioutil.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Barcode,Name,Dataset,File\r\nsample_foo,foo,0,f1.fastq.gz\r\n", string(data))
}
