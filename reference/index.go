package reference

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
)

// scanFASTA computes the samtools faidx entries of a FASTA stream. Line
// widths are taken from the first sequence line of each record.
func scanFASTA(in io.Reader) ([]faiRow, error) {
	var (
		r       = bufio.NewReaderSize(in, 1<<20)
		rows    []faiRow
		cur     *faiRow
		offset  int64
		lastErr error
	)
	for {
		line, err := r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		offset += int64(len(line))
		trimmed := bytes.TrimRight(line, "\r\n")
		switch {
		case len(trimmed) == 0:
		case trimmed[0] == '>':
			name := strings.Fields(string(trimmed[1:]))
			if len(name) == 0 {
				lastErr = errors.E("FASTA record without a name")
				break
			}
			rows = append(rows, faiRow{Name: name[0], Offset: offset})
			cur = &rows[len(rows)-1]
		case cur == nil:
			lastErr = errors.E("malformed FASTA file: sequence before the first header")
		default:
			if cur.LineWidth == 0 {
				cur.LineWidth = int64(len(line))
				cur.LineBases = int64(len(trimmed))
			}
			cur.Length += int64(len(trimmed))
		}
		if lastErr != nil {
			return nil, lastErr
		}
		if err == io.EOF {
			break
		}
	}
	if offset == 0 {
		return nil, errors.E("empty FASTA file")
	}
	return rows, nil
}

// GenerateIndex writes the samtools faidx index (*.fai) of the FASTA read
// from in. The format is defined at http://www.htslib.org/doc/faidx.html.
func GenerateIndex(out io.Writer, in io.Reader) error {
	rows, err := scanFASTA(in)
	if err != nil {
		return err
	}
	w := tsv.NewWriter(out)
	for _, row := range rows {
		w.WriteString(row.Name)
		w.WriteInt64(row.Length)
		w.WriteInt64(row.Offset)
		w.WriteInt64(row.LineBases)
		w.WriteInt64(row.LineWidth)
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	return w.Flush()
}

// SizesFromFASTA returns the sequence lengths of the FASTA read from in.
func SizesFromFASTA(in io.Reader) (ChromSizes, error) {
	rows, err := scanFASTA(in)
	if err != nil {
		return nil, err
	}
	sizes := make(ChromSizes, len(rows))
	for i, row := range rows {
		sizes[i] = ChromSize{row.Name, row.Length}
	}
	return sizes, validate(sizes)
}
