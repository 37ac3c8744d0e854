// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bedconv converts methylation calls between the bed layouts used
// along the WGBS pipeline: gemBS CpG beds, Bismark-style beds and ENCODE
// bedMethyl files.
package bedconv

import (
	"context"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/wgbs/internal/fileutil"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	// ScoreCap bounds the bedMethyl score column, see
	// https://www.encodeproject.org/data-standards/wgbs/.
	ScoreCap = 1000
	// MaxHue is the HSV hue of 0% methylation (green). 100% maps to hue 0
	// (red).
	MaxHue = 120.0

	noName     = "."
	noStrand   = "."
	invalidRow = "NA"

	gembsColumns   = 11
	bismarkColumns = 6
)

// gembsRow is a row of a gemBS CpG bed. Only the position and the two
// counts are used. Header names depend on the sample barcode, so columns
// are matched by position.
type gembsRow struct {
	Contig      string
	Start       int64
	Stop        int64
	Ref         string
	Call        string
	Flags       string
	Meth        string
	NonConv     int64
	Conv        int64
	SupportCall string
	Total       string
}

// BismarkRecord is a row of a Bismark-style bed: a position with its
// methylation fraction and the non-converted (methylated) and converted
// read counts.
type BismarkRecord struct {
	Contig       string
	Start        int64
	Stop         int64
	Methylation  float64
	NonConverted int64
	Converted    int64
}

// Coverage is the number of reads informative for the position.
func (r BismarkRecord) Coverage() int64 { return r.NonConverted + r.Converted }

// FormatFloat prints x in its shortest round-trip decimal form without an
// exponent, always keeping a fractional part: 1 is printed as "1.0" and
// 0.356 as "0.356".
func FormatFloat(x float64) string {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if math.IsNaN(x) || math.IsInf(x, 0) || strings.ContainsRune(s, '.') {
		return s
	}
	return s + ".0"
}

// Methylation returns nonConverted / (nonConverted + converted), or 0 if
// there are no reads.
func Methylation(nonConverted, converted int64) float64 {
	total := nonConverted + converted
	if total == 0 {
		return 0
	}
	return float64(nonConverted) / float64(total)
}

// GemBSToBismark reads a gemBS CpG bed (with its header row) from r and
// writes the corresponding Bismark-style bed, without header, to w.
func GemBSToBismark(r io.Reader, w io.Writer) error {
	tr := tsv.NewReader(r)
	tr.HasHeaderRow = true
	tr.FieldsPerRecord = gembsColumns
	tw := tsv.NewWriter(w)
	for line := 2; ; line++ {
		var row gembsRow
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return errors.E(err, "gemBS bed", "line", strconv.Itoa(line))
		}
		writeBismark(tw, BismarkRecord{
			Contig:       row.Contig,
			Start:        row.Start,
			Stop:         row.Stop,
			Methylation:  Methylation(row.NonConv, row.Conv),
			NonConverted: row.NonConv,
			Converted:    row.Conv,
		})
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writeBismark(tw *tsv.Writer, r BismarkRecord) {
	tw.WriteString(r.Contig)
	tw.WriteInt64(r.Start)
	tw.WriteInt64(r.Stop)
	tw.WriteString(FormatFloat(r.Methylation))
	tw.WriteInt64(r.NonConverted)
	tw.WriteInt64(r.Converted)
}

// ItemRGB returns the bedMethyl itemRgb color of a methylation percentage.
// Colors are interpolated in HSV space from green at 0% to red at 100%, so
// 50% is pure yellow, "255,255,0". Percentages outside [0, 100] are
// clamped.
func ItemRGB(pct float64) string {
	pct = math.Max(0, math.Min(100, pct))
	c := colorful.Hsv((1-pct/100)*MaxHue, 1, 1)
	r, g, b := colorful.LinearRgb(c.R, c.G, c.B).RGB255()
	return strconv.Itoa(int(r)) + "," + strconv.Itoa(int(g)) + "," + strconv.Itoa(int(b))
}

// smoothedReader yields the rows of a BSmooth methylation vector: one
// smoothed methylation fraction per line, "NA" where BSmooth could not
// estimate one. Blank lines are ignored.
type smoothedReader struct {
	tr   *tsv.Reader
	line int
}

func newSmoothedReader(r io.Reader) *smoothedReader {
	tr := tsv.NewReader(r)
	tr.TrimLeadingSpace = true
	return &smoothedReader{tr: tr}
}

// next returns the next smoothed fraction. ok is false for NA rows.
func (s *smoothedReader) next() (v float64, ok bool, err error) {
	for {
		var row struct{ Value string }
		s.line++
		if err = s.tr.Read(&row); err != nil {
			return 0, false, err
		}
		field := strings.TrimSpace(row.Value)
		if field == "" {
			continue
		}
		if field == invalidRow {
			return 0, false, nil
		}
		if v, err = strconv.ParseFloat(field, 64); err != nil {
			return 0, false, errors.E(err, "smoothed methylation", "line", strconv.Itoa(s.line))
		}
		if math.IsNaN(v) {
			return 0, false, nil
		}
		return v, true, nil
	}
}

// BismarkToEncode pairs the rows of a Bismark-style bed with the rows of the
// BSmooth methylation vector computed from it, and writes an ENCODE
// bedMethyl row for each position with a valid smoothed value. Conversion
// stops at the end of the shorter input.
func BismarkToEncode(bismark, smoothed io.Reader, w io.Writer) error {
	br := tsv.NewReader(bismark)
	br.FieldsPerRecord = bismarkColumns
	sr := newSmoothedReader(smoothed)
	tw := tsv.NewWriter(w)
	for line := 1; ; line++ {
		var rec BismarkRecord
		if err := br.Read(&rec); err != nil {
			if err == io.EOF {
				break
			}
			return errors.E(err, "bismark bed", "line", strconv.Itoa(line))
		}
		v, ok, err := sr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		writeEncode(tw, rec, v*100)
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writeEncode(tw *tsv.Writer, r BismarkRecord, pct float64) {
	cov := r.Coverage()
	score := cov
	if score > ScoreCap {
		score = ScoreCap
	}
	tw.WriteString(r.Contig)
	tw.WriteInt64(r.Start)
	tw.WriteInt64(r.Stop)
	tw.WriteString(noName)
	tw.WriteInt64(score)
	tw.WriteString(noStrand)
	tw.WriteInt64(r.Start)
	tw.WriteInt64(r.Stop)
	tw.WriteString(ItemRGB(pct))
	tw.WriteInt64(cov)
	tw.WriteString(FormatFloat(pct))
}

// ConvertGemBSFile runs GemBSToBismark on files.
func ConvertGemBSFile(ctx context.Context, inPath, outPath string) (err error) {
	in, err := fileutil.Open(ctx, inPath)
	if err != nil {
		return err
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	return fileutil.WriteWith(ctx, outPath, func(w io.Writer) error {
		if err := GemBSToBismark(in, w); err != nil {
			return errors.E(err, inPath)
		}
		return nil
	})
}

// ConvertBismarkFile runs BismarkToEncode on files.
func ConvertBismarkFile(ctx context.Context, bismarkPath, smoothedPath, outPath string) (err error) {
	bismark, err := fileutil.Open(ctx, bismarkPath)
	if err != nil {
		return err
	}
	defer func() {
		if e := bismark.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	smoothed, err := fileutil.Open(ctx, smoothedPath)
	if err != nil {
		return err
	}
	defer func() {
		if e := smoothed.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	return fileutil.WriteWith(ctx, outPath, func(w io.Writer) error {
		return BismarkToEncode(bismark, smoothed, w)
	})
}
