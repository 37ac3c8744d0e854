// Package mapqc extracts mapping QC values from the per-sample HTML
// mapping report written by gemBS.
package mapqc

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/wgbs/internal/fileutil"
	"github.com/grailbio/wgbs/qc"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Section titles of the gemBS mapping report.
const (
	MappingStatsTable       = "Mapping Stats (Reads)"
	UniquenessTable         = "Uniqueness (Fragments)"
	BisulfiteConversionRate = "Bisulfite Conversion Rate"
	CorrectPairsTable       = "Correct Pairs"
)

// Row is a data row of a report table: the text of each of its cells.
type Row []string

// text returns the concatenated text below n.
func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// findAll returns the elements below n, in document order, for which match
// returns true.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

func isElement(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.DataAtom == a }
}

// nextElement returns the first element sibling after n.
func nextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// FindTable returns the data rows of the table that directly follows the
// <h1> titled name. Header rows (those with <th> cells) are skipped. It
// returns false if the report has no such table.
func FindTable(doc *html.Node, name string) ([]Row, bool) {
	for _, h1 := range findAll(doc, isElement(atom.H1)) {
		if strings.TrimSpace(text(h1)) != name {
			continue
		}
		table := nextElement(h1)
		if table == nil || table.DataAtom != atom.Table {
			return nil, false
		}
		var rows []Row
		for _, tr := range findAll(table, isElement(atom.Tr)) {
			if len(findAll(tr, isElement(atom.Th))) > 0 {
				continue
			}
			var row Row
			for _, td := range findAll(tr, isElement(atom.Td)) {
				row = append(row, strings.TrimSpace(text(td)))
			}
			rows = append(rows, row)
		}
		return rows, true
	}
	return nil, false
}

// Key converts a report row name to a portal-style property name, e.g.
// "Unmapped reads" to "unmapped_reads".
func Key(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimSpace(s)), " ", "_", -1)
}

// Percent parses a string like " 99.0 % " into a fraction in [0, 1].
func Percent(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), "%")), 64)
	if err != nil {
		return 0, fmt.Errorf("parse percentage %q: %v", s, err)
	}
	return v / 100, nil
}

// Int parses an integer cell.
func Int(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse integer %q: %v", s, err)
	}
	return v, nil
}

func cell(table string, row Row, i int) (string, error) {
	if i >= len(row) {
		return "", fmt.Errorf("%s: row %v has no column %d", table, row, i)
	}
	return row[i], nil
}

func parseMappingStats(rows []Row, v *qc.Values) error {
	for _, row := range rows {
		name, err := cell(MappingStatsTable, row, 0)
		if err != nil {
			return err
		}
		key := Key(name)
		countCell, err := cell(MappingStatsTable, row, 1)
		if err != nil {
			return err
		}
		pctCell, err := cell(MappingStatsTable, row, 2)
		if err != nil {
			return err
		}
		count, err := Int(countCell)
		if err != nil {
			return errors.E(err, MappingStatsTable, key)
		}
		pct, err := Percent(pctCell)
		if err != nil {
			return errors.E(err, MappingStatsTable, key)
		}
		v.Set(key, count)
		v.Set("pct_"+key, pct)
	}
	return nil
}

func parseUniqueness(rows []Row, v *qc.Values) error {
	for _, row := range rows {
		name, err := cell(UniquenessTable, row, 0)
		if err != nil {
			return err
		}
		value, err := cell(UniquenessTable, row, 1)
		if err != nil {
			return err
		}
		key := Key(name)
		if key == "average_unique" {
			pct, err := Percent(value)
			if err != nil {
				return errors.E(err, UniquenessTable, key)
			}
			v.Set("pct_unique_fragments", pct)
			continue
		}
		n, err := Int(value)
		if err != nil {
			return errors.E(err, UniquenessTable, key)
		}
		v.Set(key, n)
	}
	return nil
}

func parseConversionRate(rows []Row, v *qc.Values) error {
	for _, row := range rows {
		name, err := cell(BisulfiteConversionRate, row, 0)
		if err != nil {
			return err
		}
		value, err := cell(BisulfiteConversionRate, row, 1)
		if err != nil {
			return err
		}
		key := Key(name)
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			// gemBS reports NA when a rate cannot be estimated.
			log.Printf("mapqc: could not parse %s value %q as a float, skipping", key, value)
			continue
		}
		v.Set(key, rate)
	}
	return nil
}

func parseCorrectPairs(rows []Row, v *qc.Values) error {
	for _, row := range rows {
		name, err := cell(CorrectPairsTable, row, 0)
		if err != nil {
			return err
		}
		value, err := cell(CorrectPairsTable, row, 1)
		if err != nil {
			return err
		}
		n, err := Int(value)
		if err != nil {
			return errors.E(err, CorrectPairsTable, Key(name))
		}
		v.Set(Key(name), n)
	}
	return nil
}

// Parse extracts the QC values of a gemBS mapping report. Tables missing
// from the report, such as Correct Pairs for single-ended data, are
// skipped.
func Parse(r io.Reader) (*qc.Values, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.E(err, "parse mapping report")
	}
	sections := []struct {
		name  string
		parse func([]Row, *qc.Values) error
	}{
		{MappingStatsTable, parseMappingStats},
		{UniquenessTable, parseUniqueness},
		{BisulfiteConversionRate, parseConversionRate},
		{CorrectPairsTable, parseCorrectPairs},
	}
	v := &qc.Values{}
	for _, s := range sections {
		rows, ok := FindTable(doc, s.name)
		if !ok {
			log.Debug.Printf("mapqc: report has no %q table", s.name)
			continue
		}
		if err := s.parse(rows, v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// ParseFile parses the mapping report at path.
func ParseFile(ctx context.Context, path string) (v *qc.Values, err error) {
	in, err := fileutil.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	if v, err = Parse(in); err != nil {
		return nil, errors.E(err, path)
	}
	return v, nil
}
