package coverage

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/wgbs/qc"
)

// ParseSamtoolsStats parses the summary numbers of "samtools stats" text
// output, the lines of form "SN\t<key>:\t<value>[\t# comment]". Integer
// values are kept as int64, other values as float64.
func ParseSamtoolsStats(r io.Reader) (*qc.Values, error) {
	v := &qc.Values{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64<<10), 16<<20)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := scanner.Text()
		if !strings.HasPrefix(line, "SN\t") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("samtools stats line %d: expected at least 3 fields, found %d", lineno, len(fields))
		}
		key := strings.TrimSuffix(strings.TrimSpace(fields[1]), ":")
		raw := strings.TrimSpace(fields[2])
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			v.Set(key, n)
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("samtools stats line %d: value %q of %q is not a number", lineno, raw, key)
		}
		v.Set(key, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return v, nil
}
