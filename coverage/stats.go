// Package coverage computes the average sequencing coverage of a BAM file:
//
//   coverage = aligned reads * read length / genome size
//
// The aligned read count and read length come from a samtools-stats style
// summary of the BAM, which is either computed here or parsed from the text
// output of "samtools stats".
package coverage

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/wgbs/qc"
)

// Stats holds the summary numbers ("SN" section) of samtools stats.
// Secondary and supplementary alignments are only counted in NonPrimary.
type Stats struct {
	RawTotal         int64
	Filtered         int64
	Sequences        int64
	Sorted           bool
	FirstFragments   int64
	LastFragments    int64
	Mapped           int64
	MappedAndPaired  int64
	Unmapped         int64
	ProperlyPaired   int64
	Paired           int64
	Duplicated       int64
	MQ0              int64
	QCFailed         int64
	NonPrimary       int64
	TotalLength      int64
	BasesMapped      int64
	BasesMappedCigar int64
	MaxLength        int64

	qualSum   int64
	qualBases int64
	lastRef   int
	lastPos   int
}

func newStats() *Stats {
	return &Stats{Sorted: true, lastRef: -1, lastPos: -1}
}

// record adds r to the stats.
func (s *Stats) record(r *sam.Record) {
	f := r.Flags
	if f&(sam.Secondary|sam.Supplementary) != 0 {
		s.NonPrimary++
		return
	}
	s.RawTotal++
	s.Sequences++
	if f&sam.QCFail != 0 {
		s.QCFailed++
	}
	if f&sam.Paired != 0 {
		s.Paired++
		if f&sam.Read2 != 0 {
			s.LastFragments++
		} else {
			s.FirstFragments++
		}
	} else {
		s.FirstFragments++
	}
	if f&sam.Duplicate != 0 {
		s.Duplicated++
	}

	length := int64(r.Seq.Length)
	s.TotalLength += length
	if length > s.MaxLength {
		s.MaxLength = length
	}
	for _, q := range r.Qual {
		if q == 0xff {
			// Missing qualities.
			break
		}
		s.qualSum += int64(q)
		s.qualBases++
	}

	if f&sam.Unmapped != 0 {
		s.Unmapped++
		return
	}
	s.Mapped++
	if f&sam.Paired != 0 && f&sam.MateUnmapped == 0 {
		s.MappedAndPaired++
	}
	if f&sam.ProperPair != 0 {
		s.ProperlyPaired++
	}
	if r.MapQ == 0 {
		s.MQ0++
	}
	s.BasesMapped += length
	for _, co := range r.Cigar {
		switch co.Type() {
		case sam.CigarMatch, sam.CigarInsertion, sam.CigarEqual, sam.CigarMismatch:
			s.BasesMappedCigar += int64(co.Len())
		}
	}
	refID := r.Ref.ID()
	if refID < s.lastRef || (refID == s.lastRef && r.Pos < s.lastPos) {
		s.Sorted = false
	}
	s.lastRef, s.lastPos = refID, r.Pos
}

// AverageLength returns the mean read length, truncated like samtools.
func (s *Stats) AverageLength() int64 {
	if s.Sequences == 0 {
		return 0
	}
	return s.TotalLength / s.Sequences
}

// AverageQuality returns the mean base quality.
func (s *Stats) AverageQuality() float64 {
	if s.qualBases == 0 {
		return 0
	}
	return float64(s.qualSum) / float64(s.qualBases)
}

// Values returns the stats keyed by their samtools stats names.
func (s *Stats) Values() *qc.Values {
	sorted := 0
	if s.Sorted {
		sorted = 1
	}
	v := &qc.Values{}
	v.Set("raw total sequences", s.RawTotal)
	v.Set("filtered sequences", s.Filtered)
	v.Set("sequences", s.Sequences)
	v.Set("is sorted", sorted)
	v.Set("1st fragments", s.FirstFragments)
	v.Set("last fragments", s.LastFragments)
	v.Set("reads mapped", s.Mapped)
	v.Set("reads mapped and paired", s.MappedAndPaired)
	v.Set("reads unmapped", s.Unmapped)
	v.Set("reads properly paired", s.ProperlyPaired)
	v.Set("reads paired", s.Paired)
	v.Set("reads duplicated", s.Duplicated)
	v.Set("reads MQ0", s.MQ0)
	v.Set("reads QC failed", s.QCFailed)
	v.Set("non-primary alignments", s.NonPrimary)
	v.Set("total length", s.TotalLength)
	v.Set("bases mapped", s.BasesMapped)
	v.Set("bases mapped (cigar)", s.BasesMappedCigar)
	v.Set("average length", s.AverageLength())
	v.Set("maximum length", s.MaxLength)
	v.Set("average quality", s.AverageQuality())
	return v
}

// ComputeStats reads a BAM stream and returns its summary stats. threads
// sets the number of goroutines used for BGZF decompression; values < 1
// mean one.
func ComputeStats(ctx context.Context, in io.Reader, threads int) (*Stats, error) {
	if threads < 1 {
		threads = 1
	}
	r, err := bam.NewReader(in, threads)
	if err != nil {
		return nil, errors.E(err, "open BAM")
	}
	defer r.Close()
	stats := newStats()
	for n := 0; ; n++ {
		if n%(1<<20) == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if n > 0 {
				log.Debug.Printf("coverage: read %d records", n)
			}
		}
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.E(err, "read BAM record")
		}
		stats.record(rec)
		sam.PutInFreePool(rec)
	}
	return stats, nil
}
