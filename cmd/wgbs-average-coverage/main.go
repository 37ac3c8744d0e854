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

package main

import (
	"flag"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/wgbs/coverage"
	"github.com/grailbio/wgbs/internal/fileutil"
)

var (
	bamPath    = flag.String("bam", coverage.DefaultOpts.BamPath, "Input BAM path; this xor -samtools-stats required")
	statsPath  = flag.String("samtools-stats", coverage.DefaultOpts.SamtoolsStatsPath, "Output of samtools stats for the BAM")
	chromSizes = flag.String("chrom-sizes", coverage.DefaultOpts.ChromSizesPath, "Chromosome sizes, .fai index or FASTA of the reference (required)")
	threads    = flag.Int("threads", coverage.DefaultOpts.Threads, "BAM decompression parallelism")
	outfile    = flag.String("outfile", "", "Output QC JSON path (required)")
)

func main() {
	shutdown := grail.Init()
	defer shutdown()
	fileutil.RegisterSchemes()

	if (*bamPath == "") == (*statsPath == "") {
		log.Fatalf("exactly one of -bam and -samtools-stats is required")
	}
	if *chromSizes == "" || *outfile == "" {
		log.Fatalf("-chrom-sizes and -outfile are required")
	}
	ctx := vcontext.Background()
	opts := coverage.Opts{
		BamPath:           *bamPath,
		SamtoolsStatsPath: *statsPath,
		ChromSizesPath:    *chromSizes,
		Threads:           *threads,
	}
	record, err := coverage.Run(ctx, opts)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := record.Save(ctx, *outfile); err != nil {
		log.Fatalf("%v", err)
	}
}
