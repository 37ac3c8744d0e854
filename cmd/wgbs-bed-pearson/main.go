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
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/wgbs/correlation"
	"github.com/grailbio/wgbs/internal/fileutil"
)

func main() {
	var outfile string
	for _, name := range []string{"o", "outfile"} {
		flag.StringVar(&outfile, name, "", "Output QC JSON path (required)")
	}
	minCoverage := flag.Int64("min-coverage", correlation.DefaultMinCoverage, "Minimum coverage of a CpG in each file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] bedmethyl1 bedmethyl2\n", os.Args[0])
		flag.PrintDefaults()
	}
	shutdown := grail.Init()
	defer shutdown()
	fileutil.RegisterSchemes()

	if flag.NArg() != 2 {
		log.Fatalf("expected two bedMethyl files, got %v", flag.Args())
	}
	if outfile == "" {
		log.Fatalf("-outfile is required")
	}
	ctx := vcontext.Background()
	record, err := correlation.Run(ctx, flag.Arg(0), flag.Arg(1), *minCoverage)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := record.Save(ctx, outfile); err != nil {
		log.Fatalf("%v", err)
	}
}
