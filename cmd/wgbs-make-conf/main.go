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
	"github.com/grailbio/wgbs/gembs"
	"github.com/grailbio/wgbs/internal/fileutil"
)

func main() {
	opts := gembs.DefaultOpts
	outfile := "gembs.conf"
	for _, name := range []string{"r", "reference"} {
		flag.StringVar(&opts.Reference, name, "", "Reference FASTA (required)")
	}
	for _, name := range []string{"e", "extra-reference"} {
		flag.StringVar(&opts.ExtraReference, name, "", "FASTA of control sequences such as lambda (required)")
	}
	for _, name := range []string{"u", "underconversion-sequence"} {
		flag.StringVar(&opts.UnderconversionSequence, name, "", "Contig of the extra reference used as underconversion control")
	}
	for _, name := range []string{"i", "include-file"} {
		flag.StringVar(&opts.IncludeFile, name, "", "Additional gemBS conf file to include")
	}
	for _, name := range []string{"t", "num-threads"} {
		flag.IntVar(&opts.NumThreads, name, gembs.DefaultOpts.NumThreads, "Threads per gemBS job")
	}
	for _, name := range []string{"j", "num-jobs"} {
		flag.IntVar(&opts.NumJobs, name, gembs.DefaultOpts.NumJobs, "Number of concurrent gemBS jobs")
	}
	for _, name := range []string{"o", "outfile"} {
		flag.StringVar(&outfile, name, outfile, "Output conf path")
	}
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -r reference.fa -e extra.fa [OPTIONS]\n", os.Args[0])
		flag.PrintDefaults()
	}
	shutdown := grail.Init()
	defer shutdown()
	fileutil.RegisterSchemes()

	if flag.NArg() != 0 {
		log.Fatalf("unexpected arguments: %v", flag.Args())
	}
	conf, err := gembs.MakeConf(opts)
	if err != nil {
		log.Fatalf("%v", err)
	}
	ctx := vcontext.Background()
	if err := gembs.WriteConf(ctx, outfile, conf); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("wrote %s", outfile)
}
