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
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/wgbs/internal/fileutil"
	"github.com/grailbio/wgbs/metadata"
)

func main() {
	var names, files string
	outfile := "metadata.csv"
	opts := metadata.DefaultOpts
	for _, name := range []string{"n", "sample-names"} {
		flag.StringVar(&names, name, "", "Comma-separated sample names, one per sample in -files (required)")
	}
	flag.StringVar(&files, "files", "", "JSON file listing the FASTQ groups of each sample (required)")
	flag.StringVar(&opts.BarcodePrefix, "barcode-prefix", opts.BarcodePrefix, "Prefix of the gemBS barcode of each sample")
	for _, name := range []string{"o", "outfile"} {
		flag.StringVar(&outfile, name, outfile, "Output CSV path")
	}
	shutdown := grail.Init()
	defer shutdown()
	fileutil.RegisterSchemes()

	if names == "" || files == "" {
		log.Fatalf("-sample-names and -files are required")
	}
	opts.SampleNames = strings.Split(names, ",")
	ctx := vcontext.Background()
	groups, err := metadata.ReadFileGroups(ctx, files)
	if err != nil {
		log.Fatalf("%v", err)
	}
	rows, err := metadata.Process(opts, groups)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := metadata.WriteFile(ctx, outfile, rows); err != nil {
		log.Fatalf("%v", err)
	}
}
