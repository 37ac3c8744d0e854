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
	"github.com/grailbio/wgbs/internal/fileutil"
	"github.com/grailbio/wgbs/mapqc"
	"github.com/grailbio/wgbs/qc"
)

func main() {
	var infile, outfile string
	for _, name := range []string{"i", "infile"} {
		flag.StringVar(&infile, name, "", "gemBS mapping report HTML (required)")
	}
	for _, name := range []string{"o", "outfile"} {
		flag.StringVar(&outfile, name, "", "Output JSON path (required)")
	}
	shutdown := grail.Init()
	defer shutdown()
	fileutil.RegisterSchemes()

	if infile == "" || outfile == "" {
		log.Fatalf("-infile and -outfile are required")
	}
	ctx := vcontext.Background()
	values, err := mapqc.ParseFile(ctx, infile)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := qc.Save(ctx, outfile, values); err != nil {
		log.Fatalf("%v", err)
	}
}
