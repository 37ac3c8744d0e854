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
	"github.com/grailbio/wgbs/internal/fileutil"
	"github.com/grailbio/wgbs/portal"
)

func main() {
	opts := portal.DefaultOpts
	for _, name := range []string{"o", "outfile"} {
		flag.StringVar(&opts.Outfile, name, "", "Output JSON path, defaults to <accession>.json")
	}
	flag.StringVar(&opts.KeypairFile, "keypair-file", opts.KeypairFile, "Path to keypairs.json")
	flag.StringVar(&opts.URL, "portal-url", opts.URL, "ENCODE portal URL")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] accession\n", os.Args[0])
		flag.PrintDefaults()
	}
	shutdown := grail.Init()
	defer shutdown()
	fileutil.RegisterSchemes()

	if flag.NArg() != 1 {
		log.Fatalf("expected one experiment accession, got %v", flag.Args())
	}
	ctx := vcontext.Background()
	out, err := portal.Run(ctx, flag.Arg(0), opts)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("wrote %s", out)
}
