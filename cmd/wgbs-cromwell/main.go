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
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/wgbs/cromwell"
	"github.com/grailbio/wgbs/internal/fileutil"
	"v.io/x/lib/cmdline"
)

func newCmdGlob() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "glob",
		Short: "Find files of sibling tasks",
	}
	opts := cromwell.DefaultSearchOpts
	var matchedFilesName string
	cmd.Flags.StringVar(&opts.Pattern, "pattern", "", "Pattern to search for, e.g. '*.bed.gz' (required)")
	cmd.Flags.IntVar(&opts.Nearness, "nearness", opts.Nearness, "Number of directories to climb before searching")
	cmd.Flags.StringVar(&opts.NearestNeighbour, "nearest-neighbour", "", "Search from the directory of this file instead")
	cmd.Flags.StringVar(&matchedFilesName, "matched-files-name", "", "Append matches to <name>.txt instead of printing them")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("glob takes no arguments, but found %v", argv)
		}
		matches, err := cromwell.Search(opts)
		if err != nil {
			return err
		}
		log.Debug.Printf("glob: %d files match %s", len(matches), opts.Pattern)
		if matchedFilesName != "" {
			return cromwell.AppendMatches(matchedFilesName, matches)
		}
		return cromwell.WriteMatches(env.Stdout, matches)
	})
	return cmd
}

func newCmdFlatten() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "flatten",
		Short: "Print every file of an Array[Array[File]] TSV on its own line",
	}
	tsvPath := cmd.Flags.String("tsv", "", "Output of write_tsv in Cromwell (required)")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 || *tsvPath == "" {
			return fmt.Errorf("flatten takes -tsv path and no arguments, but found %v", argv)
		}
		return cromwell.FlattenFile(vcontext.Background(), *tsvPath, env.Stdout)
	})
	return cmd
}

func main() {
	fileutil.RegisterSchemes()
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "wgbs-cromwell",
			Short:    "Helpers for tasks running in a Cromwell execution directory",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdGlob(),
				newCmdFlatten(),
			},
		})
}
