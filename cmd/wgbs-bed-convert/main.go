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
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/wgbs/bedconv"
	"github.com/grailbio/wgbs/internal/fileutil"
	"v.io/x/lib/cmdline"
)

func newCmdGemBSToBismark() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "gembs-to-bismark",
		Short:    "Convert a gemBS CpG bed to a Bismark-style bed",
		ArgsName: "gembs-bed bismark-bed",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("gembs-to-bismark takes gembs-bed bismark-bed, but found %v", argv)
		}
		return bedconv.ConvertGemBSFile(vcontext.Background(), argv[0], argv[1])
	})
	return cmd
}

func newCmdBismarkToEncode() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "bismark-to-encode",
		Short:    "Combine a Bismark-style bed and BSmooth output into an ENCODE bedMethyl",
		ArgsName: "bismark-bed smoothed-tsv encode-bed",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return fmt.Errorf("bismark-to-encode takes bismark-bed smoothed-tsv encode-bed, but found %v", argv)
		}
		return bedconv.ConvertBismarkFile(vcontext.Background(), argv[0], argv[1], argv[2])
	})
	return cmd
}

func main() {
	fileutil.RegisterSchemes()
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "wgbs-bed-convert",
			Short:    "Convert methylation call beds",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdGemBSToBismark(),
				newCmdBismarkToEncode(),
			},
		})
}
