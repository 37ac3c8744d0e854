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

/*
wgbs-cromwell holds helpers for WDL tasks running in a Cromwell execution
directory.

  wgbs-cromwell glob -pattern '*.bed.gz'

prints the files matching the pattern anywhere below the directory
-nearness levels above the working directory (2 by default, the workflow
root in Cromwell's call-<task>/execution layout). With -nearest-neighbour
the search starts from the directory of the given file instead, and with
-matched-files-name the matches are appended to <name>.txt.

  wgbs-cromwell flatten -tsv files.tsv

prints every field of a write_tsv output on its own line.
*/
package main
