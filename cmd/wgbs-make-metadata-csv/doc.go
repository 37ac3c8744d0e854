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
wgbs-make-metadata-csv writes the sample metadata CSV gemBS reads to find
the FASTQs of each sample.

Sample usage:

  wgbs-make-metadata-csv -n rep1,rep2 -files fastqs.json -o metadata.csv

fastqs.json holds, per sample, the list of FASTQ groups of each
sequencing run, e.g. [[["a_R1.fastq.gz", "a_R2.fastq.gz"]], [["b_R1.fastq.gz", "b_R2.fastq.gz"]]].
*/
package main
