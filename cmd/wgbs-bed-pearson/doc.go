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
wgbs-bed-pearson computes the Pearson correlation of CpG methylation
between two replicates, given their ENCODE bedMethyl files, and writes it
as a QC JSON.

Sample usage:

  wgbs-bed-pearson -o pearson_qc.json rep1.bed.gz rep2.bed.gz

Only CpGs present in both files with coverage of at least -min-coverage
in each are used.
*/
package main
