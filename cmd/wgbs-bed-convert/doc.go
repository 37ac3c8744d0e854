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
wgbs-bed-convert converts methylation call beds along the WGBS pipeline.

  wgbs-bed-convert gembs-to-bismark sample_cpg.bed sample.bismark.bed

turns a gemBS CpG bed into a Bismark-style bed (contig, start, stop,
methylation, non-converted count, converted count).

  wgbs-bed-convert bismark-to-encode sample.bismark.bed smoothed.tsv sample.bed

combines a Bismark-style bed with the BSmooth methylation vector computed
from it into an ENCODE bedMethyl file. Positions BSmooth reports as NA are
dropped.
*/
package main
