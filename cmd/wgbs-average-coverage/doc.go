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
wgbs-average-coverage computes the average genome coverage of a WGBS
alignment and writes it, with the samtools stats summary it is derived
from, as a QC JSON.

Sample usage:

  wgbs-average-coverage -bam sample.bam -chrom-sizes GRCh38.chrom.sizes -outfile coverage_qc.json

With -samtools-stats, the summary is read from the output of
"samtools stats" instead of being computed from the BAM. -chrom-sizes also
accepts a .fai index or a FASTA.
*/
package main
