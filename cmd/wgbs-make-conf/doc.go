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
wgbs-make-conf writes the gemBS configuration file used by the WGBS
pipeline mapping and calling steps.

Sample usage:

  wgbs-make-conf \
      -r GRCh38_no_alt_analysis_set_GCA_000001405.15.fasta.gz \
      -e lambda.fa.fasta.gz \
      -u NC_001416.1 \
      -o gembs.conf

Reference paths are written relative to the reference/ directory the
workflow stages them in. With -u or -i, a [mapping] section is added.
*/
package main
