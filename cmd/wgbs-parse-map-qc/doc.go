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
wgbs-parse-map-qc extracts the mapping QC of a sample from the HTML
mapping report written by gemBS, and writes it as a flat JSON object.

Sample usage:

  wgbs-parse-map-qc -i report/mapping/sample_1.html -o map_qc.json
*/
package main
