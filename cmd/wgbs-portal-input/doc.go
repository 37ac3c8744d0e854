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
wgbs-portal-input writes the Cromwell input JSON of the WGBS pipeline for
an experiment on the ENCODE portal.

Sample usage:

  wgbs-portal-input -o ENCSR890UQO.json ENCSR890UQO

The FASTQs of the experiment are grouped by biological replicate, and the
reference files are chosen from the organism of the first replicate.
Credentials are read from the "submit" key pair of -keypair-file if it
exists; otherwise the portal is accessed anonymously.
*/
package main
