// Copyright 2025 Costiera Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package chunker splits loader output into bounded, optionally overlapping
// segments suitable for embedding.
//
// Split points are chosen from an ordered separator list: paragraph break
// first, then sentence break, then a hard character cutoff when neither fits
// inside the size budget. Link placeholder tokens are never divided across
// two chunks; a boundary that would fall inside one is pushed to the nearest
// token edge.
package chunker
