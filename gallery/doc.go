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


// Package gallery enriches structured answers with property images.
//
// For each entity name in an answer, the enricher scans the pre-split corpus
// for a case-insensitive line match, looks for a link placeholder on that
// line or the one just above it, and resolves it to the property's page.
// On first use the page is fetched and its photo gallery scraped; the image
// URLs are cached on the Link row so later answers skip the fetch. The
// one-line lookback is a deliberate bounded heuristic: an entity the corpus
// never mentions next to a link simply gets no entry.
package gallery
