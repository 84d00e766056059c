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


// Package loader turns corpus documents into pre-split text blocks.
//
// Each document type has a dedicated parser selected from a fixed dispatch
// table. Tabular types (csv, xlsx) pick the column with the greatest average
// text length as the primary text and serialize the remaining columns as
// `Column "<name>" is <value>` annotations so the generator keeps the
// tabular context. PDFs load page by page. A parse failure surfaces as
// core.ErrLoadFailed for that one document; corpus ingestion logs it and
// moves on.
package loader
