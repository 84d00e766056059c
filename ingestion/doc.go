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


// Package ingestion orchestrates corpus ingestion.
//
// Documents are loaded concurrently through a worker pool, their URLs
// rewritten into placeholder tokens, the resulting blocks chunked, embedded
// and persisted as a snapshot keyed by the corpus version. Ingestion is
// idempotent: when the raw corpus content hashes to the version already
// stored, the snapshot is loaded as-is and no links are touched, so
// previously issued placeholder tokens stay valid. A document that fails to
// load is logged and skipped; the rest of the corpus still ingests.
package ingestion
