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


// Package index holds the in-memory vector index over split chunks.
//
// Vectors are unit-normalized so cosine similarity reduces to a dot product;
// retrieval is a brute-force scan, which is plenty for a corpus of property
// documents. Build prefers loading a persisted snapshot whose corpus version
// matches over re-embedding; after build the index is read-only and shared by
// every concurrent conversation.
package index
