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


// Package links rewrites URLs found in corpus text into compact placeholder
// tokens and resolves those tokens back into URLs in generated answers.
//
// Each URL discovered during ingestion becomes a persisted Link row owned by
// its source document; the text occurrence is replaced with the token
// "link://<id>". The token is short enough for a generation model to carry
// through its output verbatim, and the Resolver substitutes the real URL
// before the answer reaches the visitor.
package links
