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


// Package genie answers visitor questions with retrieval-augmented
// generation.
//
// A question is embedded and the most similar chunks are retrieved from the
// vector index; the sales persona template is formatted with the chunk
// contents and the question and handed to the generator. Generation and
// parse failures never reach the visitor: the genie answers with a fixed
// localized apology instead and the conversation continues.
package genie
