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


// Package ratelimit gates generation calls behind two Redis-backed quotas.
//
// The per-visitor gate counts messages in a rolling window per visitor
// identity; the global gate keeps a sliding 60-second ledger of token
// deposits shared by every conversation. Each gate runs as a single Lua
// script so the purge, sum, compare and conditional write happen atomically
// across concurrent turns. A rejection is control flow, not an error: it
// carries the reason and a retry hint for the visitor.
package ratelimit
