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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidLink indicates a Link failed validation.
	ErrInvalidLink = errors.New("invalid link")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyName indicates the document Name field is empty.
	ErrEmptyName = errors.New("document name cannot be empty")

	// ErrEmptyPath indicates the document Path field is empty.
	ErrEmptyPath = errors.New("document path cannot be empty")

	// ErrInvalidDocType indicates an unsupported document type tag.
	ErrInvalidDocType = errors.New("invalid document type")

	// ErrEmptyURL indicates the link URL field is empty.
	ErrEmptyURL = errors.New("link url cannot be empty")

	// ErrEmptyContent indicates the chunk PageContent field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")
)

// Pipeline failure taxonomy. Each sentinel marks a containment boundary:
// a load failure skips one document, a scrape failure skips one entity,
// a generation failure degrades to a fallback answer.
var (
	// ErrLoadFailed indicates a document could not be read or parsed.
	ErrLoadFailed = errors.New("document load failed")

	// ErrEmbeddingFailed indicates the embedding service call failed.
	// Fatal during index build, retryable at query time.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrGenerationFailed indicates the generation model call failed.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrParseFailed indicates the model output did not decode into the
	// structured answer schema.
	ErrParseFailed = errors.New("structured answer parse failed")

	// ErrScrapeFailed indicates a gallery page could not be fetched or parsed.
	ErrScrapeFailed = errors.New("gallery scrape failed")
)
