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

import (
	"fmt"
	"slices"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Path must not be empty
//   - Type must be one of the supported document types
//
// NOT validated:
//   - ID (0 is valid from database sequences)
//   - Existence of the file at Path (checked by the loader)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyName)
	}

	if doc.Path == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyPath)
	}

	if err := ValidateDocType(doc.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

// ValidateDocType validates that a DocType is one of the supported type tags.
func ValidateDocType(t DocType) error {
	if !slices.Contains(DocTypes, t) {
		return fmt.Errorf("%w: %q", ErrInvalidDocType, t)
	}
	return nil
}

// ValidateLink validates a Link according to domain rules.
//
// Validation rules:
//   - URL must not be empty
//
// NOT validated (populated later):
//   - ImgLinks (empty until the first gallery scrape)
//   - ID (0 is valid from database sequences)
func ValidateLink(link *Link) error {
	if link == nil {
		return fmt.Errorf("%w: link is nil", ErrInvalidLink)
	}

	if link.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidLink, ErrEmptyURL)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - PageContent must not be empty
//
// NOT validated:
//   - Vector (empty until the chunk is embedded)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.PageContent == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	return nil
}
