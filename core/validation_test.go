package core

import (
	"errors"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid document",
			doc: &Document{
				Id:   1,
				Name: "brochure",
				Path: "/data/documents/brochure.pdf",
				Type: DocTypePDF,
			},
			wantErr: nil,
		},
		{
			name: "valid document with ID 0",
			doc: &Document{
				Id:   0,
				Name: "prices",
				Path: "/data/documents/prices.csv",
				Type: DocTypeCSV,
			},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name: "empty name",
			doc: &Document{
				Name: "",
				Path: "/data/documents/brochure.pdf",
				Type: DocTypePDF,
			},
			wantErr: ErrEmptyName,
		},
		{
			name: "empty path",
			doc: &Document{
				Name: "brochure",
				Path: "",
				Type: DocTypePDF,
			},
			wantErr: ErrEmptyPath,
		},
		{
			name: "unsupported type",
			doc: &Document{
				Name: "brochure",
				Path: "/data/documents/brochure.md",
				Type: DocType("md"),
			},
			wantErr: ErrInvalidDocType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDocType(t *testing.T) {
	for _, dt := range DocTypes {
		if err := ValidateDocType(dt); err != nil {
			t.Errorf("ValidateDocType(%q) error = %v, want nil", dt, err)
		}
	}

	if err := ValidateDocType(DocType("odt")); !errors.Is(err, ErrInvalidDocType) {
		t.Errorf("ValidateDocType(odt) error = %v, want ErrInvalidDocType", err)
	}
}

func TestValidateLink(t *testing.T) {
	tests := []struct {
		name    string
		link    *Link
		wantErr error
	}{
		{
			name: "valid link",
			link: &Link{
				Id:         1,
				DocumentId: 1,
				URL:        "https://example.com/villa",
			},
			wantErr: nil,
		},
		{
			name: "valid link with empty image cache",
			link: &Link{
				Id:       2,
				URL:      "https://example.com/apartments",
				ImgLinks: nil,
			},
			wantErr: nil,
		},
		{
			name:    "nil link",
			link:    nil,
			wantErr: ErrInvalidLink,
		},
		{
			name:    "empty url",
			link:    &Link{Id: 3},
			wantErr: ErrEmptyURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLink(tt.link)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateLink() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateLink() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name: "valid chunk",
			chunk: &Chunk{
				Id:          1,
				DocumentId:  1,
				PageContent: "Visit link://1 for info",
			},
			wantErr: nil,
		},
		{
			name: "valid chunk without vector",
			chunk: &Chunk{
				Id:          2,
				PageContent: "Seafront residencies",
				Vector:      nil,
			},
			wantErr: nil,
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "empty content",
			chunk:   &Chunk{Id: 3},
			wantErr: ErrEmptyContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
