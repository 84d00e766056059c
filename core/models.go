package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocType identifies the format of a source document and selects its parser.
type DocType string

const (
	DocTypeCSV  DocType = "csv"
	DocTypePDF  DocType = "pdf"
	DocTypeXLSX DocType = "xlsx"
	DocTypeHTML DocType = "html"
	DocTypeTXT  DocType = "txt"
	DocTypeDOCX DocType = "docx"
)

// DocTypes lists every supported document type.
var DocTypes = []DocType{
	DocTypeCSV,
	DocTypePDF,
	DocTypeXLSX,
	DocTypeHTML,
	DocTypeTXT,
	DocTypeDOCX,
}

// Document is a named, typed source file in the corpus.
// A document owns the Links created while preprocessing its text; re-ingesting
// a document deletes those links and issues fresh ids.
type Document struct {
	Id         ID
	Name       string
	Path       string // Filesystem path of the uploaded file
	Type       DocType
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Link is a URL extracted from a document's text during preprocessing.
// The literal URL occurrence in the text is replaced with a placeholder token
// carrying the link id, so the generator can reference external resources by
// a short stable token.
type Link struct {
	Id         ID
	DocumentId ID
	URL        string
	ImgLinks   []string // Cached gallery image URLs, empty until first scrape
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Chunk is a bounded unit of document text plus metadata.
// Chunks are stored twice: pre-split (one whole logical block, used for
// placeholder-to-link lookups) and split (bounded overlapping segments used
// for embedding and retrieval). Only split chunks carry an embedding vector.
type Chunk struct {
	Id          ID
	DocumentId  ID
	Position    int // Ordinal within the ingestion run that produced it
	PageContent string
	Metadata    map[string]string // Source location, tabular column, page
	Vector      []float32         // Embedding vector (populated for split chunks)
}

// ScoredChunk is a chunk match from vector similarity search.
type ScoredChunk struct {
	Chunk *Chunk
	Score float32
}
