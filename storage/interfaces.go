package storage

import (
	"context"

	"github.com/costiera/concierge/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository provides operations for managing corpus documents.
type DocumentRepository interface {
	Repository
	// AddDocuments adds one or more documents to storage.
	// For documents with ID=0, generates new IDs from sequence.
	// Sets InsertedAt timestamp if not already set.
	// Returns the documents with generated IDs and timestamps populated.
	AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// UpdateDocuments updates existing documents.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any document doesn't exist.
	UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// DeleteDocuments removes documents by their IDs.
	// The document's links are owned by it and must be deleted by the caller
	// (see LinkRepository.DeleteLinksByDocument) before the document row goes.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...core.ID) error

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocuments retrieves all documents in the corpus, ordered by ID.
	GetDocuments(ctx context.Context) ([]*core.Document, error)
}

// LinkRepository provides operations for managing extracted links.
type LinkRepository interface {
	Repository
	// AddLinks adds one or more links to storage.
	// Always generates new sequence IDs; placeholder tokens embed these ids,
	// so a link id is never reused within a database.
	// Returns the links with generated IDs and timestamps populated.
	AddLinks(ctx context.Context, links ...*core.Link) ([]*core.Link, error)

	// UpdateLinks updates existing links (notably the image cache field).
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any link doesn't exist.
	UpdateLinks(ctx context.Context, links ...*core.Link) ([]*core.Link, error)

	// DeleteLinksByDocument removes every link owned by a document.
	// Used on re-ingestion; previously issued placeholder tokens become
	// permanently unresolvable.
	DeleteLinksByDocument(ctx context.Context, docID core.ID) error

	// GetLink retrieves a single link by ID.
	// Returns ErrNotFound if the link doesn't exist.
	GetLink(ctx context.Context, id core.ID) (*core.Link, error)

	// GetLinksByDocument retrieves all links owned by a document, ordered by ID.
	GetLinksByDocument(ctx context.Context, docID core.ID) ([]*core.Link, error)
}

// ChunkSnapshot is the persisted artifact of one corpus ingestion run:
// the pre-split chunks (whole logical blocks, used for placeholder-to-link
// lookups) and the split chunks with their embedding vectors (used to rebuild
// the vector index without re-embedding).
type ChunkSnapshot struct {
	// Version identifies the corpus state the snapshot was built from.
	Version string

	// PreSplit holds the whole logical text blocks, in ingestion order.
	PreSplit []*core.Chunk

	// Split holds the bounded overlapping segments with embedding vectors,
	// in ingestion order.
	Split []*core.Chunk
}

// ChunkRepository persists chunk snapshots keyed by corpus version.
type ChunkRepository interface {
	Repository
	// SaveSnapshot atomically replaces the stored snapshot with the given one.
	SaveSnapshot(ctx context.Context, snapshot *ChunkSnapshot) error

	// LoadSnapshot returns the stored snapshot.
	// Returns ErrNotFound if no snapshot has been saved yet.
	LoadSnapshot(ctx context.Context) (*ChunkSnapshot, error)

	// Version returns the corpus version of the stored snapshot, or an empty
	// string when none exists.
	Version(ctx context.Context) (string, error)
}
