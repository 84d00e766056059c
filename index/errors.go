package index

import "errors"

var (
	// ErrEmbedderRequired is returned when a nil embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrChunkRepositoryRequired is returned when a nil chunk repository is provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository is required")

	// ErrNotBuilt is returned when the index is queried before a successful
	// build or load.
	ErrNotBuilt = errors.New("index has not been built")
)
