package ingestion

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrLinkRepositoryRequired is returned when a link repository is not provided.
	ErrLinkRepositoryRequired = errors.New("link repository required")

	// ErrLoaderRequired is returned when a loader is not provided.
	ErrLoaderRequired = errors.New("loader required")

	// ErrRewriterRequired is returned when a link rewriter is not provided.
	ErrRewriterRequired = errors.New("link rewriter required")

	// ErrChunkerRequired is returned when a chunker is not provided.
	ErrChunkerRequired = errors.New("chunker required")

	// ErrIndexRequired is returned when an index is not provided.
	ErrIndexRequired = errors.New("index required")

	// ErrEmptyCorpus is returned when ingestion runs with no loadable documents.
	ErrEmptyCorpus = errors.New("no documents could be loaded")
)
