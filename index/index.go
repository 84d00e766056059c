package index

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/costiera/concierge/ai"
	"github.com/costiera/concierge/core"
	"github.com/costiera/concierge/storage"
)

// DefaultTopK is the number of chunks retrieved per query when the caller
// does not ask for a specific count.
const DefaultTopK = 4

// Index is the in-memory vector index over the split chunk snapshot.
// Build once, then share read-only across conversations.
type Index struct {
	embedder        ai.Embedder
	chunkRepository storage.ChunkRepository
	logger          *slog.Logger

	version  string
	preSplit []*core.Chunk
	split    []*core.Chunk
	built    bool
}

// Option configures an Index.
type Option func(*Index) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		idx.logger = logger
		return nil
	}
}

// NewIndex creates a new vector index.
func NewIndex(embedder ai.Embedder, chunkRepository storage.ChunkRepository, opts ...Option) (*Index, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}

	idx := &Index{
		embedder:        embedder,
		chunkRepository: chunkRepository,
		logger:          slog.Default().With("component", "index"),
	}

	for _, opt := range opts {
		if err := opt(idx); err != nil {
			return nil, err
		}
	}

	return idx, nil
}

// Build populates the index for the given corpus version. When a persisted
// snapshot with the same version exists it is loaded and no embedding call is
// made; otherwise every split chunk is embedded and the snapshot saved.
// Embedding failure is fatal here: ingestion cannot proceed without vectors.
func (idx *Index) Build(ctx context.Context, version string, preSplit, split []*core.Chunk) error {
	stored, err := idx.chunkRepository.Version(ctx)
	if err != nil {
		return err
	}
	if stored == version {
		idx.logger.Info("loading persisted index", "version", version)
		return idx.Load(ctx)
	}

	return idx.Rebuild(ctx, version, preSplit, split)
}

// Rebuild embeds every split chunk and persists the snapshot without
// consulting the stored version. Used when placeholder ids were reissued and
// the stored snapshot is stale even though the raw corpus hash matches.
func (idx *Index) Rebuild(ctx context.Context, version string, preSplit, split []*core.Chunk) error {
	texts := make([]string, len(split))
	for i, chunk := range split {
		texts[i] = chunk.PageContent
	}

	vectors, err := idx.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrEmbeddingFailed, err)
	}
	if len(vectors) != len(split) {
		return fmt.Errorf("%w: got %d vectors for %d chunks", core.ErrEmbeddingFailed, len(vectors), len(split))
	}
	for i, chunk := range split {
		chunk.Vector = NormalizeVector(vectors[i])
	}

	snapshot := &storage.ChunkSnapshot{
		Version:  version,
		PreSplit: preSplit,
		Split:    split,
	}
	if err := idx.chunkRepository.SaveSnapshot(ctx, snapshot); err != nil {
		return err
	}

	idx.version = version
	idx.preSplit = preSplit
	idx.split = split
	idx.built = true

	idx.logger.Info("built index", "version", version, "chunks", len(split))
	return nil
}

// Load populates the index from the persisted snapshot without embedding.
// Returns storage.ErrNotFound when no snapshot exists yet.
func (idx *Index) Load(ctx context.Context) error {
	snapshot, err := idx.chunkRepository.LoadSnapshot(ctx)
	if err != nil {
		return err
	}

	idx.version = snapshot.Version
	idx.preSplit = snapshot.PreSplit
	idx.split = snapshot.Split
	idx.built = true

	idx.logger.Info("loaded index", "version", idx.version, "chunks", len(idx.split))
	return nil
}

// Query returns the k most similar chunks to text, most similar first.
// k <= 0 means DefaultTopK. Embedding failures here are retryable: the error
// is surfaced to the caller, the index stays usable.
func (idx *Index) Query(ctx context.Context, text string, k int) ([]*core.ScoredChunk, error) {
	if !idx.built {
		return nil, ErrNotBuilt
	}
	if k <= 0 {
		k = DefaultTopK
	}

	vector, err := idx.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrEmbeddingFailed, err)
	}
	vector = NormalizeVector(vector)

	results := make([]*core.ScoredChunk, 0, len(idx.split))
	for _, chunk := range idx.split {
		if len(chunk.Vector) == 0 {
			continue
		}
		results = append(results, &core.ScoredChunk{
			Chunk: chunk,
			Score: dotProduct(vector, chunk.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// PreSplit returns the pre-split chunk store for placeholder lookups.
func (idx *Index) PreSplit() []*core.Chunk {
	return idx.preSplit
}

// Version returns the corpus version the index was built from.
func (idx *Index) Version() string {
	return idx.version
}

// Size returns the number of indexed chunks.
func (idx *Index) Size() int {
	return len(idx.split)
}

// Built reports whether the index is ready for queries.
func (idx *Index) Built() bool {
	return idx.built
}
