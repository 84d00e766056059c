package index

import (
	"context"
	"errors"
	"testing"

	"github.com/costiera/concierge/ai/mock"
	"github.com/costiera/concierge/core"
	"github.com/costiera/concierge/storage"
	"github.com/costiera/concierge/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) (storage.ChunkRepository, func()) {
	t.Helper()
	docRepo, linkRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	return chunkRepo, func() {
		linkRepo.Close()
		docRepo.Close()
		backend.Close()
	}
}

func testChunks() ([]*core.Chunk, []*core.Chunk) {
	preSplit := []*core.Chunk{
		{DocumentId: 1, Position: 0, PageContent: "Villa Azure sits on the coast. See link://1 for photos."},
	}
	split := []*core.Chunk{
		{DocumentId: 1, Position: 0, PageContent: "Villa Azure sits on the coast."},
		{DocumentId: 1, Position: 1, PageContent: "See link://1 for photos."},
		{DocumentId: 1, Position: 2, PageContent: "Villa Bianca has a private pool."},
	}
	return preSplit, split
}

func TestNewIndexValidation(t *testing.T) {
	chunkRepo, cleanup := newTestRepos(t)
	defer cleanup()

	embedder := mock.NewMockEmbedder()

	t.Run("valid", func(t *testing.T) {
		idx, err := NewIndex(embedder, chunkRepo)
		require.NoError(t, err)
		assert.NotNil(t, idx)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewIndex(nil, chunkRepo)
		assert.Equal(t, ErrEmbedderRequired, err)
	})

	t.Run("nil chunk repository", func(t *testing.T) {
		_, err := NewIndex(embedder, nil)
		assert.Equal(t, ErrChunkRepositoryRequired, err)
	})
}

func TestBuildAndQuery(t *testing.T) {
	chunkRepo, cleanup := newTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	embedder := mock.NewMockEmbedder()

	idx, err := NewIndex(embedder, chunkRepo)
	require.NoError(t, err)

	preSplit, split := testChunks()
	require.NoError(t, idx.Build(ctx, "v1", preSplit, split))
	assert.Equal(t, 3, idx.Size())
	assert.Equal(t, "v1", idx.Version())
	require.Len(t, idx.PreSplit(), 1)

	// The mock embedder is deterministic, so a chunk's own text is its own
	// best match
	results, err := idx.Query(ctx, "Villa Bianca has a private pool.", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Villa Bianca has a private pool.", results[0].Chunk.PageContent)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestBuildIdempotentLoad(t *testing.T) {
	chunkRepo, cleanup := newTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	embedder := mock.NewMockEmbedder()

	idx, err := NewIndex(embedder, chunkRepo)
	require.NoError(t, err)

	preSplit, split := testChunks()
	require.NoError(t, idx.Build(ctx, "v1", preSplit, split))

	// Second build with the same version must not embed again
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		t.Fatal("unexpected embedding call on idempotent rebuild")
		return nil, nil
	}

	second, err := NewIndex(embedder, chunkRepo)
	require.NoError(t, err)
	freshPre, freshSplit := testChunks()
	require.NoError(t, second.Build(ctx, "v1", freshPre, freshSplit))
	assert.Equal(t, idx.Size(), second.Size())
}

func TestBuildEmbeddingFailureIsFatal(t *testing.T) {
	chunkRepo, cleanup := newTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	}

	idx, err := NewIndex(embedder, chunkRepo)
	require.NoError(t, err)

	preSplit, split := testChunks()
	err = idx.Build(ctx, "v1", preSplit, split)
	assert.ErrorIs(t, err, core.ErrEmbeddingFailed)
	assert.False(t, idx.Built())
}

func TestQueryFailureIsRetryable(t *testing.T) {
	chunkRepo, cleanup := newTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	embedder := mock.NewMockEmbedder()

	idx, err := NewIndex(embedder, chunkRepo)
	require.NoError(t, err)
	preSplit, split := testChunks()
	require.NoError(t, idx.Build(ctx, "v1", preSplit, split))

	failing := errors.New("embedding service down")
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, failing
	}

	_, err = idx.Query(ctx, "anything", 2)
	assert.ErrorIs(t, err, core.ErrEmbeddingFailed)

	// The index survives; a later query succeeds
	embedder.EmbedTextFunc = nil
	results, err := idx.Query(ctx, "anything", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestQueryBeforeBuild(t *testing.T) {
	chunkRepo, cleanup := newTestRepos(t)
	defer cleanup()

	idx, err := NewIndex(mock.NewMockEmbedder(), chunkRepo)
	require.NoError(t, err)

	_, err = idx.Query(context.Background(), "anything", 2)
	assert.Equal(t, ErrNotBuilt, err)
}
