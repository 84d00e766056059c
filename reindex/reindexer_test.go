package reindex

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/costiera/concierge/ai/mock"
	"github.com/costiera/concierge/core"
	"github.com/costiera/concierge/storage"
	"github.com/costiera/concierge/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSnapshot(t *testing.T, segments int) storage.ChunkRepository {
	t.Helper()
	docRepo, linkRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		linkRepo.Close()
		docRepo.Close()
		backend.Close()
	})

	split := make([]*core.Chunk, segments)
	for i := range split {
		split[i] = &core.Chunk{
			Id:          core.ID(i + 1),
			DocumentId:  1,
			Position:    i,
			PageContent: "segment " + string(rune('a'+i%26)),
			Vector:      []float32{1, 0, 0},
		}
	}

	require.NoError(t, chunkRepo.SaveSnapshot(context.Background(), &storage.ChunkSnapshot{
		Version:  "v1",
		PreSplit: []*core.Chunk{{DocumentId: 1, PageContent: "whole block"}},
		Split:    split,
	}))
	return chunkRepo
}

func TestReindexerRun(t *testing.T) {
	chunkRepo := setupSnapshot(t, 7)
	ctx := context.Background()

	embedder := mock.NewMockEmbedder()
	var buf bytes.Buffer
	reindexer := NewReindexer(chunkRepo, embedder, &Config{
		BatchSize:      3,
		ReportInterval: 1,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
	}, &buf)

	require.NoError(t, reindexer.Run(ctx))

	// 7 segments at batch size 3 is 3 embedding calls
	assert.Equal(t, 3, embedder.CallCount())
	assert.Contains(t, buf.String(), "Reindexing complete")

	snapshot, err := chunkRepo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1", snapshot.Version, "a model swap does not change the corpus version")
	require.Len(t, snapshot.Split, 7)
	for _, chunk := range snapshot.Split {
		assert.Len(t, chunk.Vector, 384, "vectors come from the new embedder")
	}
	assert.Len(t, snapshot.PreSplit, 1, "pre-split blocks survive untouched")
}

func TestReindexerRetriesTransientFailures(t *testing.T) {
	chunkRepo := setupSnapshot(t, 2)

	failures := 2
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if failures > 0 {
			failures--
			return nil, errors.New("service unavailable")
		}
		embeddings := make([][]float32, len(texts))
		for i := range embeddings {
			embeddings[i] = []float32{0, 1, 0}
		}
		return embeddings, nil
	}

	var buf bytes.Buffer
	reindexer := NewReindexer(chunkRepo, embedder, &Config{
		BatchSize:      10,
		ReportInterval: 1,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
	}, &buf)

	require.NoError(t, reindexer.Run(context.Background()))

	snapshot, err := chunkRepo.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0}, snapshot.Split[0].Vector)
}

func TestReindexerFailsAfterRetriesExhausted(t *testing.T) {
	chunkRepo := setupSnapshot(t, 2)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("service unavailable")
	}

	var buf bytes.Buffer
	reindexer := NewReindexer(chunkRepo, embedder, &Config{
		BatchSize:      10,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}, &buf)

	err := reindexer.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to process batch")

	// The stored snapshot is untouched on failure
	snapshot, err := chunkRepo.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0}, snapshot.Split[0].Vector)
}

func TestReindexerNoSnapshot(t *testing.T) {
	docRepo, linkRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		linkRepo.Close()
		docRepo.Close()
		backend.Close()
	})

	var buf bytes.Buffer
	reindexer := NewReindexer(chunkRepo, mock.NewMockEmbedder(), nil, &buf)

	err = reindexer.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReindexerDefaults(t *testing.T) {
	reindexer := NewReindexer(setupSnapshot(t, 1), mock.NewMockEmbedder(), nil, &bytes.Buffer{})
	assert.Equal(t, DefaultConfig().BatchSize, reindexer.config.BatchSize)
}
