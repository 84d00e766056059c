package badger

import (
	"context"
	"errors"

	"github.com/costiera/concierge/core"
	"github.com/costiera/concierge/storage"
	"github.com/dgraph-io/badger/v4"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) *ChunkRepository {
	return &ChunkRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *ChunkRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveSnapshot atomically replaces the stored snapshot.
func (r *ChunkRepository) SaveSnapshot(ctx context.Context, snapshot *storage.ChunkSnapshot) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deleteChunkRows(tx, presplitPrefix); err != nil {
			return err
		}
		if err := deleteChunkRows(tx, splitPrefix); err != nil {
			return err
		}

		for pos, chunk := range snapshot.PreSplit {
			key := makeChunkKey(presplitPrefix, pos)
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		for pos, chunk := range snapshot.Split {
			key := makeChunkKey(splitPrefix, pos)
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}

		if err := tx.Set([]byte(snapshotVerKey), []byte(snapshot.Version)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadSnapshot returns the stored snapshot.
func (r *ChunkRepository) LoadSnapshot(ctx context.Context) (*storage.ChunkSnapshot, error) {
	snapshot := &storage.ChunkSnapshot{}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(snapshotVerKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		err = item.Value(func(val []byte) error {
			snapshot.Version = string(val)
			return nil
		})
		if err != nil {
			return err
		}

		snapshot.PreSplit, err = readChunkRows(tx, presplitPrefix)
		if err != nil {
			return err
		}
		snapshot.Split, err = readChunkRows(tx, splitPrefix)
		return err
	}, false)
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// Version returns the corpus version of the stored snapshot, or an empty
// string when none exists.
func (r *ChunkRepository) Version(ctx context.Context) (string, error) {
	var version string

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(snapshotVerKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			version = string(val)
			return nil
		})
	}, false)

	return version, err
}

// deleteChunkRows removes every chunk row under a prefix.
func deleteChunkRows(tx *badger.Txn, prefix string) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix + ":")
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// readChunkRows reads all chunk rows under a prefix in position order.
// BigEndian position encoding makes key order equal ingestion order.
func readChunkRows(tx *badger.Txn, prefix string) ([]*core.Chunk, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix + ":")
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var chunks []*core.Chunk
	for iter.Rewind(); iter.Valid(); iter.Next() {
		err := iter.Item().Value(func(val []byte) error {
			chunk, err := storage.UnmarshalChunk(val)
			if err != nil {
				return err
			}
			chunks = append(chunks, chunk)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return chunks, nil
}
