package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/costiera/concierge/core"
	"github.com/costiera/concierge/storage"
	"github.com/dgraph-io/badger/v4"
)

// LinkRepository implements storage.LinkRepository for BadgerDB.
type LinkRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.LinkRepository = (*LinkRepository)(nil)

// NewLinkRepository creates a new LinkRepository.
func NewLinkRepository(backend *Backend) (*LinkRepository, error) {
	idSeq, err := backend.GetSequence(linkIDSeq)
	if err != nil {
		return nil, err
	}

	return &LinkRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *LinkRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *LinkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddLinks adds one or more links to storage.
// Links always get fresh sequence ids; placeholder tokens embed them, so ids
// are never recycled within a database.
func (r *LinkRepository) AddLinks(ctx context.Context, links ...*core.Link) ([]*core.Link, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, link := range links {
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			link.Id = core.ID(nextID)

			link.InsertedAt = time.Now().UTC()
			link.UpdatedAt = link.InsertedAt

			// Store primary record
			key := makeLinkKey(link.Id)
			value := storage.MarshalLink(link)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update document ownership index
			docKey := makeLinkDocKey(link.DocumentId, link.Id)
			if err := tx.Set(docKey, storage.MarshalID(link.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return links, err
}

// UpdateLinks updates existing links.
// This is the write path for the lazily populated image cache; concurrent
// updates of the same link are last-write-wins.
func (r *LinkRepository) UpdateLinks(ctx context.Context, links ...*core.Link) ([]*core.Link, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, link := range links {
			key := makeLinkKey(link.Id)

			old, err := readLink(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			link.InsertedAt = old.InsertedAt
			link.UpdatedAt = time.Now().UTC()

			value := storage.MarshalLink(link)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return links, err
}

// DeleteLinksByDocument removes every link owned by a document.
func (r *LinkRepository) DeleteLinksByDocument(ctx context.Context, docID core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialLinkDocKey(docID)
		iter := tx.NewIterator(opts)

		var indexKeys [][]byte
		var linkIDs []core.ID
		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			indexKeys = append(indexKeys, item.KeyCopy(nil))

			err := item.Value(func(val []byte) error {
				id, err := storage.UnmarshalID(val)
				if err != nil {
					return err
				}
				linkIDs = append(linkIDs, id)
				return nil
			})
			if err != nil {
				iter.Close()
				return err
			}
		}
		iter.Close()

		for _, id := range linkIDs {
			if err := tx.Delete(makeLinkKey(id)); err != nil {
				return err
			}
		}
		for _, key := range indexKeys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetLink retrieves a single link by ID.
func (r *LinkRepository) GetLink(ctx context.Context, id core.ID) (*core.Link, error) {
	var link *core.Link

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		link, err = readLink(tx, makeLinkKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, storage.ErrNotFound
	}

	return link, nil
}

// GetLinksByDocument retrieves all links owned by a document, ordered by ID.
func (r *LinkRepository) GetLinksByDocument(ctx context.Context, docID core.ID) ([]*core.Link, error) {
	var links []*core.Link

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialLinkDocKey(docID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		var ids []core.ID
		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				id, err := storage.UnmarshalID(val)
				if err != nil {
					return err
				}
				ids = append(ids, id)
				return nil
			})
			if err != nil {
				return err
			}
		}

		for _, id := range ids {
			link, err := readLink(tx, makeLinkKey(id))
			if err != nil {
				return err
			}
			if link != nil {
				links = append(links, link)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(links, func(a, b *core.Link) int {
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})
	return links, nil
}

// readLink reads a link within a transaction.
// Returns nil (no error) when the key does not exist.
func readLink(tx *badger.Txn, key []byte) (*core.Link, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var link *core.Link
	err = item.Value(func(val []byte) error {
		var err error
		link, err = storage.UnmarshalLink(val)
		return err
	})
	return link, err
}
