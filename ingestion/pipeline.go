package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/costiera/concierge/chunker"
	"github.com/costiera/concierge/core"
	"github.com/costiera/concierge/index"
	"github.com/costiera/concierge/links"
	"github.com/costiera/concierge/loader"
	"github.com/costiera/concierge/storage"
	"github.com/panjf2000/ants/v2"
)

// Pipeline orchestrates corpus ingestion: load, rewrite, chunk, embed,
// persist.
type Pipeline struct {
	documentRepository storage.DocumentRepository
	linkRepository     storage.LinkRepository
	loader             *loader.Loader
	rewriter           *links.Rewriter
	chunker            *chunker.Chunker
	index              *index.Index
	loadPool           *ants.Pool
	logger             *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent document loading.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.loadPool != nil {
			p.loadPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.loadPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	documentRepository storage.DocumentRepository,
	linkRepository storage.LinkRepository,
	docLoader *loader.Loader,
	rewriter *links.Rewriter,
	chk *chunker.Chunker,
	idx *index.Index,
	opts ...Option,
) (*Pipeline, error) {
	if documentRepository == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if linkRepository == nil {
		return nil, ErrLinkRepositoryRequired
	}
	if docLoader == nil {
		return nil, ErrLoaderRequired
	}
	if rewriter == nil {
		return nil, ErrRewriterRequired
	}
	if chk == nil {
		return nil, ErrChunkerRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		documentRepository: documentRepository,
		linkRepository:     linkRepository,
		loader:             docLoader,
		rewriter:           rewriter,
		chunker:            chk,
		index:              idx,
		loadPool:           pool,
		logger:             slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release frees the worker pool.
func (p *Pipeline) Release() {
	if p.loadPool != nil {
		p.loadPool.Release()
	}
}

// IngestCorpus ingests every stored document and builds the vector index.
// When the raw corpus hashes to the version already persisted, the stored
// snapshot is loaded instead and no links change.
func (p *Pipeline) IngestCorpus(ctx context.Context) error {
	return p.ingest(ctx, false)
}

// IngestDocument re-ingests after a change to the given document. The
// document's old links are deleted and new ids issued; previously handed out
// placeholder tokens for it become unresolvable, which is accepted.
func (p *Pipeline) IngestDocument(ctx context.Context, docID core.ID) error {
	if _, err := p.documentRepository.GetDocument(ctx, docID); err != nil {
		return err
	}
	// The snapshot is corpus-wide, so a single changed document still means
	// a full rebuild pass; the version hash keeps it cheap when nothing else
	// changed.
	return p.ingest(ctx, true)
}

func (p *Pipeline) ingest(ctx context.Context, force bool) error {
	docs, err := p.documentRepository.GetDocuments(ctx)
	if err != nil {
		return err
	}

	loaded := p.loadAll(ctx, docs)
	if len(loaded) == 0 {
		return ErrEmptyCorpus
	}

	version := corpusVersion(loaded)
	if !force {
		if err := p.index.Load(ctx); err == nil && p.index.Version() == version {
			p.logger.Info("corpus unchanged, loaded persisted snapshot", "version", version)
			return nil
		}
	}

	preSplit, err := p.rewriteAll(ctx, loaded)
	if err != nil {
		return err
	}

	split := p.chunker.Split(preSplit)

	// Rebuild unconditionally: link ids were just reissued, so even an
	// unchanged raw corpus needs a fresh snapshot.
	if err := p.index.Rebuild(ctx, version, preSplit, split); err != nil {
		return err
	}

	p.logger.Info("corpus ingested",
		"documents", len(loaded), "blocks", len(preSplit), "chunks", len(split), "version", version)
	return nil
}

// loadAll loads documents concurrently. A document that fails to load is
// logged and skipped; the rest of the corpus proceeds.
func (p *Pipeline) loadAll(ctx context.Context, docs []*core.Document) []*documentBlocks {
	results := make([]*documentBlocks, len(docs))

	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		err := p.loadPool.Submit(func() {
			defer wg.Done()
			blocks, err := p.loader.Load(ctx, doc)
			if err != nil {
				p.logger.Warn("skipping document", "name", doc.Name, "error", err)
				return
			}
			results[i] = &documentBlocks{document: doc, blocks: blocks}
		})
		if err != nil {
			wg.Done()
			p.logger.Warn("skipping document", "name", doc.Name, "error", err)
		}
	}
	wg.Wait()

	loaded := make([]*documentBlocks, 0, len(results))
	for _, result := range results {
		if result != nil {
			loaded = append(loaded, result)
		}
	}
	return loaded
}

// rewriteAll deletes each document's old links and rewrites its blocks with
// fresh placeholder tokens, then assigns corpus-wide positions.
func (p *Pipeline) rewriteAll(ctx context.Context, loaded []*documentBlocks) ([]*core.Chunk, error) {
	var preSplit []*core.Chunk
	position := 0

	for _, doc := range loaded {
		if err := p.linkRepository.DeleteLinksByDocument(ctx, doc.document.Id); err != nil {
			return nil, err
		}

		for _, block := range doc.blocks {
			rewritten, err := p.rewriter.ProcessLinks(ctx, block.PageContent, doc.document)
			if err != nil {
				return nil, err
			}
			block.PageContent = rewritten
			block.Position = position
			position++
			preSplit = append(preSplit, block)
		}
	}
	return preSplit, nil
}
