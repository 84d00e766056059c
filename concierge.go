// Copyright 2025 Costiera Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package concierge

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/costiera/concierge/ai"
	"github.com/costiera/concierge/ai/openai"
	"github.com/costiera/concierge/chunker"
	"github.com/costiera/concierge/gallery"
	"github.com/costiera/concierge/genie"
	"github.com/costiera/concierge/index"
	"github.com/costiera/concierge/ingestion"
	"github.com/costiera/concierge/links"
	"github.com/costiera/concierge/loader"
	"github.com/costiera/concierge/ratelimit"
	"github.com/costiera/concierge/storage"
	"github.com/costiera/concierge/storage/badger"
)

// Turn is one visitor question.
type Turn struct {
	// Query is the visitor's question text.
	Query string

	// Visitor identifies the visitor for per-visitor rate limiting,
	// typically the client address from x-forwarded-for.
	Visitor string
}

// Reply is the concierge's answer to a turn.
type Reply struct {
	// Answer is the reply text with link placeholders resolved to real URLs.
	Answer string `json:"answer"`

	// Residencies lists the residency names the answer mentions.
	Residencies []string `json:"residencies"`

	// Images holds gallery enrichment for the mentioned residencies.
	Images []gallery.Entry `json:"images"`

	// TokenUsage is the generation cost of the turn, charged against the
	// global token budget.
	TokenUsage int `json:"-"`
}

// Service wires storage, the vector index, generation, rate limiting and
// gallery enrichment into a single chat backend.
type Service struct {
	backend      *badger.Backend
	documentRepo storage.DocumentRepository
	linkRepo     storage.LinkRepository
	chunkRepo    storage.ChunkRepository
	provider     ai.AIProvider
	index        *index.Index
	genie        *genie.Genie
	resolver     *links.Resolver
	enricher     *gallery.Enricher
	limiter      *ratelimit.Limiter
	logger       *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig     *ai.Config
	provider     ai.AIProvider
	redisClient  *redis.Client
	limiterOpts  []ratelimit.LimiterOption
	enricherOpts []gallery.Option
	genieOpts    []genie.Option
}

// WithAIConfig sets the OpenAI provider configuration.
func WithAIConfig(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.aiConfig = config
	}
}

// WithProvider supplies a pre-built AI provider instead of constructing the
// OpenAI one. The service takes ownership and closes it on Close.
func WithProvider(provider ai.AIProvider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithRedisClient enables rate limiting against the given Redis instance.
// Without it both rate gates are disabled and every turn is admitted.
func WithRedisClient(client *redis.Client, opts ...ratelimit.LimiterOption) ServiceOption {
	return func(o *serviceOptions) {
		o.redisClient = client
		o.limiterOpts = opts
	}
}

// WithEnricherOptions forwards options to the gallery enricher.
func WithEnricherOptions(opts ...gallery.Option) ServiceOption {
	return func(o *serviceOptions) {
		o.enricherOpts = opts
	}
}

// WithGenieOptions forwards options to the genie.
func WithGenieOptions(opts ...genie.Option) ServiceOption {
	return func(o *serviceOptions) {
		o.genieOpts = opts
	}
}

// NewService opens the store at filePath and assembles the chat backend.
// An empty filePath opens an in-memory store.
func NewService(filePath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, filePath == "")
	if err != nil {
		return nil, err
	}

	documentRepo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	linkRepo, err := badger.NewLinkRepository(backend)
	if err != nil {
		documentRepo.Close()
		backend.Close()
		return nil, err
	}

	chunkRepo := badger.NewChunkRepository(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			linkRepo.Close()
			documentRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	s := &Service{
		backend:      backend,
		documentRepo: documentRepo,
		linkRepo:     linkRepo,
		chunkRepo:    chunkRepo,
		provider:     provider,
		logger:       slog.Default(),
	}

	cleanup := func() {
		provider.Close()
		linkRepo.Close()
		documentRepo.Close()
		backend.Close()
	}

	s.index, err = index.NewIndex(provider.Embedder(), chunkRepo)
	if err != nil {
		cleanup()
		return nil, err
	}

	s.genie, err = genie.NewGenie(s.index, provider.Generator(), options.genieOpts...)
	if err != nil {
		cleanup()
		return nil, err
	}

	s.resolver, err = links.NewResolver(linkRepo)
	if err != nil {
		cleanup()
		return nil, err
	}

	s.enricher, err = gallery.NewEnricher(linkRepo, options.enricherOpts...)
	if err != nil {
		cleanup()
		return nil, err
	}

	if options.redisClient != nil {
		s.limiter, err = ratelimit.NewLimiter(options.redisClient, options.limiterOpts...)
		if err != nil {
			cleanup()
			return nil, err
		}
	}

	return s, nil
}

// Close releases the AI provider and storage resources.
func (s *Service) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.linkRepo.Close(); err != nil {
		s.logger.Error("error closing link repository", "err", err)
		return err
	}
	if err := s.documentRepo.Close(); err != nil {
		s.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (s *Service) DocumentRepository() storage.DocumentRepository {
	return s.documentRepo
}

func (s *Service) LinkRepository() storage.LinkRepository {
	return s.linkRepo
}

func (s *Service) Index() *index.Index {
	return s.index
}

// NewIngestionPipeline builds a pipeline over the service's storage and index.
func (s *Service) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	docLoader, err := loader.NewLoader()
	if err != nil {
		return nil, err
	}
	rewriter, err := links.NewRewriter(s.linkRepo)
	if err != nil {
		return nil, err
	}
	chk, err := chunker.NewChunker()
	if err != nil {
		return nil, err
	}
	return ingestion.NewPipeline(s.documentRepo, s.linkRepo, docLoader, rewriter, chk, s.index, opts...)
}

// LoadIndex restores the vector index from the last ingested snapshot.
// Returns storage.ErrNotFound when no corpus has been ingested yet.
func (s *Service) LoadIndex(ctx context.Context) error {
	return s.index.Load(ctx)
}

// HandleTurn runs one visitor question through the rate gates, retrieval,
// generation, link resolution and gallery enrichment.
//
// A non-nil Rejection means a rate gate turned the turn away and no tokens
// were spent. A per-visitor rejection is decided without touching the global
// ledger. Retrieval failures are returned as errors and are retryable.
func (s *Service) HandleTurn(ctx context.Context, turn Turn) (*Reply, *ratelimit.Rejection, error) {
	if s.limiter != nil {
		rejection, err := s.limiter.CheckVisitor(ctx, turn.Visitor)
		if err != nil {
			return nil, nil, err
		}
		if rejection != nil {
			return nil, rejection, nil
		}

		rejection, err = s.limiter.CheckGlobal(ctx)
		if err != nil {
			return nil, nil, err
		}
		if rejection != nil {
			return nil, rejection, nil
		}
	}

	answer, usage, err := s.genie.Ask(ctx, turn.Query)
	if err != nil {
		return nil, nil, err
	}

	if s.limiter != nil && usage > 0 {
		// The answer is already produced; a ledger hiccup must not eat it.
		if err := s.limiter.Deposit(ctx, usage); err != nil {
			s.logger.Warn("token deposit failed", "error", err)
		}
	}

	reply := &Reply{
		Answer:      s.resolver.Resolve(ctx, answer.Answer),
		Residencies: answer.Residencies,
		Images:      s.enricher.FindImages(ctx, answer.Residencies, s.index.PreSplit()),
		TokenUsage:  usage,
	}
	return reply, nil, nil
}
