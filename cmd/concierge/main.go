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


package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"github.com/costiera/concierge"
	"github.com/costiera/concierge/ai"
	"github.com/costiera/concierge/ai/openai"
	"github.com/costiera/concierge/core"
	"github.com/costiera/concierge/reindex"
	"github.com/costiera/concierge/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "concierge",
		Usage: "Retrieval-augmented travel concierge chat backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Register source documents in the corpus",
				ArgsUsage: "FILE [FILE ...]",
				Action:    addCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Document type override (csv, pdf, xlsx, html, txt, docx); inferred from the file extension when empty",
					},
				},
			},
			{
				Name:   "ingest",
				Usage:  "Load, preprocess and embed every registered document",
				Action: ingestCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				),
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed the stored snapshot with a new embedding model",
				Action: reindexCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of segments to embed in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N segments",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Ask the concierge a single question",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags:     chatFlags(),
			},
			{
				Name:   "chat",
				Usage:  "Interactive conversation with the concierge",
				Action: chatCommand,
				Flags:  chatFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// aiFlags are the upstream model service flags shared by every command that
// talks to the AI provider.
func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "host",
			Usage: "OpenAI-compatible service host URL",
			Value: "https://api.openai.com/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-3-small",
		},
		&cli.StringFlag{
			Name:  "generator-model",
			Usage: "Answer generation model name",
			Value: "gpt-4o-mini",
		},
		&cli.StringFlag{
			Name:  "api-token",
			Usage: "API token for the upstream services (use \"none\" for local services)",
			Value: "none",
		},
	}
}

func chatFlags() []cli.Flag {
	return append(aiFlags(),
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "redis",
			Usage: "Redis address for rate limiting (disabled when empty)",
		},
		&cli.StringFlag{
			Name:  "visitor",
			Usage: "Visitor identity for per-visitor rate limiting",
			Value: "local",
		},
	)
}

func newAIConfig(c *cli.Context) (*ai.Config, error) {
	config := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGeneratorModel(c.String("generator-model")),
		ai.WithAPIToken(c.String("api-token")),
	)
	config.Normalize()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return config, nil
}

func newService(c *cli.Context) (*concierge.Service, error) {
	aiConfig, err := newAIConfig(c)
	if err != nil {
		return nil, err
	}

	opts := []concierge.ServiceOption{concierge.WithAIConfig(aiConfig)}
	if addr := c.String("redis"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		opts = append(opts, concierge.WithRedisClient(client))
	}

	service, err := concierge.NewService(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open service: %w", err)
	}
	return service, nil
}

func addCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() == 0 {
		return fmt.Errorf("at least one file argument is required")
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	for _, arg := range c.Args().Slice() {
		path, err := filepath.Abs(arg)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("cannot read %s: %w", arg, err)
		}

		docType := core.DocType(c.String("type"))
		if docType == "" {
			docType = docTypeFromPath(path)
		}

		doc := &core.Document{
			Name: filepath.Base(path),
			Path: path,
			Type: docType,
		}
		if err := core.ValidateDocument(doc); err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}

		added, err := repo.AddDocuments(ctx, doc)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", arg, err)
		}
		fmt.Fprintf(os.Stderr, "Added document %d: %s (%s)\n", added[0].Id, added[0].Name, added[0].Type)
	}

	return nil
}

// docTypeFromPath infers the document type from the file extension.
func docTypeFromPath(path string) core.DocType {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "htm" {
		ext = "html"
	}
	return core.DocType(ext)
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	pipeline, err := service.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	if err := pipeline.IngestCorpus(ctx); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %d segments (corpus version %s)\n",
		service.Index().Size(), service.Index().Version())
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	aiConfig, err := newAIConfig(c)
	if err != nil {
		return err
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo := badger.NewChunkRepository(backend)

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reindexConfig := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reindexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reindexConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reindexConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reindexer := reindex.NewReindexer(repo, embedder, reindexConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", aiConfig.EmbeddingHost)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", aiConfig.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	if err := reindexer.Run(ctx); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}

	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() == 0 {
		return fmt.Errorf("a question argument is required")
	}
	question := strings.Join(c.Args().Slice(), " ")

	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	if err := service.LoadIndex(ctx); err != nil {
		return fmt.Errorf("no ingested corpus found, run ingest first: %w", err)
	}

	return runTurn(ctx, service, question, c.String("visitor"))
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()

	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	if err := service.LoadIndex(ctx); err != nil {
		return fmt.Errorf("no ingested corpus found, run ingest first: %w", err)
	}

	visitor := c.String("visitor")
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		question := strings.TrimSpace(scanner.Text())
		if question == "/quit" {
			break
		}
		if question != "" {
			if err := runTurn(ctx, service, question, visitor); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
		}
		fmt.Print("> ")
	}
	return scanner.Err()
}

func runTurn(ctx context.Context, service *concierge.Service, question, visitor string) error {
	reply, rejection, err := service.HandleTurn(ctx, concierge.Turn{
		Query:   question,
		Visitor: visitor,
	})
	if err != nil {
		return err
	}
	if rejection != nil {
		fmt.Printf("Rate limited (%s), retry in %.1fs\n", rejection.Reason, rejection.RetryAfterSeconds)
		return nil
	}

	fmt.Println(reply.Answer)
	for _, entry := range reply.Images {
		fmt.Printf("  %s: %s\n", entry.Name, entry.Link)
		for _, img := range entry.Images {
			fmt.Printf("    %s\n", img)
		}
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
