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


package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/costiera/concierge/ai"
	"github.com/costiera/concierge/storage"
)

// Config holds configuration for the reindexing run.
type Config struct {
	// BatchSize is the number of segments to embed in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of segments)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer re-embeds the stored chunk snapshot with the configured embedder.
type Reindexer struct {
	chunkRepository storage.ChunkRepository
	embedder        ai.Embedder
	config          *Config
	progress        io.Writer
	processor       *BatchProcessor
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(chunkRepository storage.ChunkRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reindexer {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reindexer{
		chunkRepository: chunkRepository,
		embedder:        embedder,
		config:          config,
		progress:        progress,
		processor:       NewBatchProcessor(embedder, config.MaxRetries, config.RetryDelay),
	}
}

// Run re-embeds every split segment of the stored snapshot and writes the
// snapshot back under the same corpus version. The version tracks corpus
// content, not the embedding model, so it is unchanged by a model swap.
func (r *Reindexer) Run(ctx context.Context) error {
	snapshot, err := r.chunkRepository.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	total := len(snapshot.Split)
	if total == 0 {
		fmt.Fprintf(r.progress, "No segments found in snapshot (0 segments)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindexing of %d segments (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	for start := 0; start < total; start += r.config.BatchSize {
		end := start + r.config.BatchSize
		if end > total {
			end = total
		}

		if err := r.processor.Process(ctx, snapshot.Split[start:end]); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		tracker.Update(end)
	}

	if err := r.chunkRepository.SaveSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindexing complete. Processed %d segments in %v (%.1f segments/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
