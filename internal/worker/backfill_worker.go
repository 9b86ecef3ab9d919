// Package worker provides background workers for the screening API.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// VectorBackfillService defines the interface for re-indexing candidates
// without stored vectors.
type VectorBackfillService interface {
	ReindexMissingVectors(ctx context.Context, batchSize int) (int, error)
}

// VectorBackfillWorker is a background worker that periodically re-embeds and
// indexes candidates whose vector upsert failed (e.g. provider outage during
// screening), so similarity queries eventually see every candidate.
type VectorBackfillWorker struct {
	service   VectorBackfillService
	interval  time.Duration
	batchSize int
}

// NewVectorBackfillWorker creates a new backfill worker.
func NewVectorBackfillWorker(service VectorBackfillService, interval time.Duration, batchSize int) *VectorBackfillWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	if batchSize <= 0 {
		batchSize = 100
	}

	return &VectorBackfillWorker{
		service:   service,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Start begins the background worker loop. It runs until the context is cancelled.
func (w *VectorBackfillWorker) Start(ctx context.Context) {
	slog.Info("vector backfill worker started",
		"interval", w.interval,
		"batch_size", w.batchSize,
	)

	// Run immediately on startup
	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("vector backfill worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// runOnce executes a single backfill batch.
func (w *VectorBackfillWorker) runOnce(ctx context.Context) {
	indexed, err := w.service.ReindexMissingVectors(ctx, w.batchSize)
	if err != nil {
		slog.Error("vector backfill failed", "error", err)
		return
	}

	if indexed > 0 {
		slog.Info("vector backfill completed", "indexed", indexed)
	} else {
		slog.Debug("vector backfill completed, nothing to index")
	}
}
