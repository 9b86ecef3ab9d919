// backfill-vectors re-embeds and indexes candidates that have no stored
// vector (e.g. created while the embedding provider was down). Run this when
// the API server's periodic backfill worker is not running, or to drain a
// large backlog in one shot.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/synahire/screening/internal/config"
	"github.com/synahire/screening/internal/embeddings"
	"github.com/synahire/screening/internal/index"
	"github.com/synahire/screening/internal/matching"
	"github.com/synahire/screening/internal/repository"
	"github.com/synahire/screening/internal/service"
	"github.com/synahire/screening/pkg/database"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)

		return exitFailure
	}

	ctx := context.Background()

	db, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, database.WithAfterConnect(pgxvec.RegisterTypes))
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)

		return exitFailure
	}
	defer db.Close()

	var baseEmbedder embeddings.Client
	if cfg.OpenAIAPIKey != "" {
		baseEmbedder = embeddings.NewOpenAIClient(cfg.OpenAIAPIKey,
			embeddings.WithDimensions(cfg.EmbeddingDimensions),
		)
	} else {
		slog.Warn("OPENAI_API_KEY not set, using deterministic mock embeddings")

		baseEmbedder = embeddings.NewMockClient(cfg.EmbeddingDimensions)
	}

	embedder := service.NewRateLimitedEmbeddingClient(baseEmbedder, cfg.EmbeddingRateLimit, cfg.EmbeddingTimeout)
	vectorIndex := index.NewPgVectorIndex(db, cfg.EmbeddingDimensions)

	engine, err := matching.NewEngine(matching.EngineParams{
		Index:      vectorIndex,
		Weights:    matching.DefaultScoreWeights(),
		Thresholds: matching.DefaultTierThresholds(),
	})
	if err != nil {
		slog.Error("Failed to create matching engine", "error", err)

		return exitFailure
	}

	candidatesRepo := repository.NewCandidatesRepository(db)

	screeningService := service.NewScreeningService(service.ScreeningServiceParams{
		Candidates: candidatesRepo,
		Embedder:   embedder,
		Engine:     engine,
		Vectors:    vectorIndex,
		Missing:    vectorIndex,
	})

	indexed, err := screeningService.ReindexMissingVectors(ctx, cfg.BackfillBatchSize)
	if err != nil {
		slog.Error("Backfill failed", "error", err)

		return exitFailure
	}

	slog.Info("Backfill complete", "indexed", indexed)

	fmt.Printf("Indexed %d candidate vector(s).\n", indexed)

	return exitSuccess
}
