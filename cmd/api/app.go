package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/synahire/screening/internal/api/handlers"
	"github.com/synahire/screening/internal/api/middleware"
	"github.com/synahire/screening/internal/config"
	"github.com/synahire/screening/internal/embeddings"
	"github.com/synahire/screening/internal/index"
	"github.com/synahire/screening/internal/matching"
	"github.com/synahire/screening/internal/observability"
	"github.com/synahire/screening/internal/repository"
	"github.com/synahire/screening/internal/service"
	"github.com/synahire/screening/internal/worker"
)

// App holds all server dependencies and coordinates startup and shutdown.
type App struct {
	cfg           *config.Config
	db            *pgxpool.Pool
	server        *http.Server
	backfill      *worker.VectorBackfillWorker
	meterProvider observability.MeterProviderShutdown
	metrics       *observability.Metrics
}

// NewApp builds and wires all components. It does not start the HTTP server;
// call Run to start and block until shutdown or failure. Misconfigured
// matching weights or tier thresholds fail here, before any traffic.
func NewApp(cfg *config.Config, db *pgxpool.Pool) (*App, error) {
	var (
		meterProvider  observability.MeterProviderShutdown
		metricsHandler http.Handler
		metrics        *observability.Metrics
		err            error
	)

	if cfg.MetricsEnabled {
		meterProvider, metricsHandler, metrics, err = observability.NewMeterProvider("")
		if err != nil {
			return nil, fmt.Errorf("create meter provider: %w", err)
		}
	} else {
		slog.Warn("metrics not enabled (METRICS_ENABLED=false)")
	}

	var (
		httpMetrics      observability.HTTPMetrics
		screeningMetrics observability.ScreeningMetrics
		searchMetrics    observability.SearchMetrics
		embeddingMetrics observability.EmbeddingMetrics
	)
	if metrics != nil {
		httpMetrics = metrics.HTTP
		screeningMetrics = metrics.Screenings
		searchMetrics = metrics.Search
		embeddingMetrics = metrics.Embeddings
	}

	var baseEmbedder embeddings.Client
	if cfg.OpenAIAPIKey != "" {
		baseEmbedder = embeddings.NewOpenAIClient(cfg.OpenAIAPIKey,
			embeddings.WithDimensions(cfg.EmbeddingDimensions),
		)
		slog.Info("embeddings enabled", "model", "text-embedding-3-small", "dimensions", cfg.EmbeddingDimensions)
	} else {
		baseEmbedder = embeddings.NewMockClient(cfg.EmbeddingDimensions)
		slog.Warn("OPENAI_API_KEY not set, using deterministic mock embeddings (local development only)")
	}

	embedder := service.NewRateLimitedEmbeddingClient(baseEmbedder, cfg.EmbeddingRateLimit, cfg.EmbeddingTimeout)

	vectorIndex := index.NewPgVectorIndex(db, cfg.EmbeddingDimensions)

	engine, err := matching.NewEngine(matching.EngineParams{
		Index: vectorIndex,
		Weights: matching.ScoreWeights{
			Similarity:   cfg.WeightSimilarity,
			SkillOverlap: cfg.WeightSkillOverlap,
			Enthusiasm:   cfg.WeightEnthusiasm,
			Feedback:     cfg.WeightFeedback,
		},
		Thresholds: matching.TierThresholds{
			Strong:   cfg.TierStrong,
			Optional: cfg.TierOptional,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create matching engine: %w", err)
	}

	candidatesRepo := repository.NewCandidatesRepository(db)
	jobsRepo := repository.NewJobsRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	scheduler := service.NewSchedulingService(nil)
	feedbackService := service.NewFeedbackService(feedbackRepo, candidatesRepo, nil)
	jobsService := service.NewJobsService(jobsRepo, embedder, nil)

	screeningService := service.NewScreeningService(service.ScreeningServiceParams{
		Jobs:       jobsRepo,
		Candidates: candidatesRepo,
		Parser:     service.NewResumeParser(),
		Embedder:   embedder,
		Engine:     engine,
		Scheduler:  scheduler,
		Feedback:   feedbackService,
		Vectors:    vectorIndex,
		Missing:    vectorIndex,

		ScreeningMetrics: screeningMetrics,
		EmbeddingMetrics: embeddingMetrics,
	})

	var queryCache *lru.Cache[string, []float32]

	if cfg.SearchCacheSize > 0 {
		queryCache, err = lru.New[string, []float32](cfg.SearchCacheSize)
		if err != nil {
			return nil, fmt.Errorf("create search query cache: %w", err)
		}
	}

	similarityService := service.NewSimilarityService(service.SimilarityServiceParams{
		Embedder:   embedder,
		Matcher:    engine,
		Vectors:    vectorIndex,
		QueryCache: queryCache,
		Metrics:    searchMetrics,
	})

	server := newHTTPServer(cfg, httpMetrics, metricsHandler, muxHandlers{
		health:     handlers.NewHealthHandler(),
		jobs:       handlers.NewJobsHandler(jobsService),
		screenings: handlers.NewScreeningsHandler(screeningService),
		candidates: handlers.NewCandidatesHandler(candidatesRepo),
		similarity: handlers.NewSimilarityHandler(similarityService),
		feedback:   handlers.NewFeedbackHandler(feedbackService),
	})

	backfill := worker.NewVectorBackfillWorker(screeningService, cfg.BackfillInterval, cfg.BackfillBatchSize)

	return &App{
		cfg:           cfg,
		db:            db,
		server:        server,
		backfill:      backfill,
		meterProvider: meterProvider,
		metrics:       metrics,
	}, nil
}

type muxHandlers struct {
	health     *handlers.HealthHandler
	jobs       *handlers.JobsHandler
	screenings *handlers.ScreeningsHandler
	candidates *handlers.CandidatesHandler
	similarity *handlers.SimilarityHandler
	feedback   *handlers.FeedbackHandler
}

// newHTTPServer builds the HTTP server and muxes (no auth on /health and /metrics,
// API key on /v1/). Handler chain: RequestID -> Metrics -> MaxBody -> Logging -> mux.
func newHTTPServer(
	cfg *config.Config,
	httpMetrics observability.HTTPMetrics,
	metricsHandler http.Handler,
	h muxHandlers,
) *http.Server {
	public := http.NewServeMux()
	public.HandleFunc("GET /health", h.health.Check)

	if metricsHandler != nil {
		public.Handle("GET /metrics", metricsHandler)
	}

	protected := http.NewServeMux()
	protected.HandleFunc("POST /v1/jobs", h.jobs.Create)
	protected.HandleFunc("GET /v1/jobs", h.jobs.List)
	protected.HandleFunc("GET /v1/jobs/{id}", h.jobs.Get)

	protected.HandleFunc("POST /v1/screenings", h.screenings.Create)
	protected.HandleFunc("POST /v1/screenings/rescore", h.screenings.Rescore)

	protected.HandleFunc("GET /v1/candidates", h.candidates.List)
	protected.HandleFunc("GET /v1/candidates/{id}", h.candidates.Get)
	protected.HandleFunc("POST /v1/candidates/search/similar", h.similarity.Search)
	protected.HandleFunc("GET /v1/candidates/{id}/similar", h.similarity.SimilarToCandidate)

	protected.HandleFunc("POST /v1/feedback", h.feedback.Create)
	protected.HandleFunc("GET /v1/candidates/{id}/feedback", h.feedback.ListByCandidate)

	protectedWithAuth := middleware.Auth(cfg.APIKey)(protected)
	mux := http.NewServeMux()
	mux.Handle("/v1/", protectedWithAuth)
	mux.Handle("/", public)

	handler := middleware.Logging(mux)
	handler = middleware.MaxBody(cfg.MaxRequestBodyBytes, httpMetrics)(handler)
	handler = middleware.Metrics(httpMetrics)(handler)
	handler = middleware.RequestID(handler)

	const (
		readTimeout  = 15 * time.Second
		writeTimeout = 15 * time.Second
		idleTimeout  = 60 * time.Second
	)

	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
}

// Run starts the HTTP server and the backfill worker, then blocks until ctx is
// cancelled (e.g. signal) or the server fails. Caller should then call Shutdown.
func (a *App) Run(ctx context.Context) error {
	runErr := make(chan error, 1)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	go a.backfill.Start(workerCtx)

	go func() {
		slog.Info("Starting server", "port", a.cfg.Port)

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case runErr <- fmt.Errorf("server: %w", err):
			default:
			}
		}
	}()

	select {
	case err := <-runErr:
		cancelWorker()

		return err
	case <-ctx.Done():
		cancelWorker()

		return nil
	}
}

// Shutdown stops the server and the meter provider. Call after Run returns.
func (a *App) Shutdown(ctx context.Context) (err error) {
	defer func() {
		if a.meterProvider == nil {
			return
		}

		if mpErr := a.meterProvider.Shutdown(ctx); mpErr != nil {
			if err == nil {
				err = fmt.Errorf("meter provider shutdown: %w", mpErr)
			} else {
				slog.Error("shutdown meter provider", "error", mpErr)
			}
		}
	}()

	if err = a.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
