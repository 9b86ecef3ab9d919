package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/synahire/screening/internal/embeddings"
	"github.com/synahire/screening/internal/index"
	"github.com/synahire/screening/internal/matching"
	"github.com/synahire/screening/internal/models"
	"github.com/synahire/screening/internal/observability"
	"github.com/synahire/screening/internal/screenerrors"
)

// ErrMissingEmail is returned when no email address can be extracted from the
// resume text; without one the duplicate check cannot run.
var ErrMissingEmail = errors.New("no email address found in resume text")

// JobsRepositoryForScreening provides job lookups for screening.
type JobsRepositoryForScreening interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
}

// CandidatesRepositoryForScreening provides the candidate persistence
// operations needed by screening.
type CandidatesRepositoryForScreening interface {
	Create(ctx context.Context, c *models.Candidate) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error)
	FindDuplicates(ctx context.Context, email string, phone *string, resumeHash string) ([]models.Candidate, error)
	ResumeTextByID(ctx context.Context, id uuid.UUID) (string, error)
}

// VectorSource looks up stored candidate vectors.
type VectorSource interface {
	VectorByCandidateID(ctx context.Context, id uuid.UUID) ([]float32, error)
}

// MissingVectorLister lists candidates that have no stored vector yet.
type MissingVectorLister interface {
	MissingCandidateIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
}

// FeedbackSignalSource provides the aggregated feedback signal for rescoring.
type FeedbackSignalSource interface {
	Signal(ctx context.Context, candidateID uuid.UUID) (*float64, error)
}

// ScreenRequest is the input to ScreenResume.
type ScreenRequest struct {
	JobID      uuid.UUID `json:"job_id" validate:"required"`
	ResumeText string    `json:"resume_text" validate:"required,min=1,no_null_bytes"`
}

// ScreeningOutcome is the result of a full screening: the created candidate,
// its score, and the scheduling decision.
type ScreeningOutcome struct {
	Candidate  models.Candidate   `json:"candidate"`
	Score      models.ScoreResult `json:"score"`
	Scheduling SchedulingResult   `json:"scheduling"`
}

// ScreeningService runs the full screening pipeline: parse, dedupe, embed,
// score, classify, persist, schedule. The embedding call is the only slow
// step and happens before the engine touches the index.
type ScreeningService struct {
	jobs       JobsRepositoryForScreening
	candidates CandidatesRepositoryForScreening
	parser     *ResumeParser
	embedder   embeddings.Client
	engine     *matching.Engine
	scheduler  *SchedulingService
	feedback   FeedbackSignalSource
	vectors    VectorSource
	missing    MissingVectorLister

	screeningMetrics observability.ScreeningMetrics
	embeddingMetrics observability.EmbeddingMetrics
	logger           *slog.Logger
}

// ScreeningServiceParams configures ScreeningService. Metrics may be nil
// (metrics disabled); Logger may be nil (slog default). Feedback, Vectors,
// and Missing are only needed for rescoring and backfill respectively.
type ScreeningServiceParams struct {
	Jobs       JobsRepositoryForScreening
	Candidates CandidatesRepositoryForScreening
	Parser     *ResumeParser
	Embedder   embeddings.Client
	Engine     *matching.Engine
	Scheduler  *SchedulingService
	Feedback   FeedbackSignalSource
	Vectors    VectorSource
	Missing    MissingVectorLister

	ScreeningMetrics observability.ScreeningMetrics
	EmbeddingMetrics observability.EmbeddingMetrics
	Logger           *slog.Logger
}

// NewScreeningService creates a ScreeningService.
func NewScreeningService(p ScreeningServiceParams) *ScreeningService {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ScreeningService{
		jobs:             p.Jobs,
		candidates:       p.Candidates,
		parser:           p.Parser,
		embedder:         p.Embedder,
		engine:           p.Engine,
		scheduler:        p.Scheduler,
		feedback:         p.Feedback,
		vectors:          p.Vectors,
		missing:          p.Missing,
		screeningMetrics: p.ScreeningMetrics,
		embeddingMetrics: p.EmbeddingMetrics,
		logger:           logger,
	}
}

// ScreenResume runs the screening pipeline for one resume against one job.
// Duplicate candidates (same email, phone, or resume hash) are rejected with
// *screenerrors.ConflictError. Dimension mismatches from the engine or index
// propagate unchanged; nothing is persisted on error.
func (s *ScreeningService) ScreenResume(ctx context.Context, req ScreenRequest) (*ScreeningOutcome, error) {
	start := time.Now()

	job, err := s.jobs.GetByID(ctx, req.JobID)
	if err != nil {
		s.recordError(ctx, "job_lookup")

		return nil, fmt.Errorf("lookup job: %w", err)
	}

	parsed := s.parser.Parse(req.ResumeText, *job)
	if parsed.Email == "" {
		s.recordError(ctx, "no_email")

		return nil, ErrMissingEmail
	}

	duplicates, err := s.candidates.FindDuplicates(ctx, parsed.Email, parsed.Phone, parsed.ResumeHash)
	if err != nil {
		s.recordError(ctx, "duplicate_check")

		return nil, fmt.Errorf("duplicate check: %w", err)
	}

	if len(duplicates) > 0 {
		s.logger.Info("duplicate candidate rejected",
			"email", parsed.Email,
			"duplicates", len(duplicates),
		)
		s.recordError(ctx, "duplicate")

		return nil, screenerrors.NewConflictError("candidate already exists")
	}

	embedding, err := s.embed(ctx, req.ResumeText)
	if err != nil {
		s.recordError(ctx, "embedding")

		return nil, err
	}

	candidate := models.Candidate{
		ID:         uuid.Must(uuid.NewV7()),
		Name:       parsed.Name,
		Email:      parsed.Email,
		Phone:      parsed.Phone,
		ResumeText: req.ResumeText,
		ResumeHash: parsed.ResumeHash,
		Skills:     parsed.Skills,
		Available:  parsed.Available,
		Enthusiasm: parsed.Enthusiasm,
		Embedding:  embedding,
	}

	result, err := s.engine.Screen(ctx, candidate, *job, matching.ScreenOptions{})
	if err != nil {
		s.recordError(ctx, "scoring")

		return nil, fmt.Errorf("screen candidate: %w", err)
	}

	if err := s.candidates.Create(ctx, &candidate); err != nil {
		s.recordError(ctx, "persist")

		return nil, fmt.Errorf("persist candidate: %w", err)
	}

	scheduling := s.scheduler.ScheduleInterview(candidate.ID, result.Tier)

	if s.screeningMetrics != nil {
		s.screeningMetrics.RecordScreening(ctx, string(result.Tier), time.Since(start))
	}

	s.logger.Info("candidate screened",
		"candidate_id", candidate.ID,
		"job_id", job.ID,
		"score", result.Score,
		"tier", result.Tier,
		"scheduling", scheduling.Status,
	)

	return &ScreeningOutcome{
		Candidate:  candidate,
		Score:      result,
		Scheduling: scheduling,
	}, nil
}

// Rescore recomputes a stored candidate's score against a job, blending in
// the aggregated feedback signal when one exists. The index is not touched,
// so rescoring historical candidates is side-effect free.
func (s *ScreeningService) Rescore(ctx context.Context, candidateID, jobID uuid.UUID) (*models.ScoreResult, error) {
	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("lookup candidate: %w", err)
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("lookup job: %w", err)
	}

	vector, err := s.vectors.VectorByCandidateID(ctx, candidateID)
	if err != nil {
		if !errors.Is(err, index.ErrVectorNotFound) {
			return nil, fmt.Errorf("lookup candidate vector: %w", err)
		}

		// Not indexed yet (e.g. created before the index existed); re-embed.
		vector, err = s.embed(ctx, candidate.ResumeText)
		if err != nil {
			return nil, err
		}
	}

	candidate.Embedding = vector

	var signal *float64
	if s.feedback != nil {
		signal, err = s.feedback.Signal(ctx, candidateID)
		if err != nil {
			return nil, fmt.Errorf("feedback signal: %w", err)
		}
	}

	result, err := s.engine.Screen(ctx, *candidate, *job, matching.ScreenOptions{
		SkipIndexing:   true,
		FeedbackSignal: signal,
	})
	if err != nil {
		return nil, fmt.Errorf("rescore candidate: %w", err)
	}

	return &result, nil
}

// ReindexMissingVectors re-embeds and indexes up to batchSize candidates that
// have no stored vector. Per-candidate failures are logged and skipped so one
// bad record cannot stall the backfill. Returns the number indexed.
func (s *ScreeningService) ReindexMissingVectors(ctx context.Context, batchSize int) (int, error) {
	ids, err := s.missing.MissingCandidateIDs(ctx, batchSize)
	if err != nil {
		return 0, fmt.Errorf("list missing vectors: %w", err)
	}

	indexed := 0

	for _, id := range ids {
		text, err := s.candidates.ResumeTextByID(ctx, id)
		if err != nil {
			s.logger.Error("backfill: get resume text failed", "candidate_id", id, "error", err)

			continue
		}

		vector, err := s.embed(ctx, text)
		if err != nil {
			s.logger.Error("backfill: embedding failed", "candidate_id", id, "error", err)

			continue
		}

		if err := s.engine.UpsertVector(ctx, id, vector); err != nil {
			s.logger.Error("backfill: index upsert failed", "candidate_id", id, "error", err)

			continue
		}

		indexed++
	}

	return indexed, nil
}

// embed calls the embedding client with metrics around the call.
func (s *ScreeningService) embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()

	embedding, err := s.embedder.CreateEmbedding(ctx, text)
	if err != nil {
		if s.embeddingMetrics != nil {
			s.embeddingMetrics.RecordEmbedding(ctx, "error", time.Since(start))
		}

		return nil, fmt.Errorf("create embedding: %w", err)
	}

	if s.embeddingMetrics != nil {
		s.embeddingMetrics.RecordEmbedding(ctx, "ok", time.Since(start))
	}

	return embedding, nil
}

func (s *ScreeningService) recordError(ctx context.Context, reason string) {
	if s.screeningMetrics != nil {
		s.screeningMetrics.RecordScreeningError(ctx, reason)
	}
}
