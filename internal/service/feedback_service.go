package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/synahire/screening/internal/models"
)

// FeedbackRepositoryForService provides the feedback persistence operations
// needed by the FeedbackService.
type FeedbackRepositoryForService interface {
	Create(ctx context.Context, f *models.Feedback) error
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.Feedback, error)
	AggregateByCandidate(ctx context.Context, candidateID uuid.UUID) (meanRating float64, count int, err error)
}

// CandidateLookup verifies a candidate exists before feedback is attached.
type CandidateLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error)
}

// FeedbackService records interviewer feedback and aggregates it into the
// optional scoring signal consumed by rescoring.
type FeedbackService struct {
	repo       FeedbackRepositoryForService
	candidates CandidateLookup
	logger     *slog.Logger
}

// NewFeedbackService creates a FeedbackService. logger may be nil (slog default).
func NewFeedbackService(repo FeedbackRepositoryForService, candidates CandidateLookup, logger *slog.Logger) *FeedbackService {
	if logger == nil {
		logger = slog.Default()
	}

	return &FeedbackService{repo: repo, candidates: candidates, logger: logger}
}

// Record validates the candidate exists and persists the feedback.
func (s *FeedbackService) Record(ctx context.Context, req models.CreateFeedbackRequest) (*models.Feedback, error) {
	if _, err := s.candidates.GetByID(ctx, req.CandidateID); err != nil {
		return nil, fmt.Errorf("lookup candidate: %w", err)
	}

	feedback := &models.Feedback{
		ID:          uuid.Must(uuid.NewV7()),
		CandidateID: req.CandidateID,
		JobID:       req.JobID,
		Interviewer: req.Interviewer,
		Rating:      req.Rating,
		Decision:    models.FeedbackDecision(req.Decision),
		Notes:       req.Notes,
	}

	if err := s.repo.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	s.logger.Info("feedback recorded",
		"candidate_id", feedback.CandidateID,
		"job_id", feedback.JobID,
		"decision", feedback.Decision,
	)

	return feedback, nil
}

// ListByCandidate returns all feedback for a candidate, newest first.
func (s *FeedbackService) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.Feedback, error) {
	if _, err := s.candidates.GetByID(ctx, candidateID); err != nil {
		return nil, fmt.Errorf("lookup candidate: %w", err)
	}

	feedback, err := s.repo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	return feedback, nil
}

// Signal returns the candidate's aggregated feedback mapped to [0,1], or nil
// when no feedback exists yet. Ratings run 1..5, so the mean maps linearly
// via (mean-1)/4.
func (s *FeedbackService) Signal(ctx context.Context, candidateID uuid.UUID) (*float64, error) {
	mean, count, err := s.repo.AggregateByCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("aggregate feedback: %w", err)
	}

	if count == 0 {
		return nil, nil
	}

	signal := (mean - 1) / 4
	if signal < 0 {
		signal = 0
	} else if signal > 1 {
		signal = 1
	}

	return &signal, nil
}
