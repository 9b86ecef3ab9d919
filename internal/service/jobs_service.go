package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/synahire/screening/internal/embeddings"
	"github.com/synahire/screening/internal/models"
)

// JobsRepositoryForService provides job persistence for the JobsService.
type JobsRepositoryForService interface {
	Create(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context, limit, offset int) ([]models.Job, int64, error)
}

// JobsService creates and reads jobs. The description embedding is computed
// once at creation; jobs are read-only afterwards.
type JobsService struct {
	repo     JobsRepositoryForService
	embedder embeddings.Client
	logger   *slog.Logger
}

// NewJobsService creates a JobsService. logger may be nil (slog default).
func NewJobsService(repo JobsRepositoryForService, embedder embeddings.Client, logger *slog.Logger) *JobsService {
	if logger == nil {
		logger = slog.Default()
	}

	return &JobsService{repo: repo, embedder: embedder, logger: logger}
}

// Create embeds the job description and persists the job.
func (s *JobsService) Create(ctx context.Context, req models.CreateJobRequest) (*models.Job, error) {
	embedding, err := s.embedder.CreateEmbedding(ctx, req.Description)
	if err != nil {
		return nil, fmt.Errorf("embed job description: %w", err)
	}

	job := &models.Job{
		ID:              uuid.Must(uuid.NewV7()),
		Title:           req.Title,
		Company:         req.Company,
		Description:     req.Description,
		RequiredSkills:  req.RequiredSkills,
		PreferredSkills: req.PreferredSkills,
		Seniority:       req.Seniority,
		Location:        req.Location,
		Embedding:       embedding,
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.logger.Info("job created", "job_id", job.ID, "title", job.Title)

	return job, nil
}

// GetByID returns the job with the given id.
func (s *JobsService) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	return job, nil
}

// List returns jobs, newest first.
func (s *JobsService) List(ctx context.Context, limit, offset int) ([]models.Job, int64, error) {
	jobs, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}

	return jobs, total, nil
}
