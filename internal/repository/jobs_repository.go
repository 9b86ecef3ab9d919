package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/synahire/screening/internal/models"
	"github.com/synahire/screening/internal/screenerrors"
)

// JobsRepository handles data access for the jobs table. Jobs are read-only
// after creation; the description embedding is stored alongside the row so
// screening does not re-embed the job per candidate.
type JobsRepository struct {
	db *pgxpool.Pool
}

// NewJobsRepository creates a new jobs repository.
func NewJobsRepository(db *pgxpool.Pool) *JobsRepository {
	return &JobsRepository{db: db}
}

// Create inserts a new job with its description embedding.
func (r *JobsRepository) Create(ctx context.Context, j *models.Job) error {
	j.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, `
		INSERT INTO jobs (id, title, company, description, required_skills, preferred_skills, seniority, location, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		j.ID, j.Title, j.Company, j.Description, j.RequiredSkills, j.PreferredSkills,
		j.Seniority, j.Location, pgvector.NewVector(j.Embedding), j.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("job insert: %w", err)
	}

	return nil
}

// GetByID returns the job with the given id including its embedding, or
// *screenerrors.NotFoundError when none exists.
func (r *JobsRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var (
		j   models.Job
		vec pgvector.Vector
	)

	err := r.db.QueryRow(ctx, `
		SELECT id, title, company, description, required_skills, preferred_skills, seniority, location, embedding, created_at
		FROM jobs WHERE id = $1`, id).Scan(
		&j.ID, &j.Title, &j.Company, &j.Description, &j.RequiredSkills,
		&j.PreferredSkills, &j.Seniority, &j.Location, &vec, &j.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, screenerrors.NewNotFoundError("job", "")
		}

		return nil, fmt.Errorf("get job: %w", err)
	}

	j.Embedding = vec.Slice()

	return &j, nil
}

// List returns jobs ordered by creation time, newest first. Embeddings are
// not hydrated for listings.
func (r *JobsRepository) List(ctx context.Context, limit, offset int) ([]models.Job, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM jobs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, title, company, description, required_skills, preferred_skills, seniority, location, created_at
		FROM jobs ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}

	defer rows.Close()

	var jobs []models.Job

	for rows.Next() {
		var j models.Job

		err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.Description, &j.RequiredSkills,
			&j.PreferredSkills, &j.Seniority, &j.Location, &j.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scan job: %w", err)
		}

		jobs = append(jobs, j)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating jobs: %w", err)
	}

	return jobs, total, nil
}
