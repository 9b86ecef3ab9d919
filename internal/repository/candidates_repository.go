// Package repository provides data access for candidates, jobs, and feedback.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/synahire/screening/internal/models"
	"github.com/synahire/screening/internal/screenerrors"
)

// CandidatesRepository handles data access for the candidates table.
type CandidatesRepository struct {
	db *pgxpool.Pool
}

// NewCandidatesRepository creates a new candidates repository.
func NewCandidatesRepository(db *pgxpool.Pool) *CandidatesRepository {
	return &CandidatesRepository{db: db}
}

const candidateColumns = `id, name, email, phone, resume_text, resume_hash, skills, available, enthusiasm, created_at, updated_at`

// Create inserts a new candidate. The embedding vector is stored separately
// in the vector index, not on this table.
func (r *CandidatesRepository) Create(ctx context.Context, c *models.Candidate) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO candidates (id, name, email, phone, resume_text, resume_hash, skills, available, enthusiasm, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.Name, c.Email, c.Phone, c.ResumeText, c.ResumeHash, c.Skills, c.Available, c.Enthusiasm, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("candidate insert: %w", err)
	}

	return nil
}

// GetByID returns the candidate with the given id, or
// *screenerrors.NotFoundError when none exists.
func (r *CandidatesRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)

	c, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, screenerrors.NewNotFoundError("candidate", "")
		}

		return nil, fmt.Errorf("get candidate: %w", err)
	}

	return c, nil
}

// List returns candidates ordered by creation time, newest first.
func (r *CandidatesRepository) List(ctx context.Context, limit, offset int) ([]models.Candidate, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM candidates`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count candidates: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list candidates: %w", err)
	}

	defer rows.Close()

	var candidates []models.Candidate

	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan candidate: %w", err)
		}

		candidates = append(candidates, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating candidates: %w", err)
	}

	return candidates, total, nil
}

// FindDuplicates returns existing candidates that share the given email,
// phone, or resume hash. Used by the uniqueness check before screening.
func (r *CandidatesRepository) FindDuplicates(
	ctx context.Context, email string, phone *string, resumeHash string,
) ([]models.Candidate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+candidateColumns+` FROM candidates
		WHERE email = $1 OR resume_hash = $2 OR ($3::text IS NOT NULL AND phone = $3)`,
		email, resumeHash, phone)
	if err != nil {
		return nil, fmt.Errorf("find duplicate candidates: %w", err)
	}

	defer rows.Close()

	var duplicates []models.Candidate

	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan duplicate candidate: %w", err)
		}

		duplicates = append(duplicates, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicates: %w", err)
	}

	return duplicates, nil
}

// ResumeTextByID returns the raw resume text for a candidate, for re-embedding
// during index backfill.
func (r *CandidatesRepository) ResumeTextByID(ctx context.Context, id uuid.UUID) (string, error) {
	var text string

	err := r.db.QueryRow(ctx, `SELECT resume_text FROM candidates WHERE id = $1`, id).Scan(&text)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", screenerrors.NewNotFoundError("candidate", "")
		}

		return "", fmt.Errorf("get resume text: %w", err)
	}

	return text, nil
}

func scanCandidate(row pgx.Row) (*models.Candidate, error) {
	var c models.Candidate

	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.ResumeText, &c.ResumeHash,
		&c.Skills, &c.Available, &c.Enthusiasm, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &c, nil
}
