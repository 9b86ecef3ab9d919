package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/synahire/screening/internal/models"
)

// FeedbackRepository handles data access for the interview_feedback table.
type FeedbackRepository struct {
	db *pgxpool.Pool
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts a new feedback record.
func (r *FeedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	f.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, `
		INSERT INTO interview_feedback (id, candidate_id, job_id, interviewer, rating, decision, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		f.ID, f.CandidateID, f.JobID, f.Interviewer, f.Rating, f.Decision, f.Notes, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("feedback insert: %w", err)
	}

	return nil
}

// ListByCandidate returns all feedback for a candidate, newest first.
func (r *FeedbackRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.Feedback, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, candidate_id, job_id, interviewer, rating, decision, notes, created_at
		FROM interview_feedback WHERE candidate_id = $1 ORDER BY created_at DESC`,
		candidateID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	defer rows.Close()

	var feedback []models.Feedback

	for rows.Next() {
		var f models.Feedback

		err := rows.Scan(&f.ID, &f.CandidateID, &f.JobID, &f.Interviewer,
			&f.Rating, &f.Decision, &f.Notes, &f.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}

		feedback = append(feedback, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feedback: %w", err)
	}

	return feedback, nil
}

// AggregateByCandidate returns the mean rating and count for a candidate.
// Count 0 means no feedback has been recorded yet.
func (r *FeedbackRepository) AggregateByCandidate(
	ctx context.Context, candidateID uuid.UUID,
) (meanRating float64, count int, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT coalesce(avg(rating), 0), count(*)
		FROM interview_feedback WHERE candidate_id = $1`,
		candidateID).Scan(&meanRating, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate feedback: %w", err)
	}

	return meanRating, count, nil
}
