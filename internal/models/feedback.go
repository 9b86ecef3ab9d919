package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackDecision is the interviewer's recommendation.
type FeedbackDecision string

// Feedback decisions.
const (
	DecisionHire FeedbackDecision = "hire"
	DecisionHold FeedbackDecision = "hold"
	DecisionDrop FeedbackDecision = "drop"
)

// Feedback is one interviewer feedback record for a candidate/job pair.
type Feedback struct {
	ID          uuid.UUID        `json:"id"`
	CandidateID uuid.UUID        `json:"candidate_id"`
	JobID       uuid.UUID        `json:"job_id"`
	Interviewer string           `json:"interviewer"`
	Rating      float64          `json:"rating"` // 1.0 .. 5.0
	Decision    FeedbackDecision `json:"decision"`
	Notes       *string          `json:"notes,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// CreateFeedbackRequest represents the request to record interviewer feedback.
type CreateFeedbackRequest struct {
	CandidateID uuid.UUID `json:"candidate_id" validate:"required"`
	JobID       uuid.UUID `json:"job_id" validate:"required"`
	Interviewer string    `json:"interviewer" validate:"required,min=1,max=255"`
	Rating      float64   `json:"rating" validate:"required,min=1,max=5"`
	Decision    string    `json:"decision" validate:"required,oneof=hire hold drop"`
	Notes       *string   `json:"notes,omitempty" validate:"omitempty,max=10000"`
}
