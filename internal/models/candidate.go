package models

import (
	"time"

	"github.com/google/uuid"
)

// Candidate represents a screened candidate. Immutable once scored, except
// for appended feedback records.
type Candidate struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone,omitempty"`
	ResumeText string    `json:"resume_text"`
	ResumeHash string    `json:"resume_hash"`
	Skills     []string  `json:"skills"`
	Available  bool      `json:"available"`
	Enthusiasm float64   `json:"enthusiasm"` // 0..1
	Embedding  []float32 `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FeedbackSignal is the aggregated interviewer feedback for a candidate,
// normalized to [0,1]. Nil when no feedback has been recorded yet.
type FeedbackSignal struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Score       float64   `json:"score"` // mean rating mapped to 0..1
	Count       int       `json:"count"`
}

// ListCandidatesFilters represents pagination for listing candidates.
type ListCandidatesFilters struct {
	Limit  int `form:"limit" validate:"omitempty,min=1,max=1000"`
	Offset int `form:"offset" validate:"omitempty,min=0,max=2147483647"`
}

// ListCandidatesResponse represents the response for listing candidates.
type ListCandidatesResponse struct {
	Data   []Candidate `json:"data"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}
