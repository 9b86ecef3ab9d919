package models

import (
	"time"

	"github.com/google/uuid"
)

// Job represents a job description. Read-only after creation.
type Job struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Description     string    `json:"description"`
	RequiredSkills  []string  `json:"required_skills"`
	PreferredSkills []string  `json:"preferred_skills,omitempty"`
	Seniority       string    `json:"seniority,omitempty"`
	Location        string    `json:"location,omitempty"`
	Embedding       []float32 `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateJobRequest represents the request to create a job.
type CreateJobRequest struct {
	Title           string   `json:"title" validate:"required,min=1,max=255"`
	Company         string   `json:"company" validate:"required,min=1,max=255"`
	Description     string   `json:"description" validate:"required,min=1"`
	RequiredSkills  []string `json:"required_skills" validate:"required,min=1,dive,min=1,max=100"`
	PreferredSkills []string `json:"preferred_skills,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Seniority       string   `json:"seniority,omitempty" validate:"omitempty,max=50"`
	Location        string   `json:"location,omitempty" validate:"omitempty,max=255"`
}

// ListJobsResponse represents the response for listing jobs.
type ListJobsResponse struct {
	Data   []Job `json:"data"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
