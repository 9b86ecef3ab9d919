package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/synahire/screening/internal/api/response"
	"github.com/synahire/screening/internal/api/validation"
	"github.com/synahire/screening/internal/models"
	"github.com/synahire/screening/internal/screenerrors"
	"github.com/synahire/screening/internal/service"
)

// ScreeningService defines the interface for screening operations.
type ScreeningService interface {
	ScreenResume(ctx context.Context, req service.ScreenRequest) (*service.ScreeningOutcome, error)
	Rescore(ctx context.Context, candidateID, jobID uuid.UUID) (*models.ScoreResult, error)
}

// ScreeningsHandler handles HTTP requests for screenings.
type ScreeningsHandler struct {
	service ScreeningService
}

// NewScreeningsHandler creates a new screenings handler.
func NewScreeningsHandler(service ScreeningService) *ScreeningsHandler {
	return &ScreeningsHandler{service: service}
}

// Create handles POST /v1/screenings: runs the full pipeline for one resume.
func (h *ScreeningsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.ScreenRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")

		return
	}

	if err := validation.ValidateStruct(req); err != nil {
		validation.RespondValidationError(w, err)

		return
	}

	outcome, err := h.service.ScreenResume(r.Context(), req)
	if err != nil {
		h.respondScreeningError(w, err)

		return
	}

	response.RespondJSON(w, http.StatusCreated, outcome)
}

// RescoreRequest is the body for POST /v1/screenings/rescore.
type RescoreRequest struct {
	CandidateID uuid.UUID `json:"candidate_id" validate:"required"`
	JobID       uuid.UUID `json:"job_id" validate:"required"`
}

// Rescore handles POST /v1/screenings/rescore: recomputes a stored candidate's
// score against a job, blending in aggregated interviewer feedback.
func (h *ScreeningsHandler) Rescore(w http.ResponseWriter, r *http.Request) {
	var req RescoreRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")

		return
	}

	if err := validation.ValidateStruct(req); err != nil {
		validation.RespondValidationError(w, err)

		return
	}

	result, err := h.service.Rescore(r.Context(), req.CandidateID, req.JobID)
	if err != nil {
		h.respondScreeningError(w, err)

		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

func (h *ScreeningsHandler) respondScreeningError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, screenerrors.ErrNotFound):
		response.RespondNotFound(w, err.Error())
	case errors.Is(err, screenerrors.ErrConflict):
		response.RespondConflict(w, "Candidate already exists")
	case errors.Is(err, service.ErrMissingEmail):
		response.RespondBadRequest(w, "No email address found in resume text")
	case errors.Is(err, screenerrors.ErrEmbeddingUnavailable):
		response.RespondBadGateway(w, "Embedding provider unavailable")
	default:
		response.RespondInternalServerError(w, "Screening failed")
	}
}
