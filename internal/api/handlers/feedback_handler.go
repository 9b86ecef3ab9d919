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
)

// FeedbackService defines the interface for interviewer feedback.
type FeedbackService interface {
	Record(ctx context.Context, req models.CreateFeedbackRequest) (*models.Feedback, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.Feedback, error)
}

// FeedbackHandler handles HTTP requests for interviewer feedback.
type FeedbackHandler struct {
	service FeedbackService
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(service FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

// Create handles POST /v1/feedback.
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFeedbackRequest

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

	feedback, err := h.service.Record(r.Context(), req)
	if err != nil {
		if errors.Is(err, screenerrors.ErrNotFound) {
			response.RespondNotFound(w, "Candidate not found")

			return
		}

		response.RespondInternalServerError(w, "Failed to record feedback")

		return
	}

	response.RespondJSON(w, http.StatusCreated, feedback)
}

// ListByCandidate handles GET /v1/candidates/{id}/feedback.
func (h *FeedbackHandler) ListByCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDPathValue(w, r, "Invalid candidate ID")
	if !ok {
		return
	}

	feedback, err := h.service.ListByCandidate(r.Context(), id)
	if err != nil {
		response.RespondInternalServerError(w, "Failed to list feedback")

		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]any{"data": feedback})
}
