package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/synahire/screening/internal/api/response"
	"github.com/synahire/screening/internal/api/validation"
	"github.com/synahire/screening/internal/models"
	"github.com/synahire/screening/internal/screenerrors"
)

// CandidatesRepository defines the read operations needed by the handler.
type CandidatesRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error)
	List(ctx context.Context, limit, offset int) ([]models.Candidate, int64, error)
}

// CandidatesHandler handles HTTP requests for candidates.
type CandidatesHandler struct {
	repo CandidatesRepository
}

// NewCandidatesHandler creates a new candidates handler.
func NewCandidatesHandler(repo CandidatesRepository) *CandidatesHandler {
	return &CandidatesHandler{repo: repo}
}

// Get handles GET /v1/candidates/{id}.
func (h *CandidatesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDPathValue(w, r, "Invalid candidate ID")
	if !ok {
		return
	}

	candidate, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, screenerrors.ErrNotFound) {
			response.RespondNotFound(w, "Candidate not found")

			return
		}

		response.RespondInternalServerError(w, "Failed to get candidate")

		return
	}

	response.RespondJSON(w, http.StatusOK, candidate)
}

// List handles GET /v1/candidates.
func (h *CandidatesHandler) List(w http.ResponseWriter, r *http.Request) {
	var filters models.ListCandidatesFilters
	if err := validation.ValidateAndDecodeQueryParams(r, &filters); err != nil {
		validation.RespondValidationError(w, err)

		return
	}

	if filters.Limit == 0 {
		filters.Limit = defaultListLimit
	}

	candidates, total, err := h.repo.List(r.Context(), filters.Limit, filters.Offset)
	if err != nil {
		response.RespondInternalServerError(w, "Failed to list candidates")

		return
	}

	response.RespondJSON(w, http.StatusOK, models.ListCandidatesResponse{
		Data:   candidates,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}
