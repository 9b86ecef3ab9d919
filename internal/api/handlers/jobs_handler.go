// Package handlers contains the HTTP handlers for the screening API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/synahire/screening/internal/api/response"
	"github.com/synahire/screening/internal/api/validation"
	"github.com/synahire/screening/internal/models"
	"github.com/synahire/screening/internal/screenerrors"
)

// JobsService defines the interface for job operations.
type JobsService interface {
	Create(ctx context.Context, req models.CreateJobRequest) (*models.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context, limit, offset int) ([]models.Job, int64, error)
}

// JobsHandler handles HTTP requests for jobs.
type JobsHandler struct {
	service JobsService
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(service JobsService) *JobsHandler {
	return &JobsHandler{service: service}
}

// Create handles POST /v1/jobs.
func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateJobRequest

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

	job, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, screenerrors.ErrEmbeddingUnavailable) {
			response.RespondBadGateway(w, "Embedding provider unavailable")

			return
		}

		response.RespondInternalServerError(w, "Failed to create job")

		return
	}

	response.RespondJSON(w, http.StatusCreated, job)
}

// Get handles GET /v1/jobs/{id}.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDPathValue(w, r, "Invalid job ID")
	if !ok {
		return
	}

	job, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, screenerrors.ErrNotFound) {
			response.RespondNotFound(w, "Job not found")

			return
		}

		response.RespondInternalServerError(w, "Failed to get job")

		return
	}

	response.RespondJSON(w, http.StatusOK, job)
}

// List handles GET /v1/jobs.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	jobs, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		response.RespondInternalServerError(w, "Failed to list jobs")

		return
	}

	response.RespondJSON(w, http.StatusOK, models.ListJobsResponse{
		Data:   jobs,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

const (
	defaultListLimit = 50
	maxListLimit     = 1000
)

// parsePagination returns limit/offset query params with defaults and caps.
func parsePagination(r *http.Request) (limit, offset int) {
	limit = defaultListLimit

	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = min(n, maxListLimit)
		}
	}

	if s := r.URL.Query().Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			offset = n
		}
	}

	return limit, offset
}

// parseIDPathValue parses the {id} path segment as a UUID, writing a 400 on failure.
func parseIDPathValue(w http.ResponseWriter, r *http.Request, badRequestDetail string) (uuid.UUID, bool) {
	idStr := r.PathValue("id")
	if idStr == "" {
		response.RespondBadRequest(w, badRequestDetail)

		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		response.RespondBadRequest(w, badRequestDetail)

		return uuid.Nil, false
	}

	return id, true
}
