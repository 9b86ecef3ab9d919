package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/synahire/screening/internal/api/response"
	"github.com/synahire/screening/internal/models"
	"github.com/synahire/screening/internal/service"
)

// SimilarityService defines the interface for similar-candidate retrieval.
type SimilarityService interface {
	SearchByText(ctx context.Context, query string, topK int) ([]models.SimilarityMatch, error)
	SearchByVector(ctx context.Context, vector []float32, topK int) ([]models.SimilarityMatch, error)
	SimilarToCandidate(ctx context.Context, candidateID uuid.UUID, topK int) ([]models.SimilarityMatch, error)
}

// SimilarityHandler handles HTTP requests for similar-candidate retrieval.
type SimilarityHandler struct {
	service SimilarityService
}

// NewSimilarityHandler creates a new similarity handler.
func NewSimilarityHandler(service SimilarityService) *SimilarityHandler {
	return &SimilarityHandler{service: service}
}

// SimilarSearchRequest is the body for POST /v1/candidates/search/similar.
// Exactly one of query or vector must be set.
type SimilarSearchRequest struct {
	Query  string    `json:"query,omitempty"`
	Vector []float32 `json:"vector,omitempty"`
	TopK   int       `json:"top_k,omitempty"`
}

// SimilarSearchResponse is the response for both similarity endpoints.
type SimilarSearchResponse struct {
	Results []models.SimilarityMatch `json:"results"`
}

const (
	defaultTopK = 10
	maxTopK     = 100
)

// Search handles POST /v1/candidates/search/similar.
func (h *SimilarityHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SimilarSearchRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")

		return
	}

	if req.Query != "" && len(req.Vector) > 0 {
		response.RespondBadRequest(w, "Provide either query or vector, not both")

		return
	}

	topK := clampTopK(req.TopK)

	var (
		matches []models.SimilarityMatch
		err     error
	)

	if len(req.Vector) > 0 {
		matches, err = h.service.SearchByVector(r.Context(), req.Vector, topK)
	} else {
		matches, err = h.service.SearchByText(r.Context(), req.Query, topK)
	}

	if err != nil {
		h.respondSearchError(w, err)

		return
	}

	response.RespondJSON(w, http.StatusOK, SimilarSearchResponse{Results: matches})
}

// SimilarToCandidate handles GET /v1/candidates/{id}/similar.
func (h *SimilarityHandler) SimilarToCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDPathValue(w, r, "Invalid candidate ID")
	if !ok {
		return
	}

	topK := defaultTopK
	if s := r.URL.Query().Get("top_k"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			topK = min(n, maxTopK)
		}
	}

	matches, err := h.service.SimilarToCandidate(r.Context(), id, topK)
	if err != nil {
		if errors.Is(err, service.ErrVectorNotFound) {
			response.RespondNotFound(w, "Candidate has no stored vector")

			return
		}

		h.respondSearchError(w, err)

		return
	}

	response.RespondJSON(w, http.StatusOK, SimilarSearchResponse{Results: matches})
}

func (h *SimilarityHandler) respondSearchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyQuery):
		response.RespondBadRequest(w, "query is required and must be non-empty")
	case errors.Is(err, service.ErrInvalidTopK):
		response.RespondBadRequest(w, "top_k must be positive")
	default:
		response.RespondInternalServerError(w, "Search failed")
	}
}

func clampTopK(topK int) int {
	if topK <= 0 {
		return defaultTopK
	}

	return min(topK, maxTopK)
}
