// Package index provides vector storage and top-k cosine similarity queries
// for candidate embeddings.
package index

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Entry is one result from a top-k query: a stored candidate ID and its
// cosine similarity to the query vector.
type Entry struct {
	ID    uuid.UUID
	Score float64 // cosine similarity, -1..1
}

// Index stores (id, vector) pairs and answers top-k similarity queries.
//
// Contract:
//   - Upsert replaces the vector for an existing id and keeps the id's
//     original insertion order, so tie-breaking stays stable across updates.
//   - QueryTopK returns up to k entries ordered by descending cosine
//     similarity. Scores equal within 1e-6 are ordered by ascending insertion
//     order, guaranteeing a total order and reproducible results. Fewer than
//     k stored vectors is not an error.
//   - Both operations return *screenerrors.DimensionMismatchError when the
//     vector length does not match the configured dimension, and a failed
//     call leaves index state unchanged.
//   - Implementations must support concurrent readers and writers; an upsert
//     for a given id is atomic with respect to queries.
type Index interface {
	Upsert(ctx context.Context, id uuid.UUID, vector []float32) error
	QueryTopK(ctx context.Context, vector []float32, k int, excludeIDs map[uuid.UUID]struct{}) ([]Entry, error)
}

// ErrVectorNotFound is returned by vector lookups when no vector is stored
// for the given candidate.
var ErrVectorNotFound = errors.New("vector not found for candidate")

// scoreEpsilon is the tolerance within which two similarity scores are
// considered tied and ordered by insertion order instead.
const scoreEpsilon = 1e-6
