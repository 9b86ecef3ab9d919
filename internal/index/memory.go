package index

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/synahire/screening/internal/screenerrors"
	"github.com/synahire/screening/pkg/vectors"
)

// MemoryIndex is an in-memory Index guarded by a RWMutex. Vectors are
// L2-normalized on insert so similarity reduces to a dot product at query
// time. Suitable as the live index in front of the persistent store and as
// the only index in tests and single-node deployments.
type MemoryIndex struct {
	dims int

	mu      sync.RWMutex
	entries map[uuid.UUID]*memoryEntry
	nextSeq uint64
}

type memoryEntry struct {
	vector []float32 // unit length
	seq    uint64    // insertion order, kept across upserts of the same id
}

// NewMemoryIndex creates an empty index for vectors of the given dimension.
func NewMemoryIndex(dims int) *MemoryIndex {
	return &MemoryIndex{
		dims:    dims,
		entries: make(map[uuid.UUID]*memoryEntry),
	}
}

// Upsert inserts or replaces the vector for id. Replacing keeps the id's
// original insertion order. The input slice is copied; callers may reuse it.
func (m *MemoryIndex) Upsert(_ context.Context, id uuid.UUID, vector []float32) error {
	if len(vector) != m.dims {
		return screenerrors.NewDimensionMismatchError(len(vector), m.dims)
	}

	normalized := make([]float32, len(vector))
	copy(normalized, vector)
	vectors.NormalizeL2(normalized)

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.entries[id]; ok {
		existing.vector = normalized

		return nil
	}

	m.entries[id] = &memoryEntry{vector: normalized, seq: m.nextSeq}
	m.nextSeq++

	return nil
}

// QueryTopK returns up to k entries ordered by descending similarity.
// IDs in excludeIDs are skipped. Read-only; safe for concurrent use.
func (m *MemoryIndex) QueryTopK(
	_ context.Context, vector []float32, k int, excludeIDs map[uuid.UUID]struct{},
) ([]Entry, error) {
	if len(vector) != m.dims {
		return nil, screenerrors.NewDimensionMismatchError(len(vector), m.dims)
	}

	if k <= 0 {
		return nil, nil
	}

	query := make([]float32, len(vector))
	copy(query, vector)
	vectors.NormalizeL2(query)

	type scored struct {
		Entry
		seq uint64
	}

	m.mu.RLock()

	candidates := make([]scored, 0, len(m.entries))

	for id, entry := range m.entries {
		if _, skip := excludeIDs[id]; skip {
			continue
		}

		candidates = append(candidates, scored{
			Entry: Entry{ID: id, Score: dot(query, entry.vector)},
			seq:   entry.seq,
		})
	}

	m.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		di := candidates[i].Score - candidates[j].Score
		if di > scoreEpsilon {
			return true
		}

		if di < -scoreEpsilon {
			return false
		}

		return candidates[i].seq < candidates[j].seq
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	results := make([]Entry, len(candidates))
	for i := range candidates {
		results[i] = candidates[i].Entry
	}

	return results, nil
}

// VectorByCandidateID returns a copy of the stored (normalized) vector for
// id, or ErrVectorNotFound. Not part of the core Index contract; used by the
// similarity service to answer "similar to candidate X" without re-embedding.
func (m *MemoryIndex) VectorByCandidateID(_ context.Context, id uuid.UUID) ([]float32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[id]
	if !ok {
		return nil, ErrVectorNotFound
	}

	out := make([]float32, len(entry.vector))
	copy(out, entry.vector)

	return out, nil
}

// Len returns the number of stored vectors.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// dot returns the dot product of two equal-length vectors. Inputs are unit
// length, so this is the cosine similarity.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}

	return sum
}
