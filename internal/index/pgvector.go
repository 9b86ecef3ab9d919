package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/synahire/screening/internal/screenerrors"
)

// PgVectorIndex is an Index backed by a pgvector column on the
// candidate_vectors table. Cosine distance (<=>) orders results; score is
// 1 - distance remapped back to cosine similarity by the query. Insertion
// order is a bigserial seq column that is preserved on conflict, so
// tie-breaking matches the in-memory index.
type PgVectorIndex struct {
	db   *pgxpool.Pool
	dims int
}

// NewPgVectorIndex creates an index over the given pool. dims must match the
// vector(D) column; mismatched input vectors are rejected client-side so the
// typed error carries the configured dimension instead of a database error.
func NewPgVectorIndex(db *pgxpool.Pool, dims int) *PgVectorIndex {
	return &PgVectorIndex{db: db, dims: dims}
}

// Upsert inserts or replaces the vector for id. On conflict only the vector
// and updated_at change; seq keeps the original insertion order.
func (p *PgVectorIndex) Upsert(ctx context.Context, id uuid.UUID, vector []float32) error {
	if len(vector) != p.dims {
		return screenerrors.NewDimensionMismatchError(len(vector), p.dims)
	}

	vec := pgvector.NewVector(vector)
	now := time.Now()

	_, err := p.db.Exec(ctx, `
		INSERT INTO candidate_vectors (candidate_id, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (candidate_id)
		DO UPDATE SET embedding = EXCLUDED.embedding, updated_at = $3`,
		id, vec, now,
	)
	if err != nil {
		return fmt.Errorf("candidate vector upsert: %w", err)
	}

	return nil
}

// QueryTopK returns up to k entries by ascending cosine distance. Equal
// distances are ordered by seq (insertion order). IDs in excludeIDs are
// filtered out; the exclusion set is expected to be small (usually just the
// query candidate itself).
func (p *PgVectorIndex) QueryTopK(
	ctx context.Context, vector []float32, k int, excludeIDs map[uuid.UUID]struct{},
) ([]Entry, error) {
	if len(vector) != p.dims {
		return nil, screenerrors.NewDimensionMismatchError(len(vector), p.dims)
	}

	if k <= 0 {
		return nil, nil
	}

	queryVec := pgvector.NewVector(vector)

	excluded := make([]uuid.UUID, 0, len(excludeIDs))
	for id := range excludeIDs {
		excluded = append(excluded, id)
	}

	var (
		rows pgx.Rows
		err  error
	)

	if len(excluded) == 0 {
		rows, err = p.db.Query(ctx, `
			SELECT candidate_id, 1 - (embedding <=> $1) AS score
			FROM candidate_vectors
			ORDER BY embedding <=> $1, seq
			LIMIT $2`, queryVec, k)
	} else {
		rows, err = p.db.Query(ctx, `
			SELECT candidate_id, 1 - (embedding <=> $1) AS score
			FROM candidate_vectors
			WHERE candidate_id != ALL($2)
			ORDER BY embedding <=> $1, seq
			LIMIT $3`, queryVec, excluded, k)
	}

	if err != nil {
		return nil, fmt.Errorf("nearest candidate vectors: %w", err)
	}

	defer rows.Close()

	var results []Entry

	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Score); err != nil {
			return nil, fmt.Errorf("scan candidate vector: %w", err)
		}

		results = append(results, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nearest: %w", err)
	}

	return results, nil
}

// VectorByCandidateID returns the stored vector for id, or ErrVectorNotFound
// when the candidate has not been indexed yet.
func (p *PgVectorIndex) VectorByCandidateID(ctx context.Context, id uuid.UUID) ([]float32, error) {
	var vec pgvector.Vector

	err := p.db.QueryRow(ctx,
		`SELECT embedding FROM candidate_vectors WHERE candidate_id = $1`, id,
	).Scan(&vec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVectorNotFound
		}

		return nil, fmt.Errorf("get candidate vector: %w", err)
	}

	return vec.Slice(), nil
}

// MissingCandidateIDs returns IDs of candidates that have no row in
// candidate_vectors (so they need re-indexing, e.g. after a failed upsert).
func (p *PgVectorIndex) MissingCandidateIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	rows, err := p.db.Query(ctx, `
		SELECT c.id FROM candidates c
		WHERE NOT EXISTS (
		  SELECT 1 FROM candidate_vectors v WHERE v.candidate_id = c.id
		)
		ORDER BY c.created_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list candidates missing vectors: %w", err)
	}

	defer rows.Close()

	var ids []uuid.UUID

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan candidate id: %w", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating missing vector ids: %w", err)
	}

	return ids, nil
}
