package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synahire/screening/internal/models"
	"github.com/synahire/screening/internal/screenerrors"
)

type mockFeedbackRepo struct {
	createFunc    func(ctx context.Context, f *models.Feedback) error
	listFunc      func(ctx context.Context, candidateID uuid.UUID) ([]models.Feedback, error)
	aggregateFunc func(ctx context.Context, candidateID uuid.UUID) (float64, int, error)
}

func (m *mockFeedbackRepo) Create(ctx context.Context, f *models.Feedback) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, f)
	}

	return nil
}

func (m *mockFeedbackRepo) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.Feedback, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, candidateID)
	}

	return nil, nil
}

func (m *mockFeedbackRepo) AggregateByCandidate(ctx context.Context, candidateID uuid.UUID) (float64, int, error) {
	if m.aggregateFunc != nil {
		return m.aggregateFunc(ctx, candidateID)
	}

	return 0, 0, nil
}

type mockCandidateLookup struct {
	getFunc func(ctx context.Context, id uuid.UUID) (*models.Candidate, error)
}

func (m *mockCandidateLookup) GetByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}

	return &models.Candidate{ID: id}, nil
}

func TestFeedbackService_Record(t *testing.T) {
	ctx := context.Background()

	req := models.CreateFeedbackRequest{
		CandidateID: uuid.Must(uuid.NewV7()),
		JobID:       uuid.Must(uuid.NewV7()),
		Interviewer: "sam",
		Rating:      4,
		Decision:    "hire",
	}

	t.Run("persists feedback for an existing candidate", func(t *testing.T) {
		var created *models.Feedback

		repo := &mockFeedbackRepo{
			createFunc: func(_ context.Context, f *models.Feedback) error {
				created = f

				return nil
			},
		}
		svc := NewFeedbackService(repo, &mockCandidateLookup{}, nil)

		feedback, err := svc.Record(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, req.CandidateID, feedback.CandidateID)
		assert.Equal(t, models.DecisionHire, feedback.Decision)
		assert.NotEqual(t, uuid.Nil, feedback.ID)
	})

	t.Run("unknown candidate is rejected", func(t *testing.T) {
		lookup := &mockCandidateLookup{
			getFunc: func(_ context.Context, _ uuid.UUID) (*models.Candidate, error) {
				return nil, screenerrors.NewNotFoundError("candidate", "candidate not found")
			},
		}
		svc := NewFeedbackService(&mockFeedbackRepo{}, lookup, nil)

		_, err := svc.Record(ctx, req)

		require.Error(t, err)
		assert.ErrorIs(t, err, screenerrors.ErrNotFound)
	})
}

func TestFeedbackService_Signal(t *testing.T) {
	ctx := context.Background()
	candidateID := uuid.Must(uuid.NewV7())

	tests := []struct {
		name  string
		mean  float64
		count int
		want  *float64
	}{
		{"no feedback yields nil", 0, 0, nil},
		{"minimum rating maps to 0", 1, 3, ptrFloat(0)},
		{"maximum rating maps to 1", 5, 2, ptrFloat(1)},
		{"midpoint rating maps to 0.5", 3, 4, ptrFloat(0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockFeedbackRepo{
				aggregateFunc: func(_ context.Context, _ uuid.UUID) (float64, int, error) {
					return tt.mean, tt.count, nil
				},
			}
			svc := NewFeedbackService(repo, &mockCandidateLookup{}, nil)

			signal, err := svc.Signal(ctx, candidateID)
			require.NoError(t, err)

			if tt.want == nil {
				assert.Nil(t, signal)
			} else {
				require.NotNil(t, signal)
				assert.InDelta(t, *tt.want, *signal, 1e-9)
			}
		})
	}
}

func ptrFloat(v float64) *float64 {
	return &v
}
