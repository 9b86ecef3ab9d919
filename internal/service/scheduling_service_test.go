package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synahire/screening/internal/models"
)

func fixedNow() time.Time {
	return time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
}

func TestSchedulingService_ScheduleInterview(t *testing.T) {
	t.Run("drop tier is skipped", func(t *testing.T) {
		svc := NewSchedulingService(fixedNow)

		result := svc.ScheduleInterview(uuid.Must(uuid.NewV7()), models.TierDrop)

		assert.Equal(t, SchedulingSkipped, result.Status)
		assert.Nil(t, result.Time)
		assert.NotEmpty(t, result.Reason)
	})

	t.Run("strong tier gets a slot within the window", func(t *testing.T) {
		svc := NewSchedulingService(fixedNow)

		result := svc.ScheduleInterview(uuid.Must(uuid.NewV7()), models.TierStrong)

		require.Equal(t, SchedulingScheduled, result.Status)
		require.NotNil(t, result.Time)

		slot := *result.Time
		assert.True(t, slot.After(fixedNow()), "slot must be in the future")
		assert.LessOrEqual(t, slot.Sub(fixedNow()), 6*24*time.Hour)
		assert.GreaterOrEqual(t, slot.Hour(), 9)
		assert.LessOrEqual(t, slot.Hour(), 16)
		assert.Zero(t, slot.Minute())
	})

	t.Run("optional tier is scheduled too", func(t *testing.T) {
		svc := NewSchedulingService(fixedNow)

		result := svc.ScheduleInterview(uuid.Must(uuid.NewV7()), models.TierOptional)

		assert.Equal(t, SchedulingScheduled, result.Status)
	})

	t.Run("repeat scheduling returns the same slot", func(t *testing.T) {
		svc := NewSchedulingService(fixedNow)
		id := uuid.Must(uuid.NewV7())

		first := svc.ScheduleInterview(id, models.TierStrong)
		second := svc.ScheduleInterview(id, models.TierStrong)

		require.NotNil(t, first.Time)
		require.NotNil(t, second.Time)
		assert.Equal(t, *first.Time, *second.Time)
	})

	t.Run("slot is deterministic per candidate id", func(t *testing.T) {
		id := uuid.Must(uuid.NewV7())

		first := NewSchedulingService(fixedNow).ScheduleInterview(id, models.TierStrong)
		second := NewSchedulingService(fixedNow).ScheduleInterview(id, models.TierStrong)

		require.NotNil(t, first.Time)
		require.NotNil(t, second.Time)
		assert.Equal(t, *first.Time, *second.Time)
	})
}
