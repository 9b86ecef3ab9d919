package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/synahire/screening/internal/models"
)

// SchedulingStatus is the outcome of a scheduling attempt.
type SchedulingStatus string

// Scheduling outcomes.
const (
	SchedulingScheduled SchedulingStatus = "scheduled"
	SchedulingSkipped   SchedulingStatus = "skipped"
)

// SchedulingResult describes whether a mock interview was booked and when.
type SchedulingResult struct {
	Status SchedulingStatus `json:"status"`
	Time   *time.Time       `json:"time,omitempty"`
	Reason string           `json:"reason,omitempty"`
}

// SchedulingService books mock interview slots for non-Drop candidates.
// Slots are derived deterministically from the candidate id so repeated
// screenings of the same candidate propose the same slot.
type SchedulingService struct {
	now func() time.Time

	mu     sync.Mutex
	booked map[uuid.UUID]time.Time
}

// NewSchedulingService creates a SchedulingService. now may be nil (time.Now).
func NewSchedulingService(now func() time.Time) *SchedulingService {
	if now == nil {
		now = time.Now
	}

	return &SchedulingService{
		now:    now,
		booked: make(map[uuid.UUID]time.Time),
	}
}

const (
	firstSlotHour = 9  // 09:00
	lastSlotHour  = 16 // last slot starts 16:00
	maxDaysOut    = 5
)

// ScheduleInterview books a slot for the candidate unless the tier is Drop.
// The slot lands 1 to 5 days out at a whole hour between 09:00 and 16:00,
// both derived from the candidate id.
func (s *SchedulingService) ScheduleInterview(candidateID uuid.UUID, tier models.Tier) SchedulingResult {
	if tier == models.TierDrop {
		return SchedulingResult{
			Status: SchedulingSkipped,
			Reason: "low match score or red flags",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slot, ok := s.booked[candidateID]; ok {
		return SchedulingResult{Status: SchedulingScheduled, Time: &slot}
	}

	seed := int(candidateID[0])<<8 | int(candidateID[1])
	daysOut := 1 + seed%maxDaysOut
	hour := firstSlotHour + (seed/maxDaysOut)%(lastSlotHour-firstSlotHour+1)

	day := s.now().AddDate(0, 0, daysOut)
	slot := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())

	s.booked[candidateID] = slot

	return SchedulingResult{Status: SchedulingScheduled, Time: &slot}
}
