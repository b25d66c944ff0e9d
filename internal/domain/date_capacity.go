package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateCapacity index row: one per (opportunity, time slot, month)
type DateCapacity struct {
	OpportunityID int64
	TimeSlotID    uuid.UUID
	Month         Month
	Capacity      int
	BookedCount   int
	UpdatedAt     time.Time
}

// Available free spots, never negative
func (d *DateCapacity) Available() int {
	if d.BookedCount >= d.Capacity {
		return 0
	}
	return d.Capacity - d.BookedCount
}

// SlotAvailability contribution of one slot to an aggregated month
type SlotAvailability struct {
	TimeSlotID  uuid.UUID
	Capacity    int
	BookedCount int
	Available   int
}

// MonthAvailability availability of one calendar month
type MonthAvailability struct {
	Month       Month
	Capacity    int
	BookedCount int
	Available   int
	IsAvailable bool
	Slots       []SlotAvailability
}

// EmptyMonth month with no capacity at all
func EmptyMonth(m Month) MonthAvailability {
	return MonthAvailability{Month: m}
}

// Add accumulates one slot's contribution
func (a *MonthAvailability) Add(slotID uuid.UUID, capacity, booked int) {
	available := capacity - booked
	if available < 0 {
		available = 0
	}
	a.Capacity += capacity
	a.BookedCount += booked
	a.Available += available
	a.IsAvailable = a.Available > 0
	a.Slots = append(a.Slots, SlotAvailability{
		TimeSlotID:  slotID,
		Capacity:    capacity,
		BookedCount: booked,
		Available:   available,
	})
}

// FromResolution month availability of a single slot
func FromResolution(m Month, r Resolution) MonthAvailability {
	return MonthAvailability{
		Month:       m,
		Capacity:    r.Capacity,
		BookedCount: r.BookedCount,
		Available:   r.Available,
		IsAvailable: r.IsAvailable,
	}
}
