package domain

import (
	"time"

	"github.com/google/uuid"
)

// SlotStatus represents the status of a time slot
type SlotStatus string

const (
	SlotStatusOpen      SlotStatus = "open"
	SlotStatusFilled    SlotStatus = "filled"
	SlotStatusClosed    SlotStatus = "closed"
	SlotStatusCancelled SlotStatus = "cancelled"
)

// IsValid returns true for a known status
func (s SlotStatus) IsValid() bool {
	switch s {
	case SlotStatusOpen, SlotStatusFilled, SlotStatusClosed, SlotStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that automatic rules never leave
func (s SlotStatus) IsTerminal() bool {
	return s == SlotStatusClosed || s == SlotStatusCancelled
}

// TimeSlot a month-bounded capacity pool of an opportunity
type TimeSlot struct {
	ID              uuid.UUID
	OpportunityID   int64
	StartMonth      Month
	EndMonth        Month
	DefaultCapacity int
	MinimumStay     int // дней, только отображается заявителю
	Description     *string
	AppliedCount    int
	ConfirmedCount  int
	Status          SlotStatus

	CapacityOverrides []CapacityOverride
	MonthlyCapacities []MonthlyCapacity

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CapacityOverride date sub-range with its own capacity and booked counter
type CapacityOverride struct {
	ID          uuid.UUID
	StartDate   time.Time
	EndDate     time.Time
	Capacity    int
	BookedCount int
	Position    int // порядок добавления, больше = новее
}

// Contains reports whether date lies in [StartDate, EndDate]
func (o *CapacityOverride) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(o.StartDate) && !d.After(o.EndDate)
}

// MonthlyCapacity per-month capacity with its booked counter
type MonthlyCapacity struct {
	Month       Month
	Capacity    int
	BookedCount int
}

// Covers reports whether the month is inside [StartMonth, EndMonth]
func (s *TimeSlot) Covers(m Month) bool {
	return !m.Before(s.StartMonth) && !m.After(s.EndMonth)
}

// Months enumerates the slot's months
func (s *TimeSlot) Months() ([]Month, error) {
	return MonthRange(s.StartMonth, s.EndMonth)
}

// MonthlyCapacityFor returns the index of the monthly entry or -1
func (s *TimeSlot) MonthlyCapacityFor(m Month) int {
	for i := range s.MonthlyCapacities {
		if s.MonthlyCapacities[i].Month == m {
			return i
		}
	}
	return -1
}

// OverrideByID returns the index of the override or -1
func (s *TimeSlot) OverrideByID(id uuid.UUID) int {
	for i := range s.CapacityOverrides {
		if s.CapacityOverrides[i].ID == id {
			return i
		}
	}
	return -1
}

// overrideFor picks the override governing a date, -1 if none
// Пересекающиеся override: побеждает наименьшая ёмкость, при равенстве - более новый (Position)
func (s *TimeSlot) overrideFor(date time.Time) int {
	best := -1
	for i := range s.CapacityOverrides {
		o := &s.CapacityOverrides[i]
		if !o.Contains(date) {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		cur := &s.CapacityOverrides[best]
		if o.Capacity < cur.Capacity || (o.Capacity == cur.Capacity && o.Position > cur.Position) {
			best = i
		}
	}
	return best
}

// IsBookable returns true if the slot accepts new bookings
// FILLED слот остаётся бронируемым: лимит проверяется на уровне месяца/override
func (s *TimeSlot) IsBookable() bool {
	return s.Status == SlotStatusOpen || s.Status == SlotStatusFilled
}

// IsOpen returns true if the slot counts towards opportunity-level availability
func (s *TimeSlot) IsOpen() bool {
	return s.Status == SlotStatusOpen
}

// HasBookings returns true if any counter holds bookings
func (s *TimeSlot) HasBookings() bool {
	return s.AppliedCount > 0
}

// Refresh re-derives the status from counts and time
func (s *TimeSlot) Refresh(now time.Time) bool {
	next := DeriveStatus(s.Status, s.AppliedCount, s.DefaultCapacity, s.EndMonth, now)
	changed := next != s.Status
	s.Status = next
	return changed
}

// Cancel moves the slot to CANCELLED (administrative action)
func (s *TimeSlot) Cancel(now time.Time) {
	s.Status = SlotStatusCancelled
	s.UpdatedAt = now
}

// SlotKey addresses a slot inside its opportunity
type SlotKey struct {
	OpportunityID int64
	TimeSlotID    uuid.UUID
}
