package domain

import "time"

// Opportunity a listing that owns time slots
type Opportunity struct {
	ID           int64
	HostID       int64
	HasTimeSlots bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Derive recomputes HasTimeSlots from the current slot count.
// Единственное место, где меняется HasTimeSlots.
func (o *Opportunity) Derive(slotCount int, now time.Time) bool {
	has := slotCount > 0
	if has == o.HasTimeSlots {
		return false
	}
	o.HasTimeSlots = has
	o.UpdatedAt = now
	return true
}
