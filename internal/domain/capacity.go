package domain

import (
	"time"

	"github.com/google/uuid"
)

// CapacitySource which tier of the hierarchy produced a resolution
type CapacitySource string

const (
	SourceNone     CapacitySource = "none" // цель вне диапазона слота
	SourceOverride CapacitySource = "override"
	SourceMonthly  CapacitySource = "monthly"
	SourceDefault  CapacitySource = "default"
)

// Target a month, optionally narrowed to one date
type Target struct {
	Month Month
	Date  *time.Time
}

// MonthTarget targets a whole month
func MonthTarget(m Month) Target {
	return Target{Month: m}
}

// DateTarget targets a single date
func DateTarget(date time.Time) Target {
	d := DateOnly(date)
	return Target{Month: MonthOf(d), Date: &d}
}

// IsDate returns true for a date-granular target
func (t Target) IsDate() bool {
	return t.Date != nil
}

func (t Target) String() string {
	if t.Date != nil {
		return t.Date.Format(DateFormat)
	}
	return t.Month.String()
}

// Resolution effective capacity and booked count for one target
type Resolution struct {
	Capacity    int
	BookedCount int
	Available   int
	IsAvailable bool
	Source      CapacitySource
	OverrideID  *uuid.UUID
}

// Resolve applies the override -> monthly -> default precedence.
// Чистая функция: ничего не меняет в слоте.
// Месячная цель override не учитывает, они действуют на уровне дней.
func Resolve(slot *TimeSlot, target Target) Resolution {
	if slot == nil || !slot.Covers(target.Month) {
		return Resolution{Source: SourceNone}
	}

	if target.Date != nil {
		if i := slot.overrideFor(*target.Date); i >= 0 {
			o := slot.CapacityOverrides[i]
			id := o.ID
			return newResolution(o.Capacity, o.BookedCount, SourceOverride, &id)
		}
	}

	if i := slot.MonthlyCapacityFor(target.Month); i >= 0 {
		mc := slot.MonthlyCapacities[i]
		return newResolution(mc.Capacity, mc.BookedCount, SourceMonthly, nil)
	}

	return newResolution(slot.DefaultCapacity, 0, SourceDefault, nil)
}

func newResolution(capacity, booked int, source CapacitySource, overrideID *uuid.UUID) Resolution {
	available := capacity - booked
	if available < 0 {
		available = 0
	}
	return Resolution{
		Capacity:    capacity,
		BookedCount: booked,
		Available:   available,
		IsAvailable: available > 0,
		Source:      source,
		OverrideID:  overrideID,
	}
}
