package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SlotDefinition typed payload a host submits to create or edit a time slot
type SlotDefinition struct {
	StartMonth        Month
	EndMonth          Month
	DefaultCapacity   int
	MinimumStay       int
	Description       *string
	MonthlyCapacities []MonthlyCapacityInput
	CapacityOverrides []CapacityOverrideInput
}

// MonthlyCapacityInput host-adjusted allotment for one month
type MonthlyCapacityInput struct {
	Month    Month
	Capacity int
}

// CapacityOverrideInput date range with its own capacity
type CapacityOverrideInput struct {
	StartDate time.Time
	EndDate   time.Time
	Capacity  int
}

// Validate checks the definition before any store access
func (d *SlotDefinition) Validate() error {
	if d.StartMonth.IsZero() || d.EndMonth.IsZero() {
		return fmt.Errorf("%w: start and end month are required", ErrInvalidMonth)
	}
	if d.StartMonth.After(d.EndMonth) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidMonthRange, d.StartMonth, d.EndMonth)
	}
	if MonthsBetween(d.StartMonth, d.EndMonth) > MaxSlotMonths {
		return fmt.Errorf("%w: at most %d months", ErrSlotTooLong, MaxSlotMonths)
	}
	if err := validateCapacity(d.DefaultCapacity); err != nil {
		return fmt.Errorf("%w: defaultCapacity=%d", err, d.DefaultCapacity)
	}
	if d.MinimumStay < MinMinimumStayDays || d.MinimumStay > MaxMinimumStayDays {
		return fmt.Errorf("%w: minimumStay=%d", ErrInvalidMinimumStay, d.MinimumStay)
	}
	if d.Description != nil && len(*d.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	seen := make(map[Month]struct{}, len(d.MonthlyCapacities))
	for _, mc := range d.MonthlyCapacities {
		if mc.Month.Before(d.StartMonth) || mc.Month.After(d.EndMonth) {
			return fmt.Errorf("%w: %s", ErrMonthOutsideSlot, mc.Month)
		}
		if _, ok := seen[mc.Month]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateMonth, mc.Month)
		}
		seen[mc.Month] = struct{}{}
		if err := validateCapacity(mc.Capacity); err != nil {
			return fmt.Errorf("%w: month %s capacity=%d", err, mc.Month, mc.Capacity)
		}
	}

	if len(d.CapacityOverrides) > MaxCapacityOverrides {
		return fmt.Errorf("%w: at most %d", ErrTooManyOverrides, MaxCapacityOverrides)
	}
	slotStart, slotEnd := d.StartMonth.FirstDay(), d.EndMonth.LastDay()
	for _, o := range d.CapacityOverrides {
		start, end := DateOnly(o.StartDate), DateOnly(o.EndDate)
		if o.StartDate.IsZero() || o.EndDate.IsZero() {
			return fmt.Errorf("%w: override dates are required", ErrInvalidDate)
		}
		if start.After(end) {
			return fmt.Errorf("%w: %s > %s", ErrInvalidOverrideRange, start.Format(DateFormat), end.Format(DateFormat))
		}
		if start.Before(slotStart) || end.After(slotEnd) {
			return fmt.Errorf("%w: %s..%s", ErrOverrideOutsideSlot, start.Format(DateFormat), end.Format(DateFormat))
		}
		if err := validateCapacity(o.Capacity); err != nil {
			return fmt.Errorf("%w: override capacity=%d", err, o.Capacity)
		}
	}

	return nil
}

func validateCapacity(capacity int) error {
	if capacity < MinCapacity || capacity > MaxCapacity {
		return ErrInvalidCapacity
	}
	return nil
}

// monthlyCapacityFor capacity the definition assigns to a month
func (d *SlotDefinition) monthlyCapacityFor(m Month) int {
	for _, mc := range d.MonthlyCapacities {
		if mc.Month == m {
			return mc.Capacity
		}
	}
	return d.DefaultCapacity
}

// NewTimeSlot builds a fresh slot from a validated definition
func NewTimeSlot(opportunityID int64, def SlotDefinition, now time.Time) (*TimeSlot, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	months, err := MonthRange(def.StartMonth, def.EndMonth)
	if err != nil {
		return nil, err
	}

	monthly := make([]MonthlyCapacity, 0, len(months))
	for _, m := range months {
		monthly = append(monthly, MonthlyCapacity{Month: m, Capacity: def.monthlyCapacityFor(m)})
	}

	overrides := make([]CapacityOverride, 0, len(def.CapacityOverrides))
	for i, o := range def.CapacityOverrides {
		overrides = append(overrides, CapacityOverride{
			ID:        uuid.New(),
			StartDate: DateOnly(o.StartDate),
			EndDate:   DateOnly(o.EndDate),
			Capacity:  o.Capacity,
			Position:  i,
		})
	}

	slot := &TimeSlot{
		ID:                uuid.New(),
		OpportunityID:     opportunityID,
		StartMonth:        def.StartMonth,
		EndMonth:          def.EndMonth,
		DefaultCapacity:   def.DefaultCapacity,
		MinimumStay:       def.MinimumStay,
		Description:       def.Description,
		Status:            SlotStatusOpen,
		CapacityOverrides: overrides,
		MonthlyCapacities: monthly,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	slot.Refresh(now)

	return slot, nil
}

// ApplyDefinition replaces the slot's definition fields in place, keeping in-flight bookings.
// Либо применяется целиком, либо слот не меняется.
func (s *TimeSlot) ApplyDefinition(def SlotDefinition, now time.Time) error {
	if s.Status == SlotStatusCancelled {
		return ErrSlotCancelled
	}
	if err := def.Validate(); err != nil {
		return err
	}

	months, err := MonthRange(def.StartMonth, def.EndMonth)
	if err != nil {
		return err
	}

	// Месяцы: ёмкость из определения, booked переносится из старой записи
	monthly := make([]MonthlyCapacity, 0, len(months))
	kept := make(map[Month]struct{}, len(months))
	for _, m := range months {
		entry := MonthlyCapacity{Month: m, Capacity: def.monthlyCapacityFor(m)}
		if i := s.MonthlyCapacityFor(m); i >= 0 {
			entry.BookedCount = s.MonthlyCapacities[i].BookedCount
		}
		if entry.Capacity < entry.BookedCount {
			return fmt.Errorf("%w: month %s capacity=%d booked=%d", ErrCapacityBelowBooked, m, entry.Capacity, entry.BookedCount)
		}
		kept[m] = struct{}{}
		monthly = append(monthly, entry)
	}
	for _, old := range s.MonthlyCapacities {
		if _, ok := kept[old.Month]; !ok && old.BookedCount > 0 {
			return fmt.Errorf("%w: %s", ErrBookedMonthRemoved, old.Month)
		}
	}

	// Override сопоставляются по одинаковому диапазону дат
	overrides := make([]CapacityOverride, 0, len(def.CapacityOverrides))
	matched := make(map[uuid.UUID]struct{}, len(s.CapacityOverrides))
	nextPosition := s.maxOverridePosition() + 1
	for _, in := range def.CapacityOverrides {
		o := CapacityOverride{
			StartDate: DateOnly(in.StartDate),
			EndDate:   DateOnly(in.EndDate),
			Capacity:  in.Capacity,
		}
		if prev := s.findOverride(o.StartDate, o.EndDate, matched); prev != nil {
			o.ID = prev.ID
			o.BookedCount = prev.BookedCount
			o.Position = prev.Position
			matched[prev.ID] = struct{}{}
		} else {
			o.ID = uuid.New()
			o.Position = nextPosition
			nextPosition++
		}
		if o.Capacity < o.BookedCount {
			return fmt.Errorf("%w: override %s..%s capacity=%d booked=%d", ErrCapacityBelowBooked,
				o.StartDate.Format(DateFormat), o.EndDate.Format(DateFormat), o.Capacity, o.BookedCount)
		}
		overrides = append(overrides, o)
	}
	for _, old := range s.CapacityOverrides {
		if _, ok := matched[old.ID]; !ok && old.BookedCount > 0 {
			return fmt.Errorf("%w: %s..%s", ErrBookedOverrideGone,
				old.StartDate.Format(DateFormat), old.EndDate.Format(DateFormat))
		}
	}

	s.StartMonth = def.StartMonth
	s.EndMonth = def.EndMonth
	s.DefaultCapacity = def.DefaultCapacity
	s.MinimumStay = def.MinimumStay
	s.Description = def.Description
	s.MonthlyCapacities = monthly
	s.CapacityOverrides = overrides
	s.UpdatedAt = now

	// Явное редактирование открывает закрытый слот заново
	if s.Status == SlotStatusClosed {
		s.Status = SlotStatusOpen
	}
	s.Refresh(now)

	return nil
}

func (s *TimeSlot) findOverride(start, end time.Time, skip map[uuid.UUID]struct{}) *CapacityOverride {
	for i := range s.CapacityOverrides {
		o := &s.CapacityOverrides[i]
		if _, used := skip[o.ID]; used {
			continue
		}
		if o.StartDate.Equal(start) && o.EndDate.Equal(end) {
			return o
		}
	}
	return nil
}

func (s *TimeSlot) maxOverridePosition() int {
	maxPos := -1
	for _, o := range s.CapacityOverrides {
		if o.Position > maxPos {
			maxPos = o.Position
		}
	}
	return maxPos
}
