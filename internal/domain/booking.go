package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/pkg/ptr"
)

// Reserve takes one unit of capacity for the target.
// Проверка и резервирование выполняются над одним и тем же снимком слота,
// поэтому вызывающий код обязан держать блокировку строки слота.
func (s *TimeSlot) Reserve(target Target, now time.Time) (*Reservation, error) {
	s.Refresh(now)
	if !s.IsBookable() {
		return nil, fmt.Errorf("%w: status=%s", ErrSlotNotBookable, s.Status)
	}

	res := Resolve(s, target)
	if res.Source == SourceNone {
		return nil, fmt.Errorf("%w: %s", ErrTargetOutsideSlot, target)
	}
	if !res.IsAvailable {
		return nil, fmt.Errorf("%w: %s capacity=%d booked=%d", ErrCapacityExceeded, target, res.Capacity, res.BookedCount)
	}

	reservation := &Reservation{
		ID:            uuid.New(),
		OpportunityID: s.OpportunityID,
		TimeSlotID:    s.ID,
		Month:         target.Month,
		Status:        ReservationStatusApplied,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if target.Date != nil {
		reservation.Date = ptr.Ptr(*target.Date)
	}

	switch res.Source {
	case SourceOverride:
		i := s.OverrideByID(*res.OverrideID)
		s.CapacityOverrides[i].BookedCount++
		reservation.OverrideID = ptr.Ptr(*res.OverrideID)
	case SourceMonthly:
		s.MonthlyCapacities[s.MonthlyCapacityFor(target.Month)].BookedCount++
	case SourceDefault:
		s.MonthlyCapacities = append(s.MonthlyCapacities, MonthlyCapacity{
			Month:       target.Month,
			Capacity:    s.DefaultCapacity,
			BookedCount: 1,
		})
	}

	s.AppliedCount++
	s.UpdatedAt = now
	s.Refresh(now)

	return reservation, nil
}

// Confirm accepts a held reservation. Returns false if it was already confirmed.
func (s *TimeSlot) Confirm(r *Reservation, now time.Time) (bool, error) {
	if r.Status == ReservationStatusConfirmed {
		return false, nil
	}
	if !r.CanBeConfirmed() {
		return false, fmt.Errorf("%w: status=%s", ErrReservationNotActive, r.Status)
	}

	s.ConfirmedCount++
	s.UpdatedAt = now
	s.Refresh(now)

	r.Status = ReservationStatusConfirmed
	r.UpdatedAt = now

	return true, nil
}

// Release gives the reservation's unit back and re-derives the status
func (s *TimeSlot) Release(r *Reservation, now time.Time) error {
	if !r.CanBeReleased() {
		return fmt.Errorf("%w: status=%s", ErrReservationNotActive, r.Status)
	}

	if r.OverrideID != nil {
		if i := s.OverrideByID(*r.OverrideID); i >= 0 && s.CapacityOverrides[i].BookedCount > 0 {
			s.CapacityOverrides[i].BookedCount--
		}
	} else if i := s.MonthlyCapacityFor(r.Month); i >= 0 && s.MonthlyCapacities[i].BookedCount > 0 {
		s.MonthlyCapacities[i].BookedCount--
	}

	if s.AppliedCount > 0 {
		s.AppliedCount--
	}
	if r.Status == ReservationStatusConfirmed && s.ConfirmedCount > 0 {
		s.ConfirmedCount--
	}
	s.UpdatedAt = now
	s.Refresh(now)

	r.Status = ReservationStatusReleased
	r.UpdatedAt = now

	return nil
}
