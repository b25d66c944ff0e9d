package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	"github.com/m04kA/WX-CapacityService/internal/infra/storage/reservation"
)

// ReservationRepository in-memory аналог reservation.Repository
type ReservationRepository struct {
	store *Store
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	return r.store.access(ctx, func(st *state) error {
		st.reservations[res.ID] = cloneReservation(*res)
		return nil
	})
}

func (r *ReservationRepository) GetByID(ctx context.Context, opportunityID int64, slotID, id uuid.UUID) (*domain.Reservation, error) {
	var result *domain.Reservation
	err := r.store.access(ctx, func(st *state) error {
		res, ok := st.reservations[id]
		if !ok || res.OpportunityID != opportunityID || res.TimeSlotID != slotID {
			return reservation.ErrReservationNotFound
		}
		c := cloneReservation(res)
		result = &c
		return nil
	})
	return result, err
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, res *domain.Reservation) error {
	return r.store.access(ctx, func(st *state) error {
		stored, ok := st.reservations[res.ID]
		if !ok {
			return reservation.ErrReservationNotFound
		}
		stored.Status = res.Status
		stored.UpdatedAt = res.UpdatedAt
		st.reservations[res.ID] = stored
		return nil
	})
}

func (r *ReservationRepository) CountActiveBySlot(ctx context.Context, opportunityID int64, slotID uuid.UUID) (int, error) {
	count := 0
	err := r.store.access(ctx, func(st *state) error {
		for _, res := range st.reservations {
			if res.OpportunityID == opportunityID && res.TimeSlotID == slotID && res.IsActive() {
				count++
			}
		}
		return nil
	})
	return count, err
}
