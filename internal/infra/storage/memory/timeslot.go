package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	"github.com/m04kA/WX-CapacityService/internal/infra/storage/timeslot"
)

// TimeSlotRepository in-memory аналог timeslot.Repository
type TimeSlotRepository struct {
	store *Store
}

func (r *TimeSlotRepository) CreateOpportunity(ctx context.Context, opportunity *domain.Opportunity) (*domain.Opportunity, error) {
	err := r.store.access(ctx, func(st *state) error {
		st.nextOpportunityID++
		opportunity.ID = st.nextOpportunityID
		st.opportunities[opportunity.ID] = *opportunity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return opportunity, nil
}

func (r *TimeSlotRepository) GetOpportunity(ctx context.Context, id int64) (*domain.Opportunity, error) {
	var result *domain.Opportunity
	err := r.store.access(ctx, func(st *state) error {
		o, ok := st.opportunities[id]
		if !ok {
			return timeslot.ErrOpportunityNotFound
		}
		result = &o
		return nil
	})
	return result, err
}

// GetOpportunityForUpdate блокировка не нужна: транзакция держит мьютекс хранилища
func (r *TimeSlotRepository) GetOpportunityForUpdate(ctx context.Context, id int64) (*domain.Opportunity, error) {
	return r.GetOpportunity(ctx, id)
}

func (r *TimeSlotRepository) UpdateOpportunity(ctx context.Context, opportunity *domain.Opportunity) error {
	return r.store.access(ctx, func(st *state) error {
		if _, ok := st.opportunities[opportunity.ID]; !ok {
			return timeslot.ErrOpportunityNotFound
		}
		st.opportunities[opportunity.ID] = *opportunity
		return nil
	})
}

func (r *TimeSlotRepository) Create(ctx context.Context, slot *domain.TimeSlot) error {
	return r.store.access(ctx, func(st *state) error {
		if _, ok := st.opportunities[slot.OpportunityID]; !ok {
			return timeslot.ErrOpportunityNotFound
		}
		st.slots[slot.ID] = cloneSlot(slot)
		return nil
	})
}

func (r *TimeSlotRepository) GetByID(ctx context.Context, opportunityID int64, id uuid.UUID) (*domain.TimeSlot, error) {
	var result *domain.TimeSlot
	err := r.store.access(ctx, func(st *state) error {
		slot, ok := st.slots[id]
		if !ok || slot.OpportunityID != opportunityID {
			return timeslot.ErrTimeSlotNotFound
		}
		result = cloneSlot(slot)
		return nil
	})
	return result, err
}

func (r *TimeSlotRepository) GetForUpdate(ctx context.Context, opportunityID int64, id uuid.UUID) (*domain.TimeSlot, error) {
	return r.GetByID(ctx, opportunityID, id)
}

func (r *TimeSlotRepository) ListByOpportunity(ctx context.Context, opportunityID int64) ([]*domain.TimeSlot, error) {
	slots := make([]*domain.TimeSlot, 0)
	err := r.store.access(ctx, func(st *state) error {
		for _, slot := range st.slots {
			if slot.OpportunityID == opportunityID {
				slots = append(slots, cloneSlot(slot))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(slots, func(i, j int) bool {
		if slots[i].StartMonth != slots[j].StartMonth {
			return slots[i].StartMonth.Before(slots[j].StartMonth)
		}
		return slots[i].CreatedAt.Before(slots[j].CreatedAt)
	})

	return slots, nil
}

func (r *TimeSlotRepository) CountByOpportunity(ctx context.Context, opportunityID int64) (int, error) {
	count := 0
	err := r.store.access(ctx, func(st *state) error {
		for _, slot := range st.slots {
			if slot.OpportunityID == opportunityID {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *TimeSlotRepository) ListExpirable(ctx context.Context, current domain.Month) ([]domain.SlotKey, error) {
	keys := make([]domain.SlotKey, 0)
	err := r.store.access(ctx, func(st *state) error {
		for _, slot := range st.slots {
			if slot.Status.IsTerminal() || !slot.EndMonth.Before(current) {
				continue
			}
			keys = append(keys, domain.SlotKey{OpportunityID: slot.OpportunityID, TimeSlotID: slot.ID})
		}
		return nil
	})
	return keys, err
}

func (r *TimeSlotRepository) Update(ctx context.Context, slot *domain.TimeSlot) error {
	return r.store.access(ctx, func(st *state) error {
		prev, ok := st.slots[slot.ID]
		if !ok || prev.OpportunityID != slot.OpportunityID {
			return timeslot.ErrTimeSlotNotFound
		}
		st.slots[slot.ID] = cloneSlot(slot)
		return nil
	})
}

func (r *TimeSlotRepository) UpdateCounters(ctx context.Context, slot *domain.TimeSlot) error {
	return r.Update(ctx, slot)
}

// Delete удаляет слот вместе с его строками индекса и бронями, как ON DELETE CASCADE
func (r *TimeSlotRepository) Delete(ctx context.Context, opportunityID int64, id uuid.UUID) error {
	return r.store.access(ctx, func(st *state) error {
		slot, ok := st.slots[id]
		if !ok || slot.OpportunityID != opportunityID {
			return timeslot.ErrTimeSlotNotFound
		}
		delete(st.slots, id)
		for k := range st.index {
			if k.slotID == id {
				delete(st.index, k)
			}
		}
		for k, res := range st.reservations {
			if res.TimeSlotID == id {
				delete(st.reservations, k)
			}
		}
		return nil
	})
}
