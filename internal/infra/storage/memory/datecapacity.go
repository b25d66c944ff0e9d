package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	"github.com/m04kA/WX-CapacityService/internal/infra/storage/datecapacity"
)

// DateCapacityRepository in-memory аналог datecapacity.Repository
type DateCapacityRepository struct {
	store *Store
}

func (r *DateCapacityRepository) DeleteBySlot(ctx context.Context, opportunityID int64, slotID uuid.UUID) (int64, error) {
	var deleted int64
	err := r.store.access(ctx, func(st *state) error {
		for k := range st.index {
			if k.opportunityID == opportunityID && k.slotID == slotID {
				delete(st.index, k)
				deleted++
			}
		}
		return nil
	})
	return deleted, err
}

// BulkInsert повторяет уникальный ключ (opportunity_id, time_slot_id, month)
func (r *DateCapacityRepository) BulkInsert(ctx context.Context, rows []domain.DateCapacity) error {
	return r.store.access(ctx, func(st *state) error {
		seen := make(map[indexKey]struct{}, len(rows))
		for _, row := range rows {
			k := keyOf(row)
			if _, ok := st.index[k]; ok {
				return errDuplicateRow(row)
			}
			if _, ok := seen[k]; ok {
				return errDuplicateRow(row)
			}
			seen[k] = struct{}{}
		}
		for _, row := range rows {
			st.index[keyOf(row)] = row
		}
		return nil
	})
}

func (r *DateCapacityRepository) ListBySlot(ctx context.Context, opportunityID int64, slotID uuid.UUID) ([]domain.DateCapacity, error) {
	result := make([]domain.DateCapacity, 0)
	err := r.store.access(ctx, func(st *state) error {
		for k, row := range st.index {
			if k.opportunityID == opportunityID && k.slotID == slotID {
				result = append(result, row)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortRows(result)
	return result, nil
}

// ListOpenByOpportunityRange повторяет фильтр postgres: OPEN и end_month >= current
func (r *DateCapacityRepository) ListOpenByOpportunityRange(ctx context.Context, opportunityID int64, start, end, current domain.Month) ([]domain.DateCapacity, error) {
	result := make([]domain.DateCapacity, 0)
	err := r.store.access(ctx, func(st *state) error {
		for k, row := range st.index {
			if k.opportunityID != opportunityID || k.month.Before(start) || k.month.After(end) {
				continue
			}
			slot, ok := st.slots[k.slotID]
			if !ok || slot.Status != domain.SlotStatusOpen || slot.EndMonth.Before(current) {
				continue
			}
			result = append(result, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortRows(result)
	return result, nil
}

func (r *DateCapacityRepository) UpdateRow(ctx context.Context, row domain.DateCapacity) error {
	return r.store.access(ctx, func(st *state) error {
		k := keyOf(row)
		if _, ok := st.index[k]; !ok {
			return datecapacity.ErrRowNotFound
		}
		st.index[k] = row
		return nil
	})
}

func keyOf(row domain.DateCapacity) indexKey {
	return indexKey{opportunityID: row.OpportunityID, slotID: row.TimeSlotID, month: row.Month}
}

func sortRows(rows []domain.DateCapacity) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Month != rows[j].Month {
			return rows[i].Month.Before(rows[j].Month)
		}
		return rows[i].TimeSlotID.String() < rows[j].TimeSlotID.String()
	})
}
