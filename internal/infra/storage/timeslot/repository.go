package timeslot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	"github.com/m04kA/WX-CapacityService/pkg/dbmetrics"
	"github.com/m04kA/WX-CapacityService/pkg/psqlbuilder"
)

// Repository репозиторий слотов: time_slots + slot_monthly_capacities + capacity_overrides
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var slotColumns = []string{
	"id",
	"opportunity_id",
	"start_month",
	"end_month",
	"default_capacity",
	"minimum_stay",
	"description",
	"applied_count",
	"confirmed_count",
	"status",
	"created_at",
	"updated_at",
}

// Create сохраняет новый слот вместе с месячными ёмкостями и override.
// Должен вызываться в транзакции, иначе при ошибке останется часть строк.
func (r *Repository) Create(ctx context.Context, slot *domain.TimeSlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_slots").
		Columns(slotColumns...).
		Values(
			slot.ID,
			slot.OpportunityID,
			slot.StartMonth.String(),
			slot.EndMonth.String(),
			slot.DefaultCapacity,
			slot.MinimumStay,
			slot.Description,
			slot.AppliedCount,
			slot.ConfirmedCount,
			string(slot.Status),
			slot.CreatedAt,
			slot.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	if err := r.insertMonthly(ctx, executor, slot); err != nil {
		return err
	}
	return r.insertOverrides(ctx, executor, slot)
}

// GetByID получает слот возможности по ID
func (r *Repository) GetByID(ctx context.Context, opportunityID int64, id uuid.UUID) (*domain.TimeSlot, error) {
	return r.get(ctx, opportunityID, id, false)
}

// GetForUpdate получает слот и блокирует его строку (SELECT ... FOR UPDATE).
// Все изменения счётчиков слота идут через эту блокировку.
func (r *Repository) GetForUpdate(ctx context.Context, opportunityID int64, id uuid.UUID) (*domain.TimeSlot, error) {
	return r.get(ctx, opportunityID, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) get(ctx context.Context, opportunityID int64, id uuid.UUID, lock bool) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"opportunity_id": opportunityID, "id": id.String()})
	if lock {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTimeSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan time slot: %v", ErrScanRow, err)
	}

	if err := r.loadChildren(ctx, executor, []*domain.TimeSlot{slot}); err != nil {
		return nil, err
	}

	return slot, nil
}

// ListByOpportunity получает все слоты возможности, отсортированные по началу
func (r *Repository) ListByOpportunity(ctx context.Context, opportunityID int64) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"opportunity_id": opportunityID}).
		OrderBy("start_month ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOpportunity - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOpportunity - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.TimeSlot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByOpportunity - scan time slot: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByOpportunity - rows error: %v", ErrScanRow, err)
	}

	if err := r.loadChildren(ctx, executor, slots); err != nil {
		return nil, err
	}

	return slots, nil
}

// CountByOpportunity количество слотов возможности
func (r *Repository) CountByOpportunity(ctx context.Context, opportunityID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("time_slots").
		Where(squirrel.Eq{"opportunity_id": opportunityID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountByOpportunity - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByOpportunity - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// ListExpirable ключи слотов, которые по времени должны стать CLOSED
func (r *Repository) ListExpirable(ctx context.Context, current domain.Month) ([]domain.SlotKey, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("opportunity_id", "id").
		From("time_slots").
		Where(squirrel.Eq{"status": []string{string(domain.SlotStatusOpen), string(domain.SlotStatusFilled)}}).
		Where(squirrel.Lt{"end_month": current.String()}).
		OrderBy("end_month ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpirable - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpirable - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	keys := make([]domain.SlotKey, 0)
	for rows.Next() {
		var key domain.SlotKey
		if err := rows.Scan(&key.OpportunityID, &key.TimeSlotID); err != nil {
			return nil, fmt.Errorf("%w: ListExpirable - scan key: %v", ErrScanRow, err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListExpirable - rows error: %v", ErrScanRow, err)
	}

	return keys, nil
}

// Update сохраняет определение слота: строка слота + полная замена дочерних строк
func (r *Repository) Update(ctx context.Context, slot *domain.TimeSlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("start_month", slot.StartMonth.String()).
		Set("end_month", slot.EndMonth.String()).
		Set("default_capacity", slot.DefaultCapacity).
		Set("minimum_stay", slot.MinimumStay).
		Set("description", slot.Description).
		Set("applied_count", slot.AppliedCount).
		Set("confirmed_count", slot.ConfirmedCount).
		Set("status", string(slot.Status)).
		Set("updated_at", slot.UpdatedAt).
		Where(squirrel.Eq{"opportunity_id": slot.OpportunityID, "id": slot.ID.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	if err := execAffecting(ctx, executor, "Update", query, args); err != nil {
		return err
	}

	// Дочерние строки пересоздаются целиком: старые индексы массивов не используются
	for _, table := range []string{"slot_monthly_capacities", "capacity_overrides"} {
		query, args, err := psqlbuilder.Delete(table).
			Where(squirrel.Eq{"time_slot_id": slot.ID.String()}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Update - build delete %s query: %v", ErrBuildQuery, table, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: Update - delete %s: %v", ErrExecQuery, table, err)
		}
	}

	if err := r.insertMonthly(ctx, executor, slot); err != nil {
		return err
	}
	return r.insertOverrides(ctx, executor, slot)
}

// UpdateCounters сохраняет счётчики и статус после операции бронирования.
// Определение слота (диапазон, ёмкости) не меняется.
func (r *Repository) UpdateCounters(ctx context.Context, slot *domain.TimeSlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("applied_count", slot.AppliedCount).
		Set("confirmed_count", slot.ConfirmedCount).
		Set("status", string(slot.Status)).
		Set("updated_at", slot.UpdatedAt).
		Where(squirrel.Eq{"opportunity_id": slot.OpportunityID, "id": slot.ID.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateCounters - build update query: %v", ErrBuildQuery, err)
	}

	if err := execAffecting(ctx, executor, "UpdateCounters", query, args); err != nil {
		return err
	}

	// Месячная запись может отсутствовать, если бронь пришлась на ёмкость по умолчанию
	if len(slot.MonthlyCapacities) > 0 {
		insert := psqlbuilder.Insert("slot_monthly_capacities").
			Columns("time_slot_id", "month", "capacity", "booked_count")
		for _, mc := range slot.MonthlyCapacities {
			insert = insert.Values(slot.ID, mc.Month.String(), mc.Capacity, mc.BookedCount)
		}

		query, args, err := insert.
			Suffix("ON CONFLICT (time_slot_id, month) DO UPDATE SET booked_count = EXCLUDED.booked_count").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: UpdateCounters - build monthly upsert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: UpdateCounters - execute monthly upsert: %v", ErrExecQuery, err)
		}
	}

	for _, o := range slot.CapacityOverrides {
		query, args, err := psqlbuilder.Update("capacity_overrides").
			Set("booked_count", o.BookedCount).
			Where(squirrel.Eq{"id": o.ID.String(), "time_slot_id": slot.ID.String()}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: UpdateCounters - build override update: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: UpdateCounters - execute override update: %v", ErrExecQuery, err)
		}
	}

	return nil
}

// Delete удаляет слот, дочерние строки удаляются каскадно
func (r *Repository) Delete(ctx context.Context, opportunityID int64, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_slots").
		Where(squirrel.Eq{"opportunity_id": opportunityID, "id": id.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return execAffecting(ctx, executor, "Delete", query, args)
}

func (r *Repository) insertMonthly(ctx context.Context, executor DBExecutor, slot *domain.TimeSlot) error {
	if len(slot.MonthlyCapacities) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert("slot_monthly_capacities").
		Columns("time_slot_id", "month", "capacity", "booked_count")
	for _, mc := range slot.MonthlyCapacities {
		insert = insert.Values(slot.ID, mc.Month.String(), mc.Capacity, mc.BookedCount)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertMonthly - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertMonthly - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) insertOverrides(ctx context.Context, executor DBExecutor, slot *domain.TimeSlot) error {
	if len(slot.CapacityOverrides) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert("capacity_overrides").
		Columns("id", "time_slot_id", "start_date", "end_date", "capacity", "booked_count", "position")
	for _, o := range slot.CapacityOverrides {
		insert = insert.Values(o.ID, slot.ID, o.StartDate, o.EndDate, o.Capacity, o.BookedCount, o.Position)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertOverrides - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertOverrides - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// loadChildren подгружает месячные ёмкости и override одним запросом на таблицу
func (r *Repository) loadChildren(ctx context.Context, executor DBExecutor, slots []*domain.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.TimeSlot, len(slots))
	ids := make([]string, 0, len(slots))
	for _, slot := range slots {
		byID[slot.ID] = slot
		ids = append(ids, slot.ID.String())
		slot.MonthlyCapacities = make([]domain.MonthlyCapacity, 0)
		slot.CapacityOverrides = make([]domain.CapacityOverride, 0)
	}

	query, args, err := psqlbuilder.Select("time_slot_id", "month", "capacity", "booked_count").
		From("slot_monthly_capacities").
		Where(squirrel.Eq{"time_slot_id": ids}).
		OrderBy("time_slot_id", "month ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadChildren - build monthly query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadChildren - execute monthly query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var slotID uuid.UUID
		var mc domain.MonthlyCapacity
		if err := rows.Scan(&slotID, &mc.Month, &mc.Capacity, &mc.BookedCount); err != nil {
			return fmt.Errorf("%w: loadChildren - scan monthly capacity: %v", ErrScanRow, err)
		}
		if slot, ok := byID[slotID]; ok {
			slot.MonthlyCapacities = append(slot.MonthlyCapacities, mc)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadChildren - monthly rows error: %v", ErrScanRow, err)
	}

	query, args, err = psqlbuilder.Select("id", "time_slot_id", "start_date", "end_date", "capacity", "booked_count", "position").
		From("capacity_overrides").
		Where(squirrel.Eq{"time_slot_id": ids}).
		OrderBy("time_slot_id", "position ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadChildren - build overrides query: %v", ErrBuildQuery, err)
	}

	overrideRows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadChildren - execute overrides query: %v", ErrExecQuery, err)
	}
	defer overrideRows.Close()

	for overrideRows.Next() {
		var slotID uuid.UUID
		var o domain.CapacityOverride
		if err := overrideRows.Scan(&o.ID, &slotID, &o.StartDate, &o.EndDate, &o.Capacity, &o.BookedCount, &o.Position); err != nil {
			return fmt.Errorf("%w: loadChildren - scan override: %v", ErrScanRow, err)
		}
		o.StartDate = domain.DateOnly(o.StartDate)
		o.EndDate = domain.DateOnly(o.EndDate)
		if slot, ok := byID[slotID]; ok {
			slot.CapacityOverrides = append(slot.CapacityOverrides, o)
		}
	}
	if err := overrideRows.Err(); err != nil {
		return fmt.Errorf("%w: loadChildren - override rows error: %v", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot
	var status string

	err := row.Scan(
		&slot.ID,
		&slot.OpportunityID,
		&slot.StartMonth,
		&slot.EndMonth,
		&slot.DefaultCapacity,
		&slot.MinimumStay,
		&slot.Description,
		&slot.AppliedCount,
		&slot.ConfirmedCount,
		&status,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.Status = domain.SlotStatus(status)
	return &slot, nil
}

func execAffecting(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrTimeSlotNotFound
	}

	return nil
}
