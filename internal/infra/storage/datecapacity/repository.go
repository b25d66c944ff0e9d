package datecapacity

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	"github.com/m04kA/WX-CapacityService/pkg/dbmetrics"
	"github.com/m04kA/WX-CapacityService/pkg/psqlbuilder"
)

// Repository репозиторий индекса date_capacities
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория индекса
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var columns = []string{
	"dc.opportunity_id",
	"dc.time_slot_id",
	"dc.month",
	"dc.capacity",
	"dc.booked_count",
	"dc.updated_at",
}

// DeleteBySlot удаляет все строки индекса слота, возвращает число удалённых строк
func (r *Repository) DeleteBySlot(ctx context.Context, opportunityID int64, slotID uuid.UUID) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("date_capacities").
		Where(squirrel.Eq{"opportunity_id": opportunityID, "time_slot_id": slotID.String()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteBySlot - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteBySlot - execute delete: %v", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteBySlot - get rows affected: %v", ErrExecQuery, err)
	}

	return deleted, nil
}

// BulkInsert вставляет строки индекса одним запросом
func (r *Repository) BulkInsert(ctx context.Context, rows []domain.DateCapacity) error {
	if len(rows) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert("date_capacities").
		Columns("opportunity_id", "time_slot_id", "month", "capacity", "booked_count", "updated_at")
	for _, row := range rows {
		insert = insert.Values(row.OpportunityID, row.TimeSlotID, row.Month.String(), row.Capacity, row.BookedCount, row.UpdatedAt)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: BulkInsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: BulkInsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListBySlot строки индекса слота по возрастанию месяца
func (r *Repository) ListBySlot(ctx context.Context, opportunityID int64, slotID uuid.UUID) ([]domain.DateCapacity, error) {
	query, args, err := psqlbuilder.Select(columns...).
		From("date_capacities dc").
		Where(squirrel.Eq{"dc.opportunity_id": opportunityID, "dc.time_slot_id": slotID.String()}).
		OrderBy("dc.month ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySlot - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListBySlot", query, args)
}

// ListOpenByOpportunityRange строки индекса за [start, end] только тех слотов,
// которые открыты в месяце current: статус OPEN и end_month не раньше current.
// Слот с прошедшим end_month уже CLOSED по derive, даже если периодический проход его ещё не закрыл.
func (r *Repository) ListOpenByOpportunityRange(ctx context.Context, opportunityID int64, start, end, current domain.Month) ([]domain.DateCapacity, error) {
	query, args, err := openRangeQuery(opportunityID, start, end, current).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOpenByOpportunityRange - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListOpenByOpportunityRange", query, args)
}

func openRangeQuery(opportunityID int64, start, end, current domain.Month) squirrel.SelectBuilder {
	return psqlbuilder.Select(columns...).
		From("date_capacities dc").
		Join("time_slots ts ON ts.id = dc.time_slot_id").
		Where(squirrel.Eq{"dc.opportunity_id": opportunityID}).
		Where(squirrel.GtOrEq{"dc.month": start.String()}).
		Where(squirrel.LtOrEq{"dc.month": end.String()}).
		Where(squirrel.Eq{"ts.status": string(domain.SlotStatusOpen)}).
		Where(squirrel.GtOrEq{"ts.end_month": current.String()}).
		OrderBy("dc.month ASC", "dc.time_slot_id ASC")
}

// UpdateRow обновляет ёмкость и booked_count строки индекса месяца
func (r *Repository) UpdateRow(ctx context.Context, row domain.DateCapacity) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("date_capacities").
		Set("capacity", row.Capacity).
		Set("booked_count", row.BookedCount).
		Set("updated_at", row.UpdatedAt).
		Where(squirrel.Eq{
			"opportunity_id": row.OpportunityID,
			"time_slot_id":   row.TimeSlotID.String(),
			"month":          row.Month.String(),
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateRow - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateRow - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateRow - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRowNotFound
	}

	return nil
}

func (r *Repository) query(ctx context.Context, op, query string, args []interface{}) ([]domain.DateCapacity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	result := make([]domain.DateCapacity, 0)
	for rows.Next() {
		var row domain.DateCapacity
		if err := rows.Scan(
			&row.OpportunityID,
			&row.TimeSlotID,
			&row.Month,
			&row.Capacity,
			&row.BookedCount,
			&row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return result, nil
}
