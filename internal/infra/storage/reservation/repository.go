package reservation

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
	"github.com/m04kA/WX-CapacityService/pkg/ptr"
)

// Repository репозиторий журнала броней slot_reservations
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория броней
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var columns = []string{
	"id",
	"opportunity_id",
	"time_slot_id",
	"month",
	"date",
	"override_id",
	"application_ref",
	"status",
	"created_at",
	"updated_at",
}

// Create сохраняет новую бронь
func (r *Repository) Create(ctx context.Context, reservation *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_reservations").
		Columns(columns...).
		Values(
			reservation.ID,
			reservation.OpportunityID,
			reservation.TimeSlotID,
			reservation.Month.String(),
			reservation.Date,
			reservation.OverrideID,
			reservation.ApplicationRef,
			string(reservation.Status),
			reservation.CreatedAt,
			reservation.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает бронь слота по ID
func (r *Repository) GetByID(ctx context.Context, opportunityID int64, slotID, id uuid.UUID) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("slot_reservations").
		Where(squirrel.Eq{
			"id":             id.String(),
			"opportunity_id": opportunityID,
			"time_slot_id":   slotID.String(),
		})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var reservation domain.Reservation
	var status string
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&reservation.ID,
		&reservation.OpportunityID,
		&reservation.TimeSlotID,
		&reservation.Month,
		&reservation.Date,
		&reservation.OverrideID,
		&reservation.ApplicationRef,
		&status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	reservation.Status = domain.ReservationStatus(status)
	if reservation.Date != nil {
		reservation.Date = ptr.Ptr(domain.DateOnly(*reservation.Date))
	}

	return &reservation, nil
}

// UpdateStatus сохраняет новый статус брони
func (r *Repository) UpdateStatus(ctx context.Context, reservation *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_reservations").
		Set("status", string(reservation.Status)).
		Set("updated_at", reservation.UpdatedAt).
		Where(squirrel.Eq{"id": reservation.ID.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// CountActiveBySlot количество броней слота, которые ещё держат место
func (r *Repository) CountActiveBySlot(ctx context.Context, opportunityID int64, slotID uuid.UUID) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("slot_reservations").
		Where(squirrel.Eq{
			"opportunity_id": opportunityID,
			"time_slot_id":   slotID.String(),
			"status":         []string{string(domain.ReservationStatusApplied), string(domain.ReservationStatusConfirmed)},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}
