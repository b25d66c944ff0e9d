package timeslot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	"github.com/m04kA/WX-CapacityService/pkg/dbmetrics"
	"github.com/m04kA/WX-CapacityService/pkg/psqlbuilder"
)

var opportunityColumns = []string{
	"id",
	"host_id",
	"has_time_slots",
	"created_at",
	"updated_at",
}

// CreateOpportunity регистрирует возможность, id выдаёт БД
func (r *Repository) CreateOpportunity(ctx context.Context, opportunity *domain.Opportunity) (*domain.Opportunity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("opportunities").
		Columns("host_id", "has_time_slots", "created_at", "updated_at").
		Values(opportunity.HostID, opportunity.HasTimeSlots, opportunity.CreatedAt, opportunity.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateOpportunity - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&opportunity.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateOpportunity - execute insert: %v", ErrExecQuery, err)
	}

	return opportunity, nil
}

// GetOpportunity получает возможность по ID
func (r *Repository) GetOpportunity(ctx context.Context, id int64) (*domain.Opportunity, error) {
	return r.getOpportunity(ctx, id, false)
}

// GetOpportunityForUpdate получает возможность и блокирует её строку до конца транзакции.
// Сериализует изменения списка слотов одной возможности (HasTimeSlots).
func (r *Repository) GetOpportunityForUpdate(ctx context.Context, id int64) (*domain.Opportunity, error) {
	return r.getOpportunity(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getOpportunity(ctx context.Context, id int64, lock bool) (*domain.Opportunity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(opportunityColumns...).
		From("opportunities").
		Where(squirrel.Eq{"id": id})
	if lock {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOpportunity - build select query: %v", ErrBuildQuery, err)
	}

	var opportunity domain.Opportunity
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&opportunity.ID,
		&opportunity.HostID,
		&opportunity.HasTimeSlots,
		&opportunity.CreatedAt,
		&opportunity.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOpportunityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOpportunity - scan opportunity: %v", ErrScanRow, err)
	}

	return &opportunity, nil
}

// UpdateOpportunity сохраняет производные поля возможности
func (r *Repository) UpdateOpportunity(ctx context.Context, opportunity *domain.Opportunity) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("opportunities").
		Set("has_time_slots", opportunity.HasTimeSlots).
		Set("updated_at", opportunity.UpdatedAt).
		Where(squirrel.Eq{"id": opportunity.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateOpportunity - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateOpportunity - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateOpportunity - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrOpportunityNotFound
	}

	return nil
}
