package timeslot

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	"github.com/m04kA/WX-CapacityService/pkg/txmanager"
)

var now = time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)

const (
	selectSlot = "SELECT id, opportunity_id, start_month, end_month, default_capacity, minimum_stay, description, " +
		"applied_count, confirmed_count, status, created_at, updated_at FROM time_slots WHERE id = $1 AND opportunity_id = $2"
	selectMonthly = "SELECT time_slot_id, month, capacity, booked_count FROM slot_monthly_capacities " +
		"WHERE time_slot_id IN ($1) ORDER BY time_slot_id, month ASC"
	selectOverrides = "SELECT id, time_slot_id, start_date, end_date, capacity, booked_count, position FROM capacity_overrides " +
		"WHERE time_slot_id IN ($1) ORDER BY time_slot_id, position ASC"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func expectSlotRows(mock sqlmock.Sqlmock, query string, slotID, overrideID uuid.UUID) {
	mock.ExpectQuery(query).
		WithArgs(slotID.String(), int64(7)).
		WillReturnRows(sqlmock.NewRows(slotColumns).
			AddRow(slotID.String(), int64(7), "2024-06", "2024-08", 2, 7, nil, 1, 0, "open", now, now))
	mock.ExpectQuery(selectMonthly).
		WithArgs(slotID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"time_slot_id", "month", "capacity", "booked_count"}).
			AddRow(slotID.String(), "2024-06", 2, 0).
			AddRow(slotID.String(), "2024-07", 4, 1).
			AddRow(slotID.String(), "2024-08", 2, 0))
	mock.ExpectQuery(selectOverrides).
		WithArgs(slotID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "time_slot_id", "start_date", "end_date", "capacity", "booked_count", "position"}).
			AddRow(overrideID.String(), slotID.String(),
				time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC),
				time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC),
				1, 0, 0))
}

func TestGetByIDLoadsChildren(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	slotID, overrideID := uuid.New(), uuid.New()

	expectSlotRows(mock, selectSlot, slotID, overrideID)

	slot, err := repo.GetByID(context.Background(), 7, slotID)
	require.NoError(t, err)

	assert.Equal(t, slotID, slot.ID)
	assert.Equal(t, domain.NewMonth(2024, time.June), slot.StartMonth)
	assert.Equal(t, domain.NewMonth(2024, time.August), slot.EndMonth)
	assert.Equal(t, domain.SlotStatusOpen, slot.Status)
	assert.Nil(t, slot.Description)
	require.Len(t, slot.MonthlyCapacities, 3)
	assert.Equal(t, domain.MonthlyCapacity{Month: domain.NewMonth(2024, time.July), Capacity: 4, BookedCount: 1}, slot.MonthlyCapacities[1])
	require.Len(t, slot.CapacityOverrides, 1)
	assert.Equal(t, overrideID, slot.CapacityOverrides[0].ID)
	assert.Equal(t, time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC), slot.CapacityOverrides[0].StartDate)
}

func TestGetForUpdateLocksOnlyInsideTransaction(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	slotID, overrideID := uuid.New(), uuid.New()

	// Вне транзакции FOR UPDATE не имеет смысла и не добавляется
	expectSlotRows(mock, selectSlot, slotID, overrideID)
	_, err := repo.GetForUpdate(context.Background(), 7, slotID)
	require.NoError(t, err)

	mock.ExpectBegin()
	expectSlotRows(mock, selectSlot+" FOR UPDATE", slotID, overrideID)
	mock.ExpectCommit()

	err = txmanager.NewTransactionManager(db).Do(context.Background(), func(txCtx context.Context) error {
		_, err := repo.GetForUpdate(txCtx, 7, slotID)
		return err
	})
	require.NoError(t, err)
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	slotID := uuid.New()

	mock.ExpectQuery(selectSlot).
		WithArgs(slotID.String(), int64(7)).
		WillReturnRows(sqlmock.NewRows(slotColumns))

	_, err := repo.GetByID(context.Background(), 7, slotID)
	assert.ErrorIs(t, err, ErrTimeSlotNotFound)
}

func TestUpdateCountersUpsertsMonthlyRows(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	slot := &domain.TimeSlot{
		ID:             uuid.New(),
		OpportunityID:  7,
		AppliedCount:   2,
		ConfirmedCount: 1,
		Status:         domain.SlotStatusFilled,
		UpdatedAt:      now,
		MonthlyCapacities: []domain.MonthlyCapacity{
			{Month: domain.NewMonth(2024, time.June), Capacity: 2, BookedCount: 2},
			{Month: domain.NewMonth(2024, time.July), Capacity: 2, BookedCount: 0},
		},
		CapacityOverrides: []domain.CapacityOverride{{ID: uuid.New(), Capacity: 1, BookedCount: 1}},
	}

	mock.ExpectExec("UPDATE time_slots SET applied_count = $1, confirmed_count = $2, status = $3, updated_at = $4 WHERE id = $5 AND opportunity_id = $6").
		WithArgs(2, 1, "filled", now, slot.ID.String(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO slot_monthly_capacities (time_slot_id,month,capacity,booked_count) VALUES ($1,$2,$3,$4),($5,$6,$7,$8) " +
		"ON CONFLICT (time_slot_id, month) DO UPDATE SET booked_count = EXCLUDED.booked_count").
		WithArgs(slot.ID.String(), "2024-06", 2, 2, slot.ID.String(), "2024-07", 2, 0).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE capacity_overrides SET booked_count = $1 WHERE id = $2 AND time_slot_id = $3").
		WithArgs(1, slot.CapacityOverrides[0].ID.String(), slot.ID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateCounters(context.Background(), slot))
}

func TestUpdateCountersMissingSlot(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	slot := &domain.TimeSlot{ID: uuid.New(), OpportunityID: 7, Status: domain.SlotStatusOpen, UpdatedAt: now}

	// Ноль затронутых строк: дальше дочерние таблицы не трогаются
	mock.ExpectExec("UPDATE time_slots SET applied_count = $1, confirmed_count = $2, status = $3, updated_at = $4 WHERE id = $5 AND opportunity_id = $6").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.UpdateCounters(context.Background(), slot), ErrTimeSlotNotFound)
}

func TestCreateWritesSlotAndChildren(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	description := "garden work"

	slot := &domain.TimeSlot{
		ID:              uuid.New(),
		OpportunityID:   7,
		StartMonth:      domain.NewMonth(2024, time.June),
		EndMonth:        domain.NewMonth(2024, time.June),
		DefaultCapacity: 2,
		MinimumStay:     7,
		Description:     &description,
		Status:          domain.SlotStatusOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
		MonthlyCapacities: []domain.MonthlyCapacity{
			{Month: domain.NewMonth(2024, time.June), Capacity: 2},
		},
		CapacityOverrides: []domain.CapacityOverride{{
			ID:        uuid.New(),
			StartDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC),
			Capacity:  1,
			Position:  0,
		}},
	}

	mock.ExpectExec("INSERT INTO time_slots (id,opportunity_id,start_month,end_month,default_capacity,minimum_stay,description," +
		"applied_count,confirmed_count,status,created_at,updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)").
		WithArgs(slot.ID.String(), int64(7), "2024-06", "2024-06", 2, 7, "garden work", 0, 0, "open", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO slot_monthly_capacities (time_slot_id,month,capacity,booked_count) VALUES ($1,$2,$3,$4)").
		WithArgs(slot.ID.String(), "2024-06", 2, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO capacity_overrides (id,time_slot_id,start_date,end_date,capacity,booked_count,position) VALUES ($1,$2,$3,$4,$5,$6,$7)").
		WithArgs(slot.CapacityOverrides[0].ID.String(), slot.ID.String(), slot.CapacityOverrides[0].StartDate, slot.CapacityOverrides[0].EndDate, 1, 0, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), slot))
}

func TestCreateWrapsExecError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectExec("INSERT INTO time_slots (id,opportunity_id,start_month,end_month,default_capacity,minimum_stay,description," +
		"applied_count,confirmed_count,status,created_at,updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)").
		WillReturnError(errors.New("insert or update on table violates foreign key constraint"))

	err := repo.Create(context.Background(), &domain.TimeSlot{ID: uuid.New(), OpportunityID: 7, Status: domain.SlotStatusOpen})
	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestListExpirableSkipsTerminalStatuses(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT opportunity_id, id FROM time_slots WHERE status IN ($1,$2) AND end_month < $3 ORDER BY end_month ASC").
		WithArgs("open", "filled", "2024-10").
		WillReturnRows(sqlmock.NewRows([]string{"opportunity_id", "id"}).
			AddRow(int64(7), a.String()).
			AddRow(int64(8), b.String()))

	keys, err := repo.ListExpirable(context.Background(), domain.NewMonth(2024, time.October))
	require.NoError(t, err)
	assert.Equal(t, []domain.SlotKey{{OpportunityID: 7, TimeSlotID: a}, {OpportunityID: 8, TimeSlotID: b}}, keys)
}

func TestDeleteMissingSlot(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	slotID := uuid.New()

	mock.ExpectExec("DELETE FROM time_slots WHERE id = $1 AND opportunity_id = $2").
		WithArgs(slotID.String(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 7, slotID), ErrTimeSlotNotFound)
}

func TestOpportunityLifecycle(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO opportunities (host_id,has_time_slots,created_at,updated_at) VALUES ($1,$2,$3,$4) RETURNING id").
		WithArgs(int64(3), false, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	opp, err := repo.CreateOpportunity(ctx, &domain.Opportunity{HostID: 3, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	assert.Equal(t, int64(42), opp.ID)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, host_id, has_time_slots, created_at, updated_at FROM opportunities WHERE id = $1 FOR UPDATE").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(opportunityColumns).AddRow(int64(42), int64(3), false, now, now))
	mock.ExpectExec("UPDATE opportunities SET has_time_slots = $1, updated_at = $2 WHERE id = $3").
		WithArgs(true, now, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = txmanager.NewTransactionManager(db).Do(ctx, func(txCtx context.Context) error {
		locked, err := repo.GetOpportunityForUpdate(txCtx, 42)
		if err != nil {
			return err
		}
		locked.HasTimeSlots = true
		return repo.UpdateOpportunity(txCtx, locked)
	})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, host_id, has_time_slots, created_at, updated_at FROM opportunities WHERE id = $1").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(opportunityColumns))

	_, err = repo.GetOpportunity(ctx, 99)
	assert.ErrorIs(t, err, ErrOpportunityNotFound)
}
