package release_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	"github.com/m04kA/WX-CapacityService/internal/infra/storage/memory"
	"github.com/m04kA/WX-CapacityService/internal/service/datecapacity"
	"github.com/m04kA/WX-CapacityService/internal/usecase/apply_booking"
	"github.com/m04kA/WX-CapacityService/pkg/logger"
	"github.com/m04kA/WX-CapacityService/pkg/metrics"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var clock = fixedClock{now: time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)}

type fixture struct {
	store   *memory.Store
	slot    *domain.TimeSlot
	apply   *apply_booking.UseCase
	release *UseCase
}

func newFixture(t *testing.T, capacity int) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	log := logger.NewNop()
	index := datecapacity.NewService(store.DateCapacities(), store.TimeSlots(), store, metrics.Nop{}, clock, log)

	opp, err := store.TimeSlots().CreateOpportunity(ctx, &domain.Opportunity{HostID: 1, CreatedAt: clock.now, UpdatedAt: clock.now})
	require.NoError(t, err)

	start, _ := domain.ParseMonth("2024-06")
	end, _ := domain.ParseMonth("2024-08")
	slot, err := domain.NewTimeSlot(opp.ID, domain.SlotDefinition{StartMonth: start, EndMonth: end, DefaultCapacity: capacity, MinimumStay: 7}, clock.now)
	require.NoError(t, err)
	require.NoError(t, store.TimeSlots().Create(ctx, slot))
	_, err = index.Materialize(ctx, slot)
	require.NoError(t, err)

	return &fixture{
		store:   store,
		slot:    slot,
		apply:   apply_booking.NewUseCase(store.TimeSlots(), store.Reservations(), index, store, metrics.Nop{}, clock, log),
		release: NewUseCase(store.TimeSlots(), store.Reservations(), index, store, metrics.Nop{}, clock, log),
	}
}

func (f *fixture) book(t *testing.T, month string) *apply_booking.Response {
	t.Helper()
	m, err := domain.ParseMonth(month)
	require.NoError(t, err)
	resp, err := f.apply.Execute(context.Background(), &apply_booking.Request{OpportunityID: f.slot.OpportunityID, TimeSlotID: f.slot.ID, Month: &m})
	require.NoError(t, err)
	return resp
}

func (f *fixture) bookedIn(t *testing.T, month string) int {
	t.Helper()
	rows, err := f.store.DateCapacities().ListBySlot(context.Background(), f.slot.OpportunityID, f.slot.ID)
	require.NoError(t, err)
	for _, row := range rows {
		if row.Month.String() == month {
			return row.BookedCount
		}
	}
	return -1
}

func TestReleaseReopensFilledSlot(t *testing.T) {
	f := newFixture(t, 2)
	first := f.book(t, "2024-07")
	second := f.book(t, "2024-07")
	assert.Equal(t, domain.SlotStatusFilled, second.SlotStatus)

	resp, err := f.release.Execute(context.Background(), &Request{
		OpportunityID: f.slot.OpportunityID,
		TimeSlotID:    f.slot.ID,
		ReservationID: first.ReservationID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusReleased, resp.Status)
	assert.Equal(t, domain.SlotStatusOpen, resp.SlotStatus)
	assert.Equal(t, 1, resp.AppliedCount)
	assert.Equal(t, 1, f.bookedIn(t, "2024-07"))

	// Место снова доступно
	f.book(t, "2024-07")
	assert.Equal(t, 2, f.bookedIn(t, "2024-07"))
}

func TestReleaseTwiceIsRejected(t *testing.T) {
	f := newFixture(t, 2)
	booked := f.book(t, "2024-06")
	req := &Request{OpportunityID: f.slot.OpportunityID, TimeSlotID: f.slot.ID, ReservationID: booked.ReservationID}

	_, err := f.release.Execute(context.Background(), req)
	require.NoError(t, err)

	_, err = f.release.Execute(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrReservationNotActive)
	assert.Equal(t, 0, f.bookedIn(t, "2024-06"))
}

func TestReleaseKeepsClosedSlotClosed(t *testing.T) {
	f := newFixture(t, 2)
	booked := f.book(t, "2024-08")
	ctx := context.Background()

	// Слот закончился: release не должен вернуть его в OPEN
	late := fixedClock{now: time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)}
	f.release.timeProvider = late

	resp, err := f.release.Execute(ctx, &Request{OpportunityID: f.slot.OpportunityID, TimeSlotID: f.slot.ID, ReservationID: booked.ReservationID})
	require.NoError(t, err)
	assert.Equal(t, domain.SlotStatusClosed, resp.SlotStatus)

	stored, err := f.store.TimeSlots().GetByID(ctx, f.slot.OpportunityID, f.slot.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotStatusClosed, stored.Status)
	assert.Equal(t, 0, stored.AppliedCount)
}
