package apply_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	"github.com/m04kA/WX-CapacityService/internal/infra/storage/memory"
	"github.com/m04kA/WX-CapacityService/internal/service/datecapacity"
	"github.com/m04kA/WX-CapacityService/pkg/logger"
	"github.com/m04kA/WX-CapacityService/pkg/metrics"
	"github.com/m04kA/WX-CapacityService/pkg/ptr"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var clock = fixedClock{now: time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)}

type outcomes struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *outcomes) ObserveBooking(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.counts[outcome]++
}

type fixture struct {
	store    *memory.Store
	index    *datecapacity.Service
	usecase  *UseCase
	outcomes *outcomes
}

func newFixture() *fixture {
	store := memory.NewStore()
	log := logger.NewNop()
	index := datecapacity.NewService(store.DateCapacities(), store.TimeSlots(), store, metrics.Nop{}, clock, log)
	out := &outcomes{counts: make(map[string]int)}
	uc := NewUseCase(store.TimeSlots(), store.Reservations(), index, store, out, clock, log)
	return &fixture{store: store, index: index, usecase: uc, outcomes: out}
}

func mustMonth(t *testing.T, s string) domain.Month {
	t.Helper()
	m, err := domain.ParseMonth(s)
	require.NoError(t, err)
	return m
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

// seedSlot создаёт слот 2024-06..2024-08 и материализует индекс.
func (f *fixture) seedSlot(t *testing.T, capacity int, overrides ...domain.CapacityOverrideInput) *domain.TimeSlot {
	t.Helper()
	ctx := context.Background()

	opp, err := f.store.TimeSlots().CreateOpportunity(ctx, &domain.Opportunity{HostID: 7, CreatedAt: clock.now, UpdatedAt: clock.now})
	require.NoError(t, err)

	slot, err := domain.NewTimeSlot(opp.ID, domain.SlotDefinition{
		StartMonth:        mustMonth(t, "2024-06"),
		EndMonth:          mustMonth(t, "2024-08"),
		DefaultCapacity:   capacity,
		MinimumStay:       14,
		CapacityOverrides: overrides,
	}, clock.now)
	require.NoError(t, err)
	require.NoError(t, f.store.TimeSlots().Create(ctx, slot))

	_, err = f.index.Materialize(ctx, slot)
	require.NoError(t, err)
	return slot
}

func (f *fixture) indexRow(t *testing.T, slot *domain.TimeSlot, month string) domain.DateCapacity {
	t.Helper()
	rows, err := f.store.DateCapacities().ListBySlot(context.Background(), slot.OpportunityID, slot.ID)
	require.NoError(t, err)
	for _, row := range rows {
		if row.Month.String() == month {
			return row
		}
	}
	t.Fatalf("index row for %s not found", month)
	return domain.DateCapacity{}
}

func TestApplyUntilFilled(t *testing.T) {
	f := newFixture()
	slot := f.seedSlot(t, 2)
	july := mustMonth(t, "2024-07")
	ctx := context.Background()

	first, err := f.usecase.Execute(ctx, &Request{OpportunityID: slot.OpportunityID, TimeSlotID: slot.ID, Month: &july, ApplicationRef: ptr.Ptr("app-1")})
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusApplied, first.Status)
	assert.Equal(t, 1, first.Available)
	assert.Equal(t, domain.SlotStatusOpen, first.SlotStatus)
	assert.Equal(t, "app-1", *first.ApplicationRef)

	second, err := f.usecase.Execute(ctx, &Request{OpportunityID: slot.OpportunityID, TimeSlotID: slot.ID, Month: &july})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Available)
	assert.Equal(t, domain.SlotStatusFilled, second.SlotStatus)

	_, err = f.usecase.Execute(ctx, &Request{OpportunityID: slot.OpportunityID, TimeSlotID: slot.ID, Month: &july})
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)

	row := f.indexRow(t, slot, "2024-07")
	assert.Equal(t, 2, row.BookedCount)
	assert.Equal(t, 0, row.Available())

	stored, err := f.store.TimeSlots().GetByID(ctx, slot.OpportunityID, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.AppliedCount)
	assert.Equal(t, domain.SlotStatusFilled, stored.Status)

	// FILLED слот остаётся бронируемым для других месяцев
	june := mustMonth(t, "2024-06")
	_, err = f.usecase.Execute(ctx, &Request{OpportunityID: slot.OpportunityID, TimeSlotID: slot.ID, Month: &june})
	require.NoError(t, err)

	assert.Equal(t, 3, f.outcomes.counts[metrics.OutcomeApplied])
	assert.Equal(t, 1, f.outcomes.counts[metrics.OutcomeExceeded])
}

func TestApplyAgainstOverride(t *testing.T) {
	f := newFixture()
	slot := f.seedSlot(t, 3, domain.CapacityOverrideInput{
		StartDate: mustDate(t, "2024-07-10"),
		EndDate:   mustDate(t, "2024-07-20"),
		Capacity:  1,
	})
	ctx := context.Background()
	inside := mustDate(t, "2024-07-15")

	resp, err := f.usecase.Execute(ctx, &Request{OpportunityID: slot.OpportunityID, TimeSlotID: slot.ID, Date: &inside})
	require.NoError(t, err)
	require.NotNil(t, resp.OverrideID)
	assert.Equal(t, 0, resp.Available)

	_, err = f.usecase.Execute(ctx, &Request{OpportunityID: slot.OpportunityID, TimeSlotID: slot.ID, Date: &inside})
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)

	// Бронь по override не расходует месячную ёмкость
	row := f.indexRow(t, slot, "2024-07")
	assert.Equal(t, 0, row.BookedCount)

	outside := mustDate(t, "2024-07-25")
	resp, err = f.usecase.Execute(ctx, &Request{OpportunityID: slot.OpportunityID, TimeSlotID: slot.ID, Date: &outside})
	require.NoError(t, err)
	assert.Nil(t, resp.OverrideID)
	assert.Equal(t, 2, resp.Available)
}

func TestConcurrentApplyNeverOverbooks(t *testing.T) {
	f := newFixture()
	slot := f.seedSlot(t, 1)
	july := mustMonth(t, "2024-07")

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.usecase.Execute(context.Background(), &Request{
				OpportunityID: slot.OpportunityID,
				TimeSlotID:    slot.ID,
				Month:         &july,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrCapacityExceeded), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.indexRow(t, slot, "2024-07").BookedCount)
}

func TestApplyValidation(t *testing.T) {
	f := newFixture()
	slot := f.seedSlot(t, 2)
	july := mustMonth(t, "2024-07")
	date := mustDate(t, "2024-07-01")
	september := mustMonth(t, "2024-09")
	longRef := string(make([]byte, domain.MaxApplicationRefLen+1))

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{"no target", &Request{OpportunityID: slot.OpportunityID, TimeSlotID: slot.ID}, domain.ErrInvalidTarget},
		{"both targets", &Request{OpportunityID: slot.OpportunityID, TimeSlotID: slot.ID, Month: &july, Date: &date}, domain.ErrInvalidTarget},
		{"bad opportunity", &Request{OpportunityID: 0, TimeSlotID: slot.ID, Month: &july}, domain.ErrInvalidOpportunity},
		{"long ref", &Request{OpportunityID: slot.OpportunityID, TimeSlotID: slot.ID, Month: &july, ApplicationRef: &longRef}, domain.ErrApplicationRefTooLong},
		{"outside slot", &Request{OpportunityID: slot.OpportunityID, TimeSlotID: slot.ID, Month: &september}, domain.ErrTargetOutsideSlot},
		{"nil slot id", &Request{OpportunityID: slot.OpportunityID, TimeSlotID: uuid.Nil, Month: &july}, domain.ErrValidation},
		{"unknown slot", &Request{OpportunityID: slot.OpportunityID, TimeSlotID: uuid.New(), Month: &july}, domain.ErrTimeSlotNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.usecase.Execute(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestApplyRejectsCancelledSlot(t *testing.T) {
	f := newFixture()
	slot := f.seedSlot(t, 2)
	ctx := context.Background()

	slot.Cancel(clock.now)
	require.NoError(t, f.store.TimeSlots().UpdateCounters(ctx, slot))

	july := mustMonth(t, "2024-07")
	_, err := f.usecase.Execute(ctx, &Request{OpportunityID: slot.OpportunityID, TimeSlotID: slot.ID, Month: &july})
	require.ErrorIs(t, err, domain.ErrSlotNotBookable)
	assert.Equal(t, 0, f.indexRow(t, slot, "2024-07").BookedCount)
}
