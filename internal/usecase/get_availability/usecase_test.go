package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	"github.com/m04kA/WX-CapacityService/internal/infra/storage/memory"
	"github.com/m04kA/WX-CapacityService/internal/service/datecapacity"
	"github.com/m04kA/WX-CapacityService/pkg/logger"
	"github.com/m04kA/WX-CapacityService/pkg/metrics"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var clock = fixedClock{now: time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)}

type fixture struct {
	store   *memory.Store
	index   *datecapacity.Service
	usecase *UseCase
	oppID   int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	log := logger.NewNop()

	opp, err := store.TimeSlots().CreateOpportunity(context.Background(), &domain.Opportunity{HostID: 3, CreatedAt: clock.now, UpdatedAt: clock.now})
	require.NoError(t, err)

	return &fixture{
		store:   store,
		index:   datecapacity.NewService(store.DateCapacities(), store.TimeSlots(), store, metrics.Nop{}, clock, log),
		usecase: NewUseCase(store.DateCapacities(), store.TimeSlots(), 12, clock, log),
		oppID:   opp.ID,
	}
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

func (f *fixture) addSlot(t *testing.T, def domain.SlotDefinition) *domain.TimeSlot {
	t.Helper()
	ctx := context.Background()
	slot, err := domain.NewTimeSlot(f.oppID, def, clock.now)
	require.NoError(t, err)
	require.NoError(t, f.store.TimeSlots().Create(ctx, slot))
	_, err = f.index.Materialize(ctx, slot)
	require.NoError(t, err)
	return slot
}

func TestAggregateAcrossOpenSlots(t *testing.T) {
	f := newFixture(t)
	a := f.addSlot(t, domain.SlotDefinition{
		StartMonth:        mustMonth(t, "2024-06"),
		EndMonth:          mustMonth(t, "2024-08"),
		DefaultCapacity:   2,
		MinimumStay:       7,
		MonthlyCapacities: []domain.MonthlyCapacityInput{{Month: mustMonth(t, "2024-07"), Capacity: 4}},
	})
	b := f.addSlot(t, domain.SlotDefinition{
		StartMonth:      mustMonth(t, "2024-07"),
		EndMonth:        mustMonth(t, "2024-09"),
		DefaultCapacity: 3,
		MinimumStay:     7,
	})

	resp, err := f.usecase.Execute(context.Background(), &Request{
		OpportunityID: f.oppID,
		StartMonth:    mustMonth(t, "2024-05"),
		EndMonth:      mustMonth(t, "2024-10"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Months, 6)

	type summary struct {
		Month     string
		Capacity  int
		Available int
		Slots     int
	}
	got := make([]summary, 0, len(resp.Months))
	for _, m := range resp.Months {
		got = append(got, summary{m.Month.String(), m.Capacity, m.Available, len(m.Slots)})
	}
	want := []summary{
		{"2024-05", 0, 0, 0},
		{"2024-06", 2, 2, 1},
		{"2024-07", 7, 7, 2},
		{"2024-08", 5, 5, 2},
		{"2024-09", 3, 3, 1},
		{"2024-10", 0, 0, 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("aggregate mismatch (-want +got):\n%s", diff)
	}

	july := resp.Months[2]
	ids := []uuid.UUID{july.Slots[0].TimeSlotID, july.Slots[1].TimeSlotID}
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, ids)
	assert.False(t, resp.Months[0].IsAvailable)
	assert.True(t, july.IsAvailable)
}

func TestAggregateSkipsNonOpenSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	def := domain.SlotDefinition{
		StartMonth:      mustMonth(t, "2024-06"),
		EndMonth:        mustMonth(t, "2024-06"),
		DefaultCapacity: 2,
		MinimumStay:     7,
	}
	f.addSlot(t, def)
	cancelled := f.addSlot(t, def)

	cancelled.Cancel(clock.now)
	require.NoError(t, f.store.TimeSlots().UpdateCounters(ctx, cancelled))

	resp, err := f.usecase.Execute(ctx, &Request{OpportunityID: f.oppID, StartMonth: mustMonth(t, "2024-06"), EndMonth: mustMonth(t, "2024-06")})
	require.NoError(t, err)
	require.Len(t, resp.Months, 1)
	assert.Equal(t, 2, resp.Months[0].Capacity)
	assert.Len(t, resp.Months[0].Slots, 1)

	// Одиночный запрос по отменённому слоту показывает ёмкость без свободных мест
	resp, err = f.usecase.Execute(ctx, &Request{OpportunityID: f.oppID, TimeSlotID: &cancelled.ID, StartMonth: mustMonth(t, "2024-06"), EndMonth: mustMonth(t, "2024-06")})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Months[0].Capacity)
	assert.Equal(t, 0, resp.Months[0].Available)
	assert.False(t, resp.Months[0].IsAvailable)
}

func TestAggregateUsesDerivedStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := f.addSlot(t, domain.SlotDefinition{
		StartMonth:      mustMonth(t, "2024-06"),
		EndMonth:        mustMonth(t, "2024-08"),
		DefaultCapacity: 2,
		MinimumStay:     7,
	})

	// Хранимый статус OPEN, периодический проход ещё не запускался
	stored, err := f.store.TimeSlots().GetByID(ctx, f.oppID, slot.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SlotStatusOpen, stored.Status)

	later := fixedClock{now: time.Date(2024, time.October, 1, 9, 0, 0, 0, time.UTC)}
	uc := NewUseCase(f.store.DateCapacities(), f.store.TimeSlots(), 12, later, logger.NewNop())

	req := &Request{OpportunityID: f.oppID, StartMonth: mustMonth(t, "2024-07"), EndMonth: mustMonth(t, "2024-07")}
	resp, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	require.Len(t, resp.Months, 1)
	assert.Equal(t, 0, resp.Months[0].Capacity)
	assert.False(t, resp.Months[0].IsAvailable)
	assert.Empty(t, resp.Months[0].Slots)

	// Одиночный путь согласован с агрегатом: слот уже CLOSED
	req.TimeSlotID = &slot.ID
	resp, err = uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Months[0].Available)
	assert.False(t, resp.Months[0].IsAvailable)

	// В последнем месяце слота он всё ещё открыт
	inLastMonth := fixedClock{now: time.Date(2024, time.August, 31, 23, 0, 0, 0, time.UTC)}
	uc = NewUseCase(f.store.DateCapacities(), f.store.TimeSlots(), 12, inLastMonth, logger.NewNop())
	resp, err = uc.Execute(ctx, &Request{OpportunityID: f.oppID, StartMonth: mustMonth(t, "2024-07"), EndMonth: mustMonth(t, "2024-07")})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Months[0].Capacity)
	assert.True(t, resp.Months[0].IsAvailable)
}

func TestSingleSlotUsesResolver(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(t, domain.SlotDefinition{
		StartMonth:      mustMonth(t, "2024-06"),
		EndMonth:        mustMonth(t, "2024-07"),
		DefaultCapacity: 5,
		MinimumStay:     7,
		CapacityOverrides: []domain.CapacityOverrideInput{
			{StartDate: mustDate(t, "2024-07-01"), EndDate: mustDate(t, "2024-07-10"), Capacity: 1},
		},
	})

	resp, err := f.usecase.Execute(context.Background(), &Request{
		OpportunityID: f.oppID,
		TimeSlotID:    &slot.ID,
		StartMonth:    mustMonth(t, "2024-07"),
		EndMonth:      mustMonth(t, "2024-08"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Months, 2)
	// Месячная цель не учитывает override
	assert.Equal(t, 5, resp.Months[0].Capacity)
	assert.Equal(t, 0, resp.Months[1].Capacity)

	date, err := f.usecase.ExecuteDate(context.Background(), &DateRequest{OpportunityID: f.oppID, TimeSlotID: slot.ID, Date: mustDate(t, "2024-07-05")})
	require.NoError(t, err)
	assert.Equal(t, 1, date.Capacity)
	assert.Equal(t, domain.SourceOverride, date.Source)
	require.NotNil(t, date.OverrideID)

	date, err = f.usecase.ExecuteDate(context.Background(), &DateRequest{OpportunityID: f.oppID, TimeSlotID: slot.ID, Date: mustDate(t, "2024-07-15")})
	require.NoError(t, err)
	assert.Equal(t, 5, date.Capacity)
	assert.Equal(t, domain.SourceMonthly, date.Source)
}

func TestAvailabilityValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.usecase.Execute(ctx, &Request{OpportunityID: f.oppID, StartMonth: mustMonth(t, "2024-08"), EndMonth: mustMonth(t, "2024-06")})
	require.ErrorIs(t, err, domain.ErrInvalidMonthRange)

	_, err = f.usecase.Execute(ctx, &Request{OpportunityID: f.oppID, StartMonth: mustMonth(t, "2024-01"), EndMonth: mustMonth(t, "2025-01")})
	require.ErrorIs(t, err, domain.ErrQueryRangeTooLong)

	_, err = f.usecase.Execute(ctx, &Request{OpportunityID: f.oppID + 100, StartMonth: mustMonth(t, "2024-01"), EndMonth: mustMonth(t, "2024-02")})
	require.ErrorIs(t, err, domain.ErrOpportunityNotFound)

	missing := uuid.New()
	_, err = f.usecase.Execute(ctx, &Request{OpportunityID: f.oppID, TimeSlotID: &missing, StartMonth: mustMonth(t, "2024-01"), EndMonth: mustMonth(t, "2024-02")})
	require.ErrorIs(t, err, domain.ErrTimeSlotNotFound)

	_, err = f.usecase.ExecuteDate(ctx, &DateRequest{OpportunityID: f.oppID, TimeSlotID: missing})
	require.ErrorIs(t, err, domain.ErrInvalidDate)
}
