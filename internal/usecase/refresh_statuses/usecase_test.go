package refresh_statuses

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	"github.com/m04kA/WX-CapacityService/internal/infra/storage/memory"
	"github.com/m04kA/WX-CapacityService/pkg/logger"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type statusCounter map[string]int

func (c statusCounter) ObserveStatusChange(to string) { c[to]++ }

func seed(t *testing.T, store *memory.Store, oppID int64, start, end string, created time.Time) *domain.TimeSlot {
	t.Helper()
	s, err := domain.ParseMonth(start)
	require.NoError(t, err)
	e, err := domain.ParseMonth(end)
	require.NoError(t, err)

	slot, err := domain.NewTimeSlot(oppID, domain.SlotDefinition{StartMonth: s, EndMonth: e, DefaultCapacity: 2, MinimumStay: 7}, created)
	require.NoError(t, err)
	require.NoError(t, store.TimeSlots().Create(context.Background(), slot))
	return slot
}

func TestRefreshClosesEndedSlots(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	created := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	opp, err := store.TimeSlots().CreateOpportunity(ctx, &domain.Opportunity{HostID: 1, CreatedAt: created, UpdatedAt: created})
	require.NoError(t, err)

	ended := seed(t, store, opp.ID, "2024-02", "2024-03", created)
	current := seed(t, store, opp.ID, "2024-03", "2024-04", created)
	cancelled := seed(t, store, opp.ID, "2024-01", "2024-02", created)
	cancelled.Cancel(created)
	require.NoError(t, store.TimeSlots().UpdateCounters(ctx, cancelled))

	counter := statusCounter{}
	uc := NewUseCase(store.TimeSlots(), store, counter, fixedClock{now: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)}, logger.NewNop())

	resp, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Checked)
	assert.Equal(t, 1, resp.Closed)
	assert.Equal(t, 0, resp.Failed)
	assert.Equal(t, 1, counter[string(domain.SlotStatusClosed)])

	got, err := store.TimeSlots().GetByID(ctx, opp.ID, ended.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotStatusClosed, got.Status)

	got, err = store.TimeSlots().GetByID(ctx, opp.ID, current.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotStatusOpen, got.Status)

	got, err = store.TimeSlots().GetByID(ctx, opp.ID, cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotStatusCancelled, got.Status)

	// Повторный проход ничего не меняет
	resp, err = uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Checked)
	assert.Equal(t, 0, resp.Closed)
}
