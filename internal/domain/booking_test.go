package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveUntilCapacityExceeded(t *testing.T) {
	slot := summerSlot(t)
	july := MonthTarget(month(t, "2024-07"))

	for i := 0; i < 2; i++ {
		r, err := slot.Reserve(july, testNow)
		require.NoError(t, err)
		assert.Equal(t, ReservationStatusApplied, r.Status)
		assert.Equal(t, slot.ID, r.TimeSlotID)
		assert.Nil(t, r.OverrideID)
	}
	assert.Equal(t, SlotStatusFilled, slot.Status)
	assert.Equal(t, 2, slot.AppliedCount)

	_, err := slot.Reserve(july, testNow)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 2, slot.AppliedCount)

	res := Resolve(slot, july)
	assert.Equal(t, res.Capacity, res.BookedCount)
}

func TestReserveAgainstOverride(t *testing.T) {
	slot := summerSlot(t, CapacityOverrideInput{
		StartDate: date(t, "2024-07-10"),
		EndDate:   date(t, "2024-07-20"),
		Capacity:  1,
	})

	r, err := slot.Reserve(DateTarget(date(t, "2024-07-15")), testNow)
	require.NoError(t, err)
	require.NotNil(t, r.OverrideID)
	require.NotNil(t, r.Date)
	assert.Equal(t, slot.CapacityOverrides[0].ID, *r.OverrideID)
	assert.Equal(t, 1, slot.CapacityOverrides[0].BookedCount)

	// месячный счётчик не тронут
	assert.Equal(t, 0, slot.MonthlyCapacities[slot.MonthlyCapacityFor(month(t, "2024-07"))].BookedCount)

	_, err = slot.Reserve(DateTarget(date(t, "2024-07-12")), testNow)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	// бронь держит собственные копии даты и override id
	assert.NotSame(t, &slot.CapacityOverrides[0].ID, r.OverrideID)
	target := DateTarget(date(t, "2024-07-25"))
	held, err := slot.Reserve(target, testNow)
	require.NoError(t, err)
	*target.Date = date(t, "2024-08-01")
	assert.Equal(t, date(t, "2024-07-25"), *held.Date)
	require.NoError(t, slot.Release(held, testNow))

	// дата вне override бронируется по месяцу
	_, err = slot.Reserve(DateTarget(date(t, "2024-07-25")), testNow)
	assert.NoError(t, err)

	require.NoError(t, slot.Release(r, testNow))
	assert.Equal(t, 0, slot.CapacityOverrides[0].BookedCount)
	assert.Equal(t, 1, slot.AppliedCount)
}

func TestReserveOutsideSlot(t *testing.T) {
	slot := summerSlot(t)

	_, err := slot.Reserve(MonthTarget(month(t, "2024-09")), testNow)
	assert.ErrorIs(t, err, ErrTargetOutsideSlot)
	assert.Equal(t, 0, slot.AppliedCount)
}

func TestConfirmAndRelease(t *testing.T) {
	slot := summerSlot(t)
	r, err := slot.Reserve(MonthTarget(month(t, "2024-06")), testNow)
	require.NoError(t, err)

	changed, err := slot.Confirm(r, testNow)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, slot.ConfirmedCount)
	assert.Equal(t, 1, slot.AppliedCount)

	changed, err = slot.Confirm(r, testNow)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, slot.ConfirmedCount)

	require.NoError(t, slot.Release(r, testNow))
	assert.Equal(t, 0, slot.ConfirmedCount)
	assert.Equal(t, 0, slot.AppliedCount)
	assert.Equal(t, ReservationStatusReleased, r.Status)
	assert.LessOrEqual(t, slot.ConfirmedCount, slot.AppliedCount)

	assert.ErrorIs(t, slot.Release(r, testNow), ErrReservationNotActive)
	_, err = slot.Confirm(r, testNow)
	assert.ErrorIs(t, err, ErrReservationNotActive)
}

func TestOpportunityDerive(t *testing.T) {
	o := &Opportunity{ID: 1}

	assert.True(t, o.Derive(2, testNow))
	assert.True(t, o.HasTimeSlots)
	assert.False(t, o.Derive(1, testNow))
	assert.True(t, o.Derive(0, testNow))
	assert.False(t, o.HasTimeSlots)
}

func TestMonthAvailabilityAdd(t *testing.T) {
	a := EmptyMonth(month(t, "2024-07"))
	assert.False(t, a.IsAvailable)

	slot := summerSlot(t)
	a.Add(slot.ID, 2, 2)
	assert.False(t, a.IsAvailable)
	a.Add(slot.ID, 3, 1)

	assert.Equal(t, 5, a.Capacity)
	assert.Equal(t, 3, a.BookedCount)
	assert.Equal(t, 2, a.Available)
	assert.True(t, a.IsAvailable)
	assert.Len(t, a.Slots, 2)
}
