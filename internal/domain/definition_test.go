package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDefinition(t *testing.T) SlotDefinition {
	return SlotDefinition{
		StartMonth:      month(t, "2024-06"),
		EndMonth:        month(t, "2024-08"),
		DefaultCapacity: 2,
		MinimumStay:     14,
	}
}

func TestSlotDefinitionValidate(t *testing.T) {
	long := strings.Repeat("x", MaxDescriptionLength+1)

	tests := []struct {
		name   string
		mutate func(d *SlotDefinition)
		want   error
	}{
		{"missing start", func(d *SlotDefinition) { d.StartMonth = Month{} }, ErrInvalidMonth},
		{"start after end", func(d *SlotDefinition) { d.StartMonth = month(t, "2024-09") }, ErrInvalidMonthRange},
		{"too long", func(d *SlotDefinition) { d.EndMonth = month(t, "2030-01") }, ErrSlotTooLong},
		{"zero capacity", func(d *SlotDefinition) { d.DefaultCapacity = 0 }, ErrInvalidCapacity},
		{"zero minimum stay", func(d *SlotDefinition) { d.MinimumStay = 0 }, ErrInvalidMinimumStay},
		{"description", func(d *SlotDefinition) { d.Description = &long }, ErrDescriptionTooLong},
		{"monthly outside", func(d *SlotDefinition) {
			d.MonthlyCapacities = []MonthlyCapacityInput{{Month: month(t, "2024-09"), Capacity: 1}}
		}, ErrMonthOutsideSlot},
		{"monthly duplicate", func(d *SlotDefinition) {
			d.MonthlyCapacities = []MonthlyCapacityInput{
				{Month: month(t, "2024-07"), Capacity: 1},
				{Month: month(t, "2024-07"), Capacity: 3},
			}
		}, ErrDuplicateMonth},
		{"monthly zero capacity", func(d *SlotDefinition) {
			d.MonthlyCapacities = []MonthlyCapacityInput{{Month: month(t, "2024-07"), Capacity: 0}}
		}, ErrInvalidCapacity},
		{"override reversed", func(d *SlotDefinition) {
			d.CapacityOverrides = []CapacityOverrideInput{{StartDate: date(t, "2024-07-20"), EndDate: date(t, "2024-07-10"), Capacity: 1}}
		}, ErrInvalidOverrideRange},
		{"override outside", func(d *SlotDefinition) {
			d.CapacityOverrides = []CapacityOverrideInput{{StartDate: date(t, "2024-08-20"), EndDate: date(t, "2024-09-02"), Capacity: 1}}
		}, ErrOverrideOutsideSlot},
		{"override zero capacity", func(d *SlotDefinition) {
			d.CapacityOverrides = []CapacityOverrideInput{{StartDate: date(t, "2024-07-10"), EndDate: date(t, "2024-07-20"), Capacity: 0}}
		}, ErrInvalidCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition(t)
			tt.mutate(&def)

			err := def.Validate()
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	def := validDefinition(t)
	assert.NoError(t, def.Validate())
}

func TestNewTimeSlotBuildsMonthlyCapacities(t *testing.T) {
	def := validDefinition(t)
	def.MonthlyCapacities = []MonthlyCapacityInput{{Month: month(t, "2024-07"), Capacity: 5}}

	slot, err := NewTimeSlot(7, def, testNow)
	require.NoError(t, err)

	assert.Equal(t, int64(7), slot.OpportunityID)
	assert.Equal(t, SlotStatusOpen, slot.Status)
	assert.Equal(t, []MonthlyCapacity{
		{Month: month(t, "2024-06"), Capacity: 2},
		{Month: month(t, "2024-07"), Capacity: 5},
		{Month: month(t, "2024-08"), Capacity: 2},
	}, slot.MonthlyCapacities)

	_, err = NewTimeSlot(7, SlotDefinition{}, testNow)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApplyDefinitionCarriesBookings(t *testing.T) {
	slot := summerSlot(t, CapacityOverrideInput{
		StartDate: date(t, "2024-07-10"),
		EndDate:   date(t, "2024-07-20"),
		Capacity:  1,
	})
	overrideID := slot.CapacityOverrides[0].ID

	_, err := slot.Reserve(MonthTarget(month(t, "2024-07")), testNow)
	require.NoError(t, err)
	_, err = slot.Reserve(DateTarget(date(t, "2024-07-15")), testNow)
	require.NoError(t, err)

	// расширение диапазона не сбрасывает брони
	def := validDefinition(t)
	def.EndMonth = month(t, "2024-10")
	def.DefaultCapacity = 3
	def.CapacityOverrides = []CapacityOverrideInput{
		{StartDate: date(t, "2024-07-10"), EndDate: date(t, "2024-07-20"), Capacity: 2},
		{StartDate: date(t, "2024-09-01"), EndDate: date(t, "2024-09-05"), Capacity: 1},
	}
	require.NoError(t, slot.ApplyDefinition(def, testNow))

	require.Len(t, slot.MonthlyCapacities, 5)
	july := slot.MonthlyCapacities[slot.MonthlyCapacityFor(month(t, "2024-07"))]
	assert.Equal(t, MonthlyCapacity{Month: month(t, "2024-07"), Capacity: 3, BookedCount: 1}, july)
	assert.Equal(t, 2, slot.AppliedCount)

	require.Len(t, slot.CapacityOverrides, 2)
	assert.Equal(t, overrideID, slot.CapacityOverrides[0].ID)
	assert.Equal(t, 1, slot.CapacityOverrides[0].BookedCount)
	assert.Equal(t, 2, slot.CapacityOverrides[0].Capacity)
	assert.Greater(t, slot.CapacityOverrides[1].Position, slot.CapacityOverrides[0].Position)
}

func TestApplyDefinitionRejectsLosingBookings(t *testing.T) {
	slot := summerSlot(t, CapacityOverrideInput{
		StartDate: date(t, "2024-06-10"),
		EndDate:   date(t, "2024-06-20"),
		Capacity:  1,
	})
	_, err := slot.Reserve(MonthTarget(month(t, "2024-08")), testNow)
	require.NoError(t, err)

	shrink := validDefinition(t)
	shrink.EndMonth = month(t, "2024-07")
	shrink.CapacityOverrides = []CapacityOverrideInput{{StartDate: date(t, "2024-06-10"), EndDate: date(t, "2024-06-20"), Capacity: 1}}
	assert.ErrorIs(t, slot.ApplyDefinition(shrink, testNow), ErrBookedMonthRemoved)

	_, err = slot.Reserve(DateTarget(date(t, "2024-06-12")), testNow)
	require.NoError(t, err)

	dropOverride := validDefinition(t)
	assert.ErrorIs(t, slot.ApplyDefinition(dropOverride, testNow), ErrBookedOverrideGone)

	below := validDefinition(t)
	below.MonthlyCapacities = []MonthlyCapacityInput{{Month: month(t, "2024-08"), Capacity: 1}}
	below.CapacityOverrides = []CapacityOverrideInput{{StartDate: date(t, "2024-06-10"), EndDate: date(t, "2024-06-20"), Capacity: 1}}
	require.NoError(t, slot.ApplyDefinition(below, testNow))

	below.MonthlyCapacities = nil
	below.CapacityOverrides = []CapacityOverrideInput{{StartDate: date(t, "2024-06-10"), EndDate: date(t, "2024-06-20"), Capacity: 1}}
	below.DefaultCapacity = 1
	require.NoError(t, slot.ApplyDefinition(below, testNow))

	// слот не меняется при ошибке
	before := slot.EndMonth
	shrink.CapacityOverrides = nil
	assert.Error(t, slot.ApplyDefinition(shrink, testNow))
	assert.Equal(t, before, slot.EndMonth)
}

func TestApplyDefinitionStatusRules(t *testing.T) {
	slot := summerSlot(t)
	slot.Status = SlotStatusClosed
	require.NoError(t, slot.ApplyDefinition(validDefinition(t), testNow))
	assert.Equal(t, SlotStatusOpen, slot.Status)

	slot.Cancel(testNow)
	assert.ErrorIs(t, slot.ApplyDefinition(validDefinition(t), testNow), ErrSlotCancelled)
}
