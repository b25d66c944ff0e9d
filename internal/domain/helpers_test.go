package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// до начала тестовых слотов, чтобы они не закрывались по времени
var testNow = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

func month(t *testing.T, s string) Month {
	t.Helper()
	m, err := ParseMonth(s)
	require.NoError(t, err)
	return m
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

// summerSlot 2024-06..2024-08, capacity 2
func summerSlot(t *testing.T, overrides ...CapacityOverrideInput) *TimeSlot {
	t.Helper()
	slot, err := NewTimeSlot(1, SlotDefinition{
		StartMonth:        month(t, "2024-06"),
		EndMonth:          month(t, "2024-08"),
		DefaultCapacity:   2,
		MinimumStay:       14,
		CapacityOverrides: overrides,
	}, testNow)
	require.NoError(t, err)
	return slot
}
