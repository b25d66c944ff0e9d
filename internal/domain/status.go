package domain

import "time"

// DeriveStatus computes the slot status from the current status, counts and wall-clock time.
//
// Правила:
//   - CANCELLED и CLOSED автоматически не покидаются
//   - endMonth строго раньше текущего месяца -> CLOSED
//   - appliedCount >= defaultCapacity -> FILLED, иначе OPEN
//
// Функция чистая и идемпотентная, вызывается перед каждой записью слота.
func DeriveStatus(current SlotStatus, appliedCount, defaultCapacity int, endMonth Month, now time.Time) SlotStatus {
	if current.IsTerminal() {
		return current
	}

	if endMonth.Before(MonthOf(now)) {
		return SlotStatusClosed
	}

	if appliedCount >= defaultCapacity {
		return SlotStatusFilled
	}

	return SlotStatusOpen
}
