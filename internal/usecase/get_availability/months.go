package get_availability

import (
	"github.com/m04kA/WX-CapacityService/internal/domain"
)

// aggregateRows суммирует строки индекса по месяцам.
// Месяцы без строк остаются нулевыми, порядок месяцев совпадает с диапазоном.
func aggregateRows(months []domain.Month, rows []domain.DateCapacity) []domain.MonthAvailability {
	result := make([]domain.MonthAvailability, len(months))
	position := make(map[domain.Month]int, len(months))
	for i, m := range months {
		result[i] = domain.EmptyMonth(m)
		position[m] = i
	}

	for _, row := range rows {
		i, ok := position[row.Month]
		if !ok {
			continue
		}
		result[i].Add(row.TimeSlotID, row.Capacity, row.BookedCount)
	}

	return result
}

// resolveSlot считает доступность одного слота резолвером по каждому месяцу.
// Для слотов, не принимающих брони, ёмкость показывается, но мест нет.
func resolveSlot(slot *domain.TimeSlot, months []domain.Month) []domain.MonthAvailability {
	bookable := slot.IsBookable()

	result := make([]domain.MonthAvailability, 0, len(months))
	for _, m := range months {
		month := domain.FromResolution(m, domain.Resolve(slot, domain.MonthTarget(m)))
		if !bookable {
			month.Available = 0
			month.IsAvailable = false
		}
		result = append(result, month)
	}

	return result
}
