package refresh_statuses

import "github.com/m04kA/WX-CapacityService/internal/domain"

// Response итог одного прохода
type Response struct {
	Month   domain.Month // текущий месяц прохода
	Checked int          // слотов-кандидатов
	Closed  int          // переведено в CLOSED
	Failed  int          // ошибок по отдельным слотам
}
