package get_availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
)

// IndexRepository интерфейс чтения индекса date_capacities
type IndexRepository interface {
	ListOpenByOpportunityRange(ctx context.Context, opportunityID int64, start, end, current domain.Month) ([]domain.DateCapacity, error)
}

// SlotRepository интерфейс чтения слотов
type SlotRepository interface {
	GetOpportunity(ctx context.Context, id int64) (*domain.Opportunity, error)
	GetByID(ctx context.Context, opportunityID int64, id uuid.UUID) (*domain.TimeSlot, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
