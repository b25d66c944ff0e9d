package apply_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetForUpdate(ctx context.Context, opportunityID int64, id uuid.UUID) (*domain.TimeSlot, error)
	UpdateCounters(ctx context.Context, slot *domain.TimeSlot) error
}

// ReservationRepository интерфейс журнала броней
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
}

// IndexSyncer переносит счётчики месяца в индекс date_capacities
type IndexSyncer interface {
	SyncMonth(ctx context.Context, slot *domain.TimeSlot, month domain.Month) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsCollector счётчик исходов бронирования
type MetricsCollector interface {
	ObserveBooking(outcome string)
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
