package datecapacity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
)

// IndexRepository интерфейс репозитория индекса date_capacities
type IndexRepository interface {
	DeleteBySlot(ctx context.Context, opportunityID int64, slotID uuid.UUID) (int64, error)
	BulkInsert(ctx context.Context, rows []domain.DateCapacity) error
	ListBySlot(ctx context.Context, opportunityID int64, slotID uuid.UUID) ([]domain.DateCapacity, error)
	UpdateRow(ctx context.Context, row domain.DateCapacity) error
}

// SlotRepository интерфейс чтения слотов для полной перестройки индекса
type SlotRepository interface {
	GetOpportunityForUpdate(ctx context.Context, id int64) (*domain.Opportunity, error)
	ListByOpportunity(ctx context.Context, opportunityID int64) ([]*domain.TimeSlot, error)
	GetForUpdate(ctx context.Context, opportunityID int64, id uuid.UUID) (*domain.TimeSlot, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsCollector счётчик записанных строк индекса
type MetricsCollector interface {
	AddMaterializedRows(n int)
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
