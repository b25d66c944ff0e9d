package timeslots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
)

// SlotRepository интерфейс репозитория возможностей и слотов
type SlotRepository interface {
	CreateOpportunity(ctx context.Context, opportunity *domain.Opportunity) (*domain.Opportunity, error)
	GetOpportunity(ctx context.Context, id int64) (*domain.Opportunity, error)
	GetOpportunityForUpdate(ctx context.Context, id int64) (*domain.Opportunity, error)
	UpdateOpportunity(ctx context.Context, opportunity *domain.Opportunity) error
	Create(ctx context.Context, slot *domain.TimeSlot) error
	GetByID(ctx context.Context, opportunityID int64, id uuid.UUID) (*domain.TimeSlot, error)
	GetForUpdate(ctx context.Context, opportunityID int64, id uuid.UUID) (*domain.TimeSlot, error)
	ListByOpportunity(ctx context.Context, opportunityID int64) ([]*domain.TimeSlot, error)
	CountByOpportunity(ctx context.Context, opportunityID int64) (int, error)
	Update(ctx context.Context, slot *domain.TimeSlot) error
	UpdateCounters(ctx context.Context, slot *domain.TimeSlot) error
	Delete(ctx context.Context, opportunityID int64, id uuid.UUID) error
}

// ReservationRepository интерфейс для проверки зависимых броней
type ReservationRepository interface {
	CountActiveBySlot(ctx context.Context, opportunityID int64, slotID uuid.UUID) (int, error)
}

// Materializer интерфейс построения индекса date_capacities
type Materializer interface {
	Materialize(ctx context.Context, slot *domain.TimeSlot) (int, error)
	Purge(ctx context.Context, opportunityID int64, slotID uuid.UUID) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
