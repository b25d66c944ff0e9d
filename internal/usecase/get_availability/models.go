package get_availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
)

// Request модель запроса доступности по месяцам
type Request struct {
	OpportunityID int64
	StartMonth    domain.Month
	EndMonth      domain.Month
	TimeSlotID    *uuid.UUID // если задан, считается доступность одного слота
}

// Response модель ответа: ровно одна запись на каждый месяц диапазона
type Response struct {
	OpportunityID int64
	TimeSlotID    *uuid.UUID
	StartMonth    domain.Month
	EndMonth      domain.Month
	Months        []domain.MonthAvailability
}

// DateRequest модель запроса доступности одного слота на дату
type DateRequest struct {
	OpportunityID int64
	TimeSlotID    uuid.UUID
	Date          time.Time
}

// DateResponse эффективная ёмкость слота на дату
type DateResponse struct {
	OpportunityID int64
	TimeSlotID    uuid.UUID
	Date          time.Time
	Capacity      int
	BookedCount   int
	Available     int
	IsAvailable   bool
	Source        domain.CapacitySource
	OverrideID    *uuid.UUID
	SlotStatus    domain.SlotStatus
}
