package apply_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
)

// Request модель запроса на бронирование места
// Указывается ровно одно из Month / Date
type Request struct {
	OpportunityID  int64
	TimeSlotID     uuid.UUID
	Month          *domain.Month
	Date           *time.Time
	ApplicationRef *string // ссылка на заявку во внешнем workflow (опционально)
}

// Response модель ответа с созданной бронью
type Response struct {
	ReservationID  uuid.UUID
	OpportunityID  int64
	TimeSlotID     uuid.UUID
	Month          domain.Month
	Date           *time.Time
	OverrideID     *uuid.UUID
	ApplicationRef *string
	Status         domain.ReservationStatus
	SlotStatus     domain.SlotStatus
	AppliedCount   int
	ConfirmedCount int
	Available      int // остаток мест в забронированной единице
	CreatedAt      time.Time
}
