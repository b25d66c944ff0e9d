package confirm_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
)

// Request модель запроса на подтверждение брони
type Request struct {
	OpportunityID int64
	TimeSlotID    uuid.UUID
	ReservationID uuid.UUID
}

// Response модель ответа с текущим состоянием брони и слота
type Response struct {
	ReservationID  uuid.UUID
	Month          domain.Month
	Date           *time.Time
	Status         domain.ReservationStatus
	SlotStatus     domain.SlotStatus
	AppliedCount   int
	ConfirmedCount int
	Changed        bool // false, если бронь уже была подтверждена
	UpdatedAt      time.Time
}
