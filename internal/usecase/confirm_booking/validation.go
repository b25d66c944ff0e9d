package confirm_booking

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
)

// validateRequest валидирует идентификаторы запроса
func validateRequest(req *Request) error {
	if req.OpportunityID <= 0 {
		return fmt.Errorf("%w: opportunityId must be positive", domain.ErrInvalidOpportunity)
	}
	if req.TimeSlotID == uuid.Nil {
		return fmt.Errorf("%w: timeSlotId is required", domain.ErrValidation)
	}
	if req.ReservationID == uuid.Nil {
		return fmt.Errorf("%w: reservationId is required", domain.ErrValidation)
	}
	return nil
}
