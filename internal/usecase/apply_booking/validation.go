package apply_booking

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
)

// validateRequest валидирует входные данные и строит цель брони
func validateRequest(req *Request) (domain.Target, error) {
	if req.OpportunityID <= 0 {
		return domain.Target{}, fmt.Errorf("%w: opportunityId must be positive", domain.ErrInvalidOpportunity)
	}

	if req.TimeSlotID == uuid.Nil {
		return domain.Target{}, fmt.Errorf("%w: timeSlotId is required", domain.ErrValidation)
	}

	if req.ApplicationRef != nil && len(*req.ApplicationRef) > domain.MaxApplicationRefLen {
		return domain.Target{}, domain.ErrApplicationRefTooLong
	}

	switch {
	case req.Month != nil && req.Date != nil:
		return domain.Target{}, fmt.Errorf("%w: both month and date given", domain.ErrInvalidTarget)
	case req.Date != nil:
		if req.Date.IsZero() {
			return domain.Target{}, domain.ErrInvalidDate
		}
		return domain.DateTarget(*req.Date), nil
	case req.Month != nil:
		if req.Month.IsZero() {
			return domain.Target{}, domain.ErrInvalidMonth
		}
		return domain.MonthTarget(*req.Month), nil
	default:
		return domain.Target{}, domain.ErrInvalidTarget
	}
}
