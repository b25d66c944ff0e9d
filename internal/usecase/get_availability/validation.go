package get_availability

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
)

// validateRequest валидирует диапазон месяцев и его длину
func validateRequest(req *Request, maxMonths int) error {
	if req.OpportunityID <= 0 {
		return fmt.Errorf("%w: opportunityId must be positive", domain.ErrInvalidOpportunity)
	}

	if req.StartMonth.IsZero() || req.EndMonth.IsZero() {
		return fmt.Errorf("%w: startMonth and endMonth are required", domain.ErrInvalidMonth)
	}

	if req.StartMonth.After(req.EndMonth) {
		return fmt.Errorf("%w: %s > %s", domain.ErrInvalidMonthRange, req.StartMonth, req.EndMonth)
	}

	if n := domain.MonthsBetween(req.StartMonth, req.EndMonth); n > maxMonths {
		return fmt.Errorf("%w: %d months, max %d", domain.ErrQueryRangeTooLong, n, maxMonths)
	}

	if req.TimeSlotID != nil && *req.TimeSlotID == uuid.Nil {
		return fmt.Errorf("%w: timeSlotId is empty", domain.ErrValidation)
	}

	return nil
}

// validateDateRequest валидирует запрос на дату
func validateDateRequest(req *DateRequest) error {
	if req.OpportunityID <= 0 {
		return fmt.Errorf("%w: opportunityId must be positive", domain.ErrInvalidOpportunity)
	}
	if req.TimeSlotID == uuid.Nil {
		return fmt.Errorf("%w: timeSlotId is required", domain.ErrValidation)
	}
	if req.Date.IsZero() {
		return domain.ErrInvalidDate
	}
	return nil
}
