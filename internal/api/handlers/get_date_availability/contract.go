package get_date_availability

import (
	"context"

	getAvailability "github.com/m04kA/WX-CapacityService/internal/usecase/get_availability"
)

type GetDateAvailabilityUseCase interface {
	ExecuteDate(ctx context.Context, req *getAvailability.DateRequest) (*getAvailability.DateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
