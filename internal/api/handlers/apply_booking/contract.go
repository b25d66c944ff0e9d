package apply_booking

import (
	"context"

	applyBooking "github.com/m04kA/WX-CapacityService/internal/usecase/apply_booking"
)

type ApplyBookingUseCase interface {
	Execute(ctx context.Context, req *applyBooking.Request) (*applyBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
