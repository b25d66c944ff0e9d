package release_booking

import (
	"context"

	releaseBooking "github.com/m04kA/WX-CapacityService/internal/usecase/release_booking"
)

type ReleaseBookingUseCase interface {
	Execute(ctx context.Context, req *releaseBooking.Request) (*releaseBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
