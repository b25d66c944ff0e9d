package list_time_slots

import (
	"context"

	"github.com/m04kA/WX-CapacityService/internal/service/timeslots/models"
)

type TimeSlotService interface {
	ListSlots(ctx context.Context, opportunityID int64) (*models.TimeSlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
