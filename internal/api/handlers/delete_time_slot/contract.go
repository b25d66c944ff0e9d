package delete_time_slot

import (
	"context"

	"github.com/google/uuid"
)

type TimeSlotService interface {
	DeleteSlot(ctx context.Context, opportunityID int64, slotID uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
