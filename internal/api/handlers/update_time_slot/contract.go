package update_time_slot

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	"github.com/m04kA/WX-CapacityService/internal/service/timeslots/models"
)

type TimeSlotService interface {
	UpdateSlot(ctx context.Context, opportunityID int64, slotID uuid.UUID, def domain.SlotDefinition) (*models.TimeSlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
