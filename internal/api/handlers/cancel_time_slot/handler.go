package cancel_time_slot

import (
	"net/http"

	"github.com/m04kA/WX-CapacityService/internal/api/handlers"
)

const (
	msgInvalidOpportunityID = "некорректный ID возможности"
	msgInvalidTimeSlotID    = "некорректный ID слота"
)

type Handler struct {
	service TimeSlotService
	logger  Logger
}

func NewHandler(service TimeSlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/opportunities/{opportunityId}/time-slots/{timeSlotId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	opportunityID, err := handlers.Int64Var(r, "opportunityId")
	if err != nil {
		h.logger.Warn("POST /time-slots/{id}/cancel - Invalid opportunity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOpportunityID)
		return
	}

	slotID, err := handlers.UUIDVar(r, "timeSlotId")
	if err != nil {
		h.logger.Warn("POST /time-slots/{id}/cancel - Invalid time slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimeSlotID)
		return
	}

	slot, err := h.service.CancelSlot(r.Context(), opportunityID, slotID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, "POST /time-slots/{id}/cancel", err)
		return
	}

	h.logger.Info("POST /time-slots/{id}/cancel - Time slot cancelled: slot_id=%s", slotID)
	handlers.RespondJSON(w, http.StatusOK, slot)
}
