package update_time_slot

import (
	"net/http"

	"github.com/m04kA/WX-CapacityService/internal/api/handlers"
)

const (
	msgInvalidOpportunityID = "некорректный ID возможности"
	msgInvalidTimeSlotID    = "некорректный ID слота"
	msgInvalidRequestBody   = "некорректное тело запроса"
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

// Handle PUT /api/v1/opportunities/{opportunityId}/time-slots/{timeSlotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	opportunityID, err := handlers.Int64Var(r, "opportunityId")
	if err != nil {
		h.logger.Warn("PUT /time-slots/{id} - Invalid opportunity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOpportunityID)
		return
	}

	slotID, err := handlers.UUIDVar(r, "timeSlotId")
	if err != nil {
		h.logger.Warn("PUT /time-slots/{id} - Invalid time slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimeSlotID)
		return
	}

	var req handlers.SlotDefinitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /time-slots/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	def, err := req.ToDomain()
	if err != nil {
		h.logger.Warn("PUT /time-slots/{id} - Failed to parse definition: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	slot, err := h.service.UpdateSlot(r.Context(), opportunityID, slotID, def)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, "PUT /time-slots/{id}", err)
		return
	}

	h.logger.Info("PUT /time-slots/{id} - Time slot updated: slot_id=%s, status=%s", slot.ID, slot.Status)
	handlers.RespondJSON(w, http.StatusOK, slot)
}
