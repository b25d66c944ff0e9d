package list_time_slots

import (
	"net/http"

	"github.com/m04kA/WX-CapacityService/internal/api/handlers"
)

const msgInvalidOpportunityID = "некорректный ID возможности"

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

// Handle GET /api/v1/opportunities/{opportunityId}/time-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	opportunityID, err := handlers.Int64Var(r, "opportunityId")
	if err != nil {
		h.logger.Warn("GET /opportunities/{id}/time-slots - Invalid opportunity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOpportunityID)
		return
	}

	slots, err := h.service.ListSlots(r.Context(), opportunityID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, "GET /opportunities/{id}/time-slots", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, slots)
}
