package create_time_slot

import (
	"net/http"

	"github.com/m04kA/WX-CapacityService/internal/api/handlers"
)

const (
	msgInvalidOpportunityID = "некорректный ID возможности"
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

// Handle POST /api/v1/opportunities/{opportunityId}/time-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	opportunityID, err := handlers.Int64Var(r, "opportunityId")
	if err != nil {
		h.logger.Warn("POST /opportunities/{id}/time-slots - Invalid opportunity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOpportunityID)
		return
	}

	var req handlers.SlotDefinitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /opportunities/{id}/time-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Парсим месяцы и даты
	def, err := req.ToDomain()
	if err != nil {
		h.logger.Warn("POST /opportunities/{id}/time-slots - Failed to parse definition: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	slot, err := h.service.CreateSlot(r.Context(), opportunityID, def)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, "POST /opportunities/{id}/time-slots", err)
		return
	}

	h.logger.Info("POST /opportunities/{id}/time-slots - Time slot created: opportunity_id=%d, slot_id=%s",
		opportunityID, slot.ID)
	handlers.RespondJSON(w, http.StatusCreated, slot)
}
