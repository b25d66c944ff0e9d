package get_opportunity

import (
	"net/http"

	"github.com/m04kA/WX-CapacityService/internal/api/handlers"
)

const msgInvalidOpportunityID = "некорректный ID возможности"

type Handler struct {
	service OpportunityService
	logger  Logger
}

func NewHandler(service OpportunityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/opportunities/{opportunityId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	opportunityID, err := handlers.Int64Var(r, "opportunityId")
	if err != nil {
		h.logger.Warn("GET /opportunities/{id} - Invalid opportunity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOpportunityID)
		return
	}

	opportunity, err := h.service.GetOpportunity(r.Context(), opportunityID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, "GET /opportunities/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, opportunity)
}
