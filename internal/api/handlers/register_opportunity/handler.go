package register_opportunity

import (
	"net/http"

	"github.com/m04kA/WX-CapacityService/internal/api/handlers"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidHostID      = "hostId должен быть положительным"
)

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

// Handle POST /api/v1/opportunities
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req RegisterOpportunityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /opportunities - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.HostID <= 0 {
		h.logger.Warn("POST /opportunities - Invalid host id: %d", req.HostID)
		handlers.RespondBadRequest(w, msgInvalidHostID)
		return
	}

	opportunity, err := h.service.RegisterOpportunity(r.Context(), req.HostID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, "POST /opportunities", err)
		return
	}

	h.logger.Info("POST /opportunities - Opportunity registered: id=%d, host_id=%d", opportunity.ID, opportunity.HostID)
	handlers.RespondJSON(w, http.StatusCreated, opportunity)
}
