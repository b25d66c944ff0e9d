package rebuild_date_capacities

import (
	"net/http"

	"github.com/m04kA/WX-CapacityService/internal/api/handlers"
)

const msgInvalidOpportunityID = "некорректный ID возможности"

type Handler struct {
	service IndexService
	logger  Logger
}

func NewHandler(service IndexService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/opportunities/{opportunityId}/date-capacities/rebuild
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	opportunityID, err := handlers.Int64Var(r, "opportunityId")
	if err != nil {
		h.logger.Warn("POST /date-capacities/rebuild - Invalid opportunity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOpportunityID)
		return
	}

	rows, err := h.service.Rebuild(r.Context(), opportunityID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, "POST /date-capacities/rebuild", err)
		return
	}

	h.logger.Info("POST /date-capacities/rebuild - Index rebuilt: opportunity_id=%d, rows=%d", opportunityID, rows)
	handlers.RespondJSON(w, http.StatusOK, RebuildResponse{OpportunityID: opportunityID, RowsWritten: rows})
}
