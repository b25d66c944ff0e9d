package get_availability

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/api/handlers"
	"github.com/m04kA/WX-CapacityService/internal/domain"
	getAvailability "github.com/m04kA/WX-CapacityService/internal/usecase/get_availability"
)

const (
	msgInvalidOpportunityID = "некорректный ID возможности"
	msgInvalidTimeSlotID    = "некорректный ID слота"
	msgInvalidMonth         = "некорректный формат месяца, ожидается YYYY-MM"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/opportunities/{opportunityId}/availability?startMonth=&endMonth=&timeSlotId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	opportunityID, err := handlers.Int64Var(r, "opportunityId")
	if err != nil {
		h.logger.Warn("GET /opportunities/{id}/availability - Invalid opportunity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOpportunityID)
		return
	}

	query := r.URL.Query()

	start, err := domain.ParseMonth(query.Get("startMonth"))
	if err != nil {
		h.logger.Warn("GET /opportunities/{id}/availability - Invalid startMonth: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	end, err := domain.ParseMonth(query.Get("endMonth"))
	if err != nil {
		h.logger.Warn("GET /opportunities/{id}/availability - Invalid endMonth: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	req := &getAvailability.Request{
		OpportunityID: opportunityID,
		StartMonth:    start,
		EndMonth:      end,
	}

	// Опциональный фильтр по одному слоту
	if raw := query.Get("timeSlotId"); raw != "" {
		slotID, err := uuid.Parse(raw)
		if err != nil {
			h.logger.Warn("GET /opportunities/{id}/availability - Invalid timeSlotId: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTimeSlotID)
			return
		}
		req.TimeSlotID = &slotID
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, "GET /opportunities/{id}/availability", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
