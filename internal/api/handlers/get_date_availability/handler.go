package get_date_availability

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/WX-CapacityService/internal/api/handlers"
	"github.com/m04kA/WX-CapacityService/internal/domain"
	getAvailability "github.com/m04kA/WX-CapacityService/internal/usecase/get_availability"
)

const (
	msgInvalidOpportunityID = "некорректный ID возможности"
	msgInvalidTimeSlotID    = "некорректный ID слота"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	useCase GetDateAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetDateAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/opportunities/{opportunityId}/time-slots/{timeSlotId}/availability/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	opportunityID, err := handlers.Int64Var(r, "opportunityId")
	if err != nil {
		h.logger.Warn("GET /time-slots/{id}/availability/{date} - Invalid opportunity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOpportunityID)
		return
	}

	slotID, err := handlers.UUIDVar(r, "timeSlotId")
	if err != nil {
		h.logger.Warn("GET /time-slots/{id}/availability/{date} - Invalid time slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimeSlotID)
		return
	}

	date, err := domain.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		h.logger.Warn("GET /time-slots/{id}/availability/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.ExecuteDate(r.Context(), &getAvailability.DateRequest{
		OpportunityID: opportunityID,
		TimeSlotID:    slotID,
		Date:          date,
	})
	if err != nil {
		handlers.RespondDomainError(w, h.logger, "GET /time-slots/{id}/availability/{date}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
