package apply_booking

import (
	"net/http"

	"github.com/m04kA/WX-CapacityService/internal/api/handlers"
)

const (
	msgInvalidOpportunityID = "некорректный ID возможности"
	msgInvalidTimeSlotID    = "некорректный ID слота"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTarget        = "укажите month (YYYY-MM) или date (YYYY-MM-DD)"
)

type Handler struct {
	useCase ApplyBookingUseCase
	logger  Logger
}

func NewHandler(useCase ApplyBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/opportunities/{opportunityId}/time-slots/{timeSlotId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	opportunityID, err := handlers.Int64Var(r, "opportunityId")
	if err != nil {
		h.logger.Warn("POST /time-slots/{id}/bookings - Invalid opportunity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOpportunityID)
		return
	}

	slotID, err := handlers.UUIDVar(r, "timeSlotId")
	if err != nil {
		h.logger.Warn("POST /time-slots/{id}/bookings - Invalid time slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimeSlotID)
		return
	}

	var req ApplyBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /time-slots/{id}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(opportunityID, slotID)
	if err != nil {
		h.logger.Warn("POST /time-slots/{id}/bookings - Failed to parse target: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTarget)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, "POST /time-slots/{id}/bookings", err)
		return
	}

	h.logger.Info("POST /time-slots/{id}/bookings - Booking applied: reservation_id=%s, slot_id=%s, available=%d",
		result.ReservationID, result.TimeSlotID, result.Available)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
