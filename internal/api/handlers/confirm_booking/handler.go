package confirm_booking

import (
	"net/http"

	"github.com/m04kA/WX-CapacityService/internal/api/handlers"
	confirmBooking "github.com/m04kA/WX-CapacityService/internal/usecase/confirm_booking"
)

const (
	msgInvalidOpportunityID = "некорректный ID возможности"
	msgInvalidTimeSlotID    = "некорректный ID слота"
	msgInvalidReservationID = "некорректный ID брони"
)

type Handler struct {
	useCase ConfirmBookingUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/opportunities/{opportunityId}/time-slots/{timeSlotId}/bookings/{reservationId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	opportunityID, err := handlers.Int64Var(r, "opportunityId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/confirm - Invalid opportunity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOpportunityID)
		return
	}

	slotID, err := handlers.UUIDVar(r, "timeSlotId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/confirm - Invalid time slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimeSlotID)
		return
	}

	reservationID, err := handlers.UUIDVar(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/confirm - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmBooking.Request{
		OpportunityID: opportunityID,
		TimeSlotID:    slotID,
		ReservationID: reservationID,
	})
	if err != nil {
		handlers.RespondDomainError(w, h.logger, "POST /bookings/{id}/confirm", err)
		return
	}

	h.logger.Info("POST /bookings/{id}/confirm - Booking confirmed: reservation_id=%s, changed=%t", reservationID, result.Changed)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
