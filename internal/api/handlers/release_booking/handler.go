package release_booking

import (
	"net/http"

	"github.com/m04kA/WX-CapacityService/internal/api/handlers"
	releaseBooking "github.com/m04kA/WX-CapacityService/internal/usecase/release_booking"
)

const (
	msgInvalidOpportunityID = "некорректный ID возможности"
	msgInvalidTimeSlotID    = "некорректный ID слота"
	msgInvalidReservationID = "некорректный ID брони"
)

type Handler struct {
	useCase ReleaseBookingUseCase
	logger  Logger
}

func NewHandler(useCase ReleaseBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/opportunities/{opportunityId}/time-slots/{timeSlotId}/bookings/{reservationId}/release
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	opportunityID, err := handlers.Int64Var(r, "opportunityId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/release - Invalid opportunity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOpportunityID)
		return
	}

	slotID, err := handlers.UUIDVar(r, "timeSlotId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/release - Invalid time slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimeSlotID)
		return
	}

	reservationID, err := handlers.UUIDVar(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/release - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &releaseBooking.Request{
		OpportunityID: opportunityID,
		TimeSlotID:    slotID,
		ReservationID: reservationID,
	})
	if err != nil {
		handlers.RespondDomainError(w, h.logger, "POST /bookings/{id}/release", err)
		return
	}

	h.logger.Info("POST /bookings/{id}/release - Booking released: reservation_id=%s, slot_status=%s", reservationID, result.SlotStatus)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
