package api

import (
	"net/http"

	"github.com/gorilla/mux"

	applyBookingHandler "github.com/m04kA/WX-CapacityService/internal/api/handlers/apply_booking"
	cancelTimeSlotHandler "github.com/m04kA/WX-CapacityService/internal/api/handlers/cancel_time_slot"
	confirmBookingHandler "github.com/m04kA/WX-CapacityService/internal/api/handlers/confirm_booking"
	createTimeSlotHandler "github.com/m04kA/WX-CapacityService/internal/api/handlers/create_time_slot"
	deleteTimeSlotHandler "github.com/m04kA/WX-CapacityService/internal/api/handlers/delete_time_slot"
	getAvailabilityHandler "github.com/m04kA/WX-CapacityService/internal/api/handlers/get_availability"
	getDateAvailabilityHandler "github.com/m04kA/WX-CapacityService/internal/api/handlers/get_date_availability"
	getOpportunityHandler "github.com/m04kA/WX-CapacityService/internal/api/handlers/get_opportunity"
	getTimeSlotHandler "github.com/m04kA/WX-CapacityService/internal/api/handlers/get_time_slot"
	listTimeSlotsHandler "github.com/m04kA/WX-CapacityService/internal/api/handlers/list_time_slots"
	rebuildHandler "github.com/m04kA/WX-CapacityService/internal/api/handlers/rebuild_date_capacities"
	registerOpportunityHandler "github.com/m04kA/WX-CapacityService/internal/api/handlers/register_opportunity"
	releaseBookingHandler "github.com/m04kA/WX-CapacityService/internal/api/handlers/release_booking"
	updateTimeSlotHandler "github.com/m04kA/WX-CapacityService/internal/api/handlers/update_time_slot"
	"github.com/m04kA/WX-CapacityService/internal/app"
	"github.com/m04kA/WX-CapacityService/pkg/logger"
)

// RegisterRoutes вешает все маршруты /api/v1 на роутер
func RegisterRoutes(r *mux.Router, c *app.Container, log *logger.Logger) {
	// Инициализируем handlers
	registerOpportunity := registerOpportunityHandler.NewHandler(c.TimeSlots, log)
	getOpportunity := getOpportunityHandler.NewHandler(c.TimeSlots, log)
	createTimeSlot := createTimeSlotHandler.NewHandler(c.TimeSlots, log)
	listTimeSlots := listTimeSlotsHandler.NewHandler(c.TimeSlots, log)
	getTimeSlot := getTimeSlotHandler.NewHandler(c.TimeSlots, log)
	updateTimeSlot := updateTimeSlotHandler.NewHandler(c.TimeSlots, log)
	deleteTimeSlot := deleteTimeSlotHandler.NewHandler(c.TimeSlots, log)
	cancelTimeSlot := cancelTimeSlotHandler.NewHandler(c.TimeSlots, log)
	getAvailability := getAvailabilityHandler.NewHandler(c.Availability, log)
	getDateAvailability := getDateAvailabilityHandler.NewHandler(c.Availability, log)
	applyBooking := applyBookingHandler.NewHandler(c.ApplyBooking, log)
	confirmBooking := confirmBookingHandler.NewHandler(c.ConfirmBooking, log)
	releaseBooking := releaseBookingHandler.NewHandler(c.ReleaseBooking, log)
	rebuild := rebuildHandler.NewHandler(c.Index, log)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Возможности
	api.HandleFunc("/opportunities", registerOpportunity.Handle).Methods(http.MethodPost)
	api.HandleFunc("/opportunities/{opportunityId}", getOpportunity.Handle).Methods(http.MethodGet)

	// Слоты
	slots := "/opportunities/{opportunityId}/time-slots"
	slot := slots + "/{timeSlotId}"
	api.HandleFunc(slots, createTimeSlot.Handle).Methods(http.MethodPost)
	api.HandleFunc(slots, listTimeSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc(slot, getTimeSlot.Handle).Methods(http.MethodGet)
	api.HandleFunc(slot, updateTimeSlot.Handle).Methods(http.MethodPut)
	api.HandleFunc(slot, deleteTimeSlot.Handle).Methods(http.MethodDelete)
	api.HandleFunc(slot+"/cancel", cancelTimeSlot.Handle).Methods(http.MethodPost)

	// Доступность
	api.HandleFunc("/opportunities/{opportunityId}/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc(slot+"/availability/{date}", getDateAvailability.Handle).Methods(http.MethodGet)

	// Брони
	api.HandleFunc(slot+"/bookings", applyBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc(slot+"/bookings/{reservationId}/confirm", confirmBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc(slot+"/bookings/{reservationId}/release", releaseBooking.Handle).Methods(http.MethodPost)

	// Администрирование индекса
	api.HandleFunc("/opportunities/{opportunityId}/date-capacities/rebuild", rebuild.Handle).Methods(http.MethodPost)
}
