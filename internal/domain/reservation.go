package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus represents the status of a booking counter entry
type ReservationStatus string

const (
	ReservationStatusApplied   ReservationStatus = "applied"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusReleased  ReservationStatus = "released"
)

// Reservation one unit of capacity held by an application
type Reservation struct {
	ID             uuid.UUID
	OpportunityID  int64
	TimeSlotID     uuid.UUID
	Month          Month
	Date           *time.Time
	OverrideID     *uuid.UUID // не nil, если место взято из override
	ApplicationRef *string
	Status         ReservationStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsActive returns true if the reservation still holds capacity
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusApplied || r.Status == ReservationStatusConfirmed
}

// CanBeConfirmed returns true if the reservation can move to confirmed
func (r *Reservation) CanBeConfirmed() bool {
	return r.Status == ReservationStatusApplied
}

// CanBeReleased returns true if the reservation can be withdrawn
func (r *Reservation) CanBeReleased() bool {
	return r.IsActive()
}

// Target the capacity unit the reservation was taken against
func (r *Reservation) Target() Target {
	if r.Date != nil {
		return DateTarget(*r.Date)
	}
	return MonthTarget(r.Month)
}
