package apply_booking

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	applyBooking "github.com/m04kA/WX-CapacityService/internal/usecase/apply_booking"
	"github.com/m04kA/WX-CapacityService/pkg/ptr"
)

// ApplyBookingRequest HTTP request model, ровно одно из month / date
type ApplyBookingRequest struct {
	Month          *string `json:"month,omitempty"` // "2024-07"
	Date           *string `json:"date,omitempty"`  // "2024-07-15"
	ApplicationRef *string `json:"applicationRef,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID             string  `json:"id"`
	OpportunityID  int64   `json:"opportunityId"`
	TimeSlotID     string  `json:"timeSlotId"`
	Month          string  `json:"month"`
	Date           *string `json:"date,omitempty"`
	OverrideID     *string `json:"overrideId,omitempty"`
	ApplicationRef *string `json:"applicationRef,omitempty"`
	Status         string  `json:"status"`
	SlotStatus     string  `json:"slotStatus"`
	AppliedCount   int     `json:"appliedCount"`
	ConfirmedCount int     `json:"confirmedCount"`
	Available      int     `json:"available"`
	CreatedAt      string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом месяца или даты)
func (r *ApplyBookingRequest) ToUseCaseRequest(opportunityID int64, slotID uuid.UUID) (*applyBooking.Request, error) {
	req := &applyBooking.Request{
		OpportunityID:  opportunityID,
		TimeSlotID:     slotID,
		ApplicationRef: r.ApplicationRef,
	}

	if r.Month != nil {
		m, err := domain.ParseMonth(*r.Month)
		if err != nil {
			return nil, err
		}
		req.Month = &m
	}

	if r.Date != nil {
		d, err := domain.ParseDate(*r.Date)
		if err != nil {
			return nil, err
		}
		req.Date = &d
	}

	if req.Month == nil && req.Date == nil {
		return nil, errors.New("month or date is required")
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *applyBooking.Response) *ReservationResponse {
	out := &ReservationResponse{
		ID:             resp.ReservationID.String(),
		OpportunityID:  resp.OpportunityID,
		TimeSlotID:     resp.TimeSlotID.String(),
		Month:          resp.Month.String(),
		ApplicationRef: resp.ApplicationRef,
		Status:         string(resp.Status),
		SlotStatus:     string(resp.SlotStatus),
		AppliedCount:   resp.AppliedCount,
		ConfirmedCount: resp.ConfirmedCount,
		Available:      resp.Available,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
	}
	if resp.Date != nil {
		out.Date = ptr.Ptr(resp.Date.Format(domain.DateFormat))
	}
	if resp.OverrideID != nil {
		out.OverrideID = ptr.Ptr(resp.OverrideID.String())
	}
	return out
}
