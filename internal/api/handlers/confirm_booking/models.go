package confirm_booking

import (
	"time"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	confirmBooking "github.com/m04kA/WX-CapacityService/internal/usecase/confirm_booking"
	"github.com/m04kA/WX-CapacityService/pkg/ptr"
)

// ReservationStateResponse HTTP response model
type ReservationStateResponse struct {
	ID             string  `json:"id"`
	Month          string  `json:"month"`
	Date           *string `json:"date,omitempty"`
	Status         string  `json:"status"`
	SlotStatus     string  `json:"slotStatus"`
	AppliedCount   int     `json:"appliedCount"`
	ConfirmedCount int     `json:"confirmedCount"`
	Changed        bool    `json:"changed"`
	UpdatedAt      string  `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmBooking.Response) *ReservationStateResponse {
	out := &ReservationStateResponse{
		ID:             resp.ReservationID.String(),
		Month:          resp.Month.String(),
		Status:         string(resp.Status),
		SlotStatus:     string(resp.SlotStatus),
		AppliedCount:   resp.AppliedCount,
		ConfirmedCount: resp.ConfirmedCount,
		Changed:        resp.Changed,
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Date != nil {
		out.Date = ptr.Ptr(resp.Date.Format(domain.DateFormat))
	}
	return out
}
