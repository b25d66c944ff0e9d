package release_booking

import (
	"time"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	releaseBooking "github.com/m04kA/WX-CapacityService/internal/usecase/release_booking"
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
	UpdatedAt      string  `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *releaseBooking.Response) *ReservationStateResponse {
	out := &ReservationStateResponse{
		ID:             resp.ReservationID.String(),
		Month:          resp.Month.String(),
		Status:         string(resp.Status),
		SlotStatus:     string(resp.SlotStatus),
		AppliedCount:   resp.AppliedCount,
		ConfirmedCount: resp.ConfirmedCount,
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Date != nil {
		out.Date = ptr.Ptr(resp.Date.Format(domain.DateFormat))
	}
	return out
}
