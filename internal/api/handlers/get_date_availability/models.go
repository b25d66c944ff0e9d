package get_date_availability

import (
	"github.com/m04kA/WX-CapacityService/internal/domain"
	getAvailability "github.com/m04kA/WX-CapacityService/internal/usecase/get_availability"
	"github.com/m04kA/WX-CapacityService/pkg/ptr"
)

// DateAvailabilityResponse HTTP response model
type DateAvailabilityResponse struct {
	OpportunityID int64   `json:"opportunityId"`
	TimeSlotID    string  `json:"timeSlotId"`
	Date          string  `json:"date"`
	Capacity      int     `json:"capacity"`
	BookedCount   int     `json:"bookedCount"`
	Available     int     `json:"available"`
	IsAvailable   bool    `json:"isAvailable"`
	Source        string  `json:"source"`
	OverrideID    *string `json:"overrideId,omitempty"`
	SlotStatus    string  `json:"slotStatus"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.DateResponse) *DateAvailabilityResponse {
	out := &DateAvailabilityResponse{
		OpportunityID: resp.OpportunityID,
		TimeSlotID:    resp.TimeSlotID.String(),
		Date:          resp.Date.Format(domain.DateFormat),
		Capacity:      resp.Capacity,
		BookedCount:   resp.BookedCount,
		Available:     resp.Available,
		IsAvailable:   resp.IsAvailable,
		Source:        string(resp.Source),
		SlotStatus:    string(resp.SlotStatus),
	}
	if resp.OverrideID != nil {
		out.OverrideID = ptr.Ptr(resp.OverrideID.String())
	}
	return out
}
