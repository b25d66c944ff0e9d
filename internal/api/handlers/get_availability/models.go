package get_availability

import (
	"github.com/m04kA/WX-CapacityService/internal/domain"
	getAvailability "github.com/m04kA/WX-CapacityService/internal/usecase/get_availability"
	"github.com/m04kA/WX-CapacityService/pkg/ptr"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	OpportunityID int64                       `json:"opportunityId"`
	TimeSlotID    *string                     `json:"timeSlotId,omitempty"`
	StartMonth    string                      `json:"startMonth"`
	EndMonth      string                      `json:"endMonth"`
	Months        []MonthAvailabilityResponse `json:"months"`
}

// MonthAvailabilityResponse доступность одного месяца
type MonthAvailabilityResponse struct {
	Month       string                     `json:"month"`
	Capacity    int                        `json:"capacity"`
	BookedCount int                        `json:"bookedCount"`
	Available   int                        `json:"available"`
	IsAvailable bool                       `json:"isAvailable"`
	Slots       []SlotAvailabilityResponse `json:"slots,omitempty"`
}

// SlotAvailabilityResponse вклад одного слота в месяц
type SlotAvailabilityResponse struct {
	TimeSlotID  string `json:"timeSlotId"`
	Capacity    int    `json:"capacity"`
	BookedCount int    `json:"bookedCount"`
	Available   int    `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		OpportunityID: resp.OpportunityID,
		StartMonth:    resp.StartMonth.String(),
		EndMonth:      resp.EndMonth.String(),
		Months:        make([]MonthAvailabilityResponse, 0, len(resp.Months)),
	}
	if resp.TimeSlotID != nil {
		out.TimeSlotID = ptr.Ptr(resp.TimeSlotID.String())
	}

	for _, m := range resp.Months {
		out.Months = append(out.Months, fromMonth(m))
	}
	return out
}

func fromMonth(m domain.MonthAvailability) MonthAvailabilityResponse {
	month := MonthAvailabilityResponse{
		Month:       m.Month.String(),
		Capacity:    m.Capacity,
		BookedCount: m.BookedCount,
		Available:   m.Available,
		IsAvailable: m.IsAvailable,
	}
	for _, s := range m.Slots {
		month.Slots = append(month.Slots, SlotAvailabilityResponse{
			TimeSlotID:  s.TimeSlotID.String(),
			Capacity:    s.Capacity,
			BookedCount: s.BookedCount,
			Available:   s.Available,
		})
	}
	return month
}
