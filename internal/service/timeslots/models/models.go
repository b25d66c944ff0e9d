package models

import (
	"time"

	"github.com/m04kA/WX-CapacityService/internal/domain"
)

// Response модели

// OpportunityResponse ответ с данными возможности
type OpportunityResponse struct {
	ID           int64     `json:"id"`
	HostID       int64     `json:"hostId"`
	HasTimeSlots bool      `json:"hasTimeSlots"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TimeSlotResponse ответ с данными слота
type TimeSlotResponse struct {
	ID                string                     `json:"id"`
	OpportunityID     int64                      `json:"opportunityId"`
	StartMonth        string                     `json:"startMonth"`
	EndMonth          string                     `json:"endMonth"`
	DefaultCapacity   int                        `json:"defaultCapacity"`
	MinimumStay       int                        `json:"minimumStay"`
	Description       *string                    `json:"description,omitempty"`
	AppliedCount      int                        `json:"appliedCount"`
	ConfirmedCount    int                        `json:"confirmedCount"`
	Status            string                     `json:"status"`
	MonthlyCapacities []MonthlyCapacityResponse  `json:"monthlyCapacities"`
	CapacityOverrides []CapacityOverrideResponse `json:"capacityOverrides"`
	CreatedAt         time.Time                  `json:"createdAt"`
	UpdatedAt         time.Time                  `json:"updatedAt"`
}

// MonthlyCapacityResponse месячная ёмкость слота
type MonthlyCapacityResponse struct {
	Month       string `json:"month"`
	Capacity    int    `json:"capacity"`
	BookedCount int    `json:"bookedCount"`
	Available   int    `json:"available"`
}

// CapacityOverrideResponse override ёмкости на диапазон дат
type CapacityOverrideResponse struct {
	ID          string `json:"id"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Capacity    int    `json:"capacity"`
	BookedCount int    `json:"bookedCount"`
}

// TimeSlotListResponse список слотов возможности
type TimeSlotListResponse struct {
	TimeSlots []TimeSlotResponse `json:"timeSlots"`
	Total     int                `json:"total"`
}

// Конвертеры

// FromDomainOpportunity конвертирует domain.Opportunity в ответ
func FromDomainOpportunity(o *domain.Opportunity) *OpportunityResponse {
	return &OpportunityResponse{
		ID:           o.ID,
		HostID:       o.HostID,
		HasTimeSlots: o.HasTimeSlots,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// FromDomainTimeSlot конвертирует domain.TimeSlot в ответ
func FromDomainTimeSlot(slot *domain.TimeSlot) *TimeSlotResponse {
	monthly := make([]MonthlyCapacityResponse, 0, len(slot.MonthlyCapacities))
	for _, mc := range slot.MonthlyCapacities {
		available := mc.Capacity - mc.BookedCount
		if available < 0 {
			available = 0
		}
		monthly = append(monthly, MonthlyCapacityResponse{
			Month:       mc.Month.String(),
			Capacity:    mc.Capacity,
			BookedCount: mc.BookedCount,
			Available:   available,
		})
	}

	overrides := make([]CapacityOverrideResponse, 0, len(slot.CapacityOverrides))
	for _, o := range slot.CapacityOverrides {
		overrides = append(overrides, CapacityOverrideResponse{
			ID:          o.ID.String(),
			StartDate:   o.StartDate.Format(domain.DateFormat),
			EndDate:     o.EndDate.Format(domain.DateFormat),
			Capacity:    o.Capacity,
			BookedCount: o.BookedCount,
		})
	}

	return &TimeSlotResponse{
		ID:                slot.ID.String(),
		OpportunityID:     slot.OpportunityID,
		StartMonth:        slot.StartMonth.String(),
		EndMonth:          slot.EndMonth.String(),
		DefaultCapacity:   slot.DefaultCapacity,
		MinimumStay:       slot.MinimumStay,
		Description:       slot.Description,
		AppliedCount:      slot.AppliedCount,
		ConfirmedCount:    slot.ConfirmedCount,
		Status:            string(slot.Status),
		MonthlyCapacities: monthly,
		CapacityOverrides: overrides,
		CreatedAt:         slot.CreatedAt,
		UpdatedAt:         slot.UpdatedAt,
	}
}

// FromDomainTimeSlotList конвертирует список слотов
func FromDomainTimeSlotList(slots []*domain.TimeSlot) *TimeSlotListResponse {
	items := make([]TimeSlotResponse, 0, len(slots))
	for _, slot := range slots {
		items = append(items, *FromDomainTimeSlot(slot))
	}
	return &TimeSlotListResponse{TimeSlots: items, Total: len(items)}
}
