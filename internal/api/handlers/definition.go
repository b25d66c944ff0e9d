package handlers

import (
	"fmt"

	"github.com/m04kA/WX-CapacityService/internal/domain"
)

// SlotDefinitionRequest HTTP модель определения слота (создание и обновление)
type SlotDefinitionRequest struct {
	StartMonth        string                    `json:"startMonth"` // "2024-06"
	EndMonth          string                    `json:"endMonth"`
	DefaultCapacity   int                       `json:"defaultCapacity"`
	MinimumStay       int                       `json:"minimumStay"`
	Description       *string                   `json:"description,omitempty"`
	MonthlyCapacities []MonthlyCapacityRequest  `json:"monthlyCapacities,omitempty"`
	CapacityOverrides []CapacityOverrideRequest `json:"capacityOverrides,omitempty"`
}

// MonthlyCapacityRequest ёмкость конкретного месяца
type MonthlyCapacityRequest struct {
	Month    string `json:"month"`
	Capacity int    `json:"capacity"`
}

// CapacityOverrideRequest ёмкость на диапазон дат (включительно)
type CapacityOverrideRequest struct {
	StartDate string `json:"startDate"` // "2024-07-10"
	EndDate   string `json:"endDate"`
	Capacity  int    `json:"capacity"`
}

// ToDomain парсит месяцы и даты; бизнес-валидация выполняется в domain
func (r *SlotDefinitionRequest) ToDomain() (domain.SlotDefinition, error) {
	start, err := domain.ParseMonth(r.StartMonth)
	if err != nil {
		return domain.SlotDefinition{}, fmt.Errorf("startMonth: %w", err)
	}
	end, err := domain.ParseMonth(r.EndMonth)
	if err != nil {
		return domain.SlotDefinition{}, fmt.Errorf("endMonth: %w", err)
	}

	def := domain.SlotDefinition{
		StartMonth:      start,
		EndMonth:        end,
		DefaultCapacity: r.DefaultCapacity,
		MinimumStay:     r.MinimumStay,
		Description:     r.Description,
	}

	for _, mc := range r.MonthlyCapacities {
		m, err := domain.ParseMonth(mc.Month)
		if err != nil {
			return domain.SlotDefinition{}, fmt.Errorf("monthlyCapacities: %w", err)
		}
		def.MonthlyCapacities = append(def.MonthlyCapacities, domain.MonthlyCapacityInput{Month: m, Capacity: mc.Capacity})
	}

	for _, o := range r.CapacityOverrides {
		startDate, err := domain.ParseDate(o.StartDate)
		if err != nil {
			return domain.SlotDefinition{}, fmt.Errorf("capacityOverrides.startDate: %w", err)
		}
		endDate, err := domain.ParseDate(o.EndDate)
		if err != nil {
			return domain.SlotDefinition{}, fmt.Errorf("capacityOverrides.endDate: %w", err)
		}
		def.CapacityOverrides = append(def.CapacityOverrides, domain.CapacityOverrideInput{
			StartDate: startDate,
			EndDate:   endDate,
			Capacity:  o.Capacity,
		})
	}

	return def, nil
}
