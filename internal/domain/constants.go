package domain

// Time format constants
const (
	MonthFormat = "2006-01"    // YYYY-MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MinCapacity          = 1
	MaxCapacity          = 10000
	MinMinimumStayDays   = 1
	MaxMinimumStayDays   = 365
	MaxSlotMonths        = 60 // 5 лет
	MaxCapacityOverrides = 100
	MaxDescriptionLength = 1000
	MaxApplicationRefLen = 128
)

// DefaultMaxQueryMonths ограничение длины диапазона в запросе доступности
const DefaultMaxQueryMonths = 36
