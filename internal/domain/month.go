package domain

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Month calendar month in YYYY-MM form
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a strict YYYY-MM string
func ParseMonth(s string) (Month, error) {
	if len(s) != len(MonthFormat) {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	t, err := time.Parse(MonthFormat, s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the calendar month of t in t's location
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// NewMonth builds a month, normalising overflowing month numbers
func NewMonth(year int, month time.Month) Month {
	return MonthOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// IsZero returns true for the zero value
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Next returns the following month, December rolls over to January
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Before reports whether m is strictly earlier than other
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// After reports whether m is strictly later than other
func (m Month) After(other Month) bool {
	return other.Before(m)
}

// FirstDay returns the first day of the month (UTC midnight)
func (m Month) FirstDay() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay returns the last day of the month (UTC midnight)
func (m Month) LastDay() time.Time {
	return m.FirstDay().AddDate(0, 1, -1)
}

// Contains reports whether the date falls into the month
func (m Month) Contains(date time.Time) bool {
	return MonthOf(date) == m
}

// MonthsBetween number of months in [start, end] inclusive, 0 when start is after end
func MonthsBetween(start, end Month) int {
	if start.After(end) {
		return 0
	}
	return (end.Year-start.Year)*12 + int(end.Month) - int(start.Month) + 1
}

// MonthRange enumerates every month of [start, end] inclusive
func MonthRange(start, end Month) ([]Month, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: empty month bound", ErrInvalidMonth)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidMonthRange, start, end)
	}

	months := make([]Month, 0, MonthsBetween(start, end))
	for m := start; !m.After(end); m = m.Next() {
		months = append(months, m)
	}
	return months, nil
}

// MarshalText encodes the month as YYYY-MM (JSON, TOML)
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes YYYY-MM
func (m *Month) UnmarshalText(text []byte) error {
	parsed, err := ParseMonth(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value stores the month as a YYYY-MM string
func (m Month) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan reads a YYYY-MM string column
func (m *Month) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return m.UnmarshalText([]byte(v))
	case []byte:
		return m.UnmarshalText(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidMonth, src)
	}
}

// ParseDate parses a strict YYYY-MM-DD string into UTC midnight
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DateOnly truncates t to UTC midnight of its calendar day
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
