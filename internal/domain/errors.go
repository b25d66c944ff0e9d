package domain

import (
	"errors"
	"fmt"
)

// Категории ошибок движка
// Конкретные ошибки оборачивают категорию, обработчики проверяют её через errors.Is
var (
	// ErrValidation некорректное определение слота или запроса, ничего не изменено
	ErrValidation = errors.New("validation error")

	// ErrNotFound неизвестная возможность (opportunity), слот или бронь
	ErrNotFound = errors.New("not found")

	// ErrConflict операция запрещена текущим состоянием (есть зависимые брони и т.п.)
	ErrConflict = errors.New("conflict")

	// ErrCapacityExceeded нет свободных мест на момент атомарной проверки
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrMaterialization не удалось построить индекс, предыдущие строки не тронуты
	ErrMaterialization = errors.New("materialization error")
)

// Validation errors
var (
	ErrInvalidMonth          = fmt.Errorf("%w: invalid month, expected YYYY-MM", ErrValidation)
	ErrInvalidDate           = fmt.Errorf("%w: invalid date, expected YYYY-MM-DD", ErrValidation)
	ErrInvalidMonthRange     = fmt.Errorf("%w: start month is after end month", ErrValidation)
	ErrSlotTooLong           = fmt.Errorf("%w: time slot spans too many months", ErrValidation)
	ErrInvalidCapacity       = fmt.Errorf("%w: capacity out of range", ErrValidation)
	ErrInvalidMinimumStay    = fmt.Errorf("%w: minimum stay out of range", ErrValidation)
	ErrDescriptionTooLong    = fmt.Errorf("%w: description is too long", ErrValidation)
	ErrMonthOutsideSlot      = fmt.Errorf("%w: monthly capacity outside time slot", ErrValidation)
	ErrDuplicateMonth        = fmt.Errorf("%w: duplicate monthly capacity", ErrValidation)
	ErrInvalidOverrideRange  = fmt.Errorf("%w: override start date is after end date", ErrValidation)
	ErrOverrideOutsideSlot   = fmt.Errorf("%w: override outside time slot", ErrValidation)
	ErrTooManyOverrides      = fmt.Errorf("%w: too many capacity overrides", ErrValidation)
	ErrCapacityBelowBooked   = fmt.Errorf("%w: capacity is below booked count", ErrValidation)
	ErrTargetOutsideSlot     = fmt.Errorf("%w: booking target outside time slot", ErrValidation)
	ErrInvalidTarget         = fmt.Errorf("%w: booking target must be a month or a date", ErrValidation)
	ErrQueryRangeTooLong     = fmt.Errorf("%w: month range is too long", ErrValidation)
	ErrInvalidOpportunity    = fmt.Errorf("%w: invalid opportunity", ErrValidation)
	ErrApplicationRefTooLong = fmt.Errorf("%w: application reference is too long", ErrValidation)
)

// Not found errors
var (
	ErrOpportunityNotFound = fmt.Errorf("%w: opportunity", ErrNotFound)
	ErrTimeSlotNotFound    = fmt.Errorf("%w: time slot", ErrNotFound)
	ErrReservationNotFound = fmt.Errorf("%w: reservation", ErrNotFound)
)

// Conflict errors
var (
	ErrSlotHasReservations  = fmt.Errorf("%w: time slot has active reservations", ErrConflict)
	ErrBookedMonthRemoved   = fmt.Errorf("%w: month with bookings would be removed", ErrConflict)
	ErrBookedOverrideGone   = fmt.Errorf("%w: override with bookings would be removed", ErrConflict)
	ErrSlotCancelled        = fmt.Errorf("%w: time slot is cancelled", ErrConflict)
	ErrSlotNotBookable      = fmt.Errorf("%w: time slot does not accept bookings", ErrConflict)
	ErrReservationNotActive = fmt.Errorf("%w: reservation is not active", ErrConflict)
)
