package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	slotRepo "github.com/m04kA/WX-CapacityService/internal/infra/storage/timeslot"
)

// UseCase use case агрегатора доступности
type UseCase struct {
	indexRepo    IndexRepository
	slotRepo     SlotRepository
	maxMonths    int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// maxMonths <= 0 заменяется значением по умолчанию.
func NewUseCase(
	indexRepo IndexRepository,
	slotRepo SlotRepository,
	maxMonths int,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if maxMonths <= 0 {
		maxMonths = domain.DefaultMaxQueryMonths
	}
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		indexRepo:    indexRepo,
		slotRepo:     slotRepo,
		maxMonths:    maxMonths,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute возвращает доступность по каждому месяцу диапазона.
// Без TimeSlotID суммируются строки индекса только слотов, открытых сейчас.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: opportunity=%d, range=%s..%s", req.OpportunityID, req.StartMonth, req.EndMonth)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxMonths); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	months, err := domain.MonthRange(req.StartMonth, req.EndMonth)
	if err != nil {
		uc.logger.Warn("GetAvailability: invalid range: %v", err)
		return nil, err
	}

	resp := &Response{
		OpportunityID: req.OpportunityID,
		TimeSlotID:    req.TimeSlotID,
		StartMonth:    req.StartMonth,
		EndMonth:      req.EndMonth,
	}

	// 2. Доступность одного слота
	if req.TimeSlotID != nil {
		slot, err := uc.slotRepo.GetByID(ctx, req.OpportunityID, *req.TimeSlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrTimeSlotNotFound) {
				uc.logger.Warn("GetAvailability: slot id=%s not found", *req.TimeSlotID)
				return nil, domain.ErrTimeSlotNotFound
			}
			uc.logger.Error("GetAvailability: failed to get slot id=%s: %v", *req.TimeSlotID, err)
			return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		slot.Refresh(uc.timeProvider.Now())
		resp.Months = resolveSlot(slot, months)
		return resp, nil
	}

	// 3. Проверяем существование возможности
	if _, err := uc.slotRepo.GetOpportunity(ctx, req.OpportunityID); err != nil {
		if errors.Is(err, slotRepo.ErrOpportunityNotFound) {
			uc.logger.Warn("GetAvailability: opportunity id=%d not found", req.OpportunityID)
			return nil, domain.ErrOpportunityNotFound
		}
		uc.logger.Error("GetAvailability: failed to get opportunity id=%d: %v", req.OpportunityID, err)
		return nil, fmt.Errorf("%w: failed to get opportunity: %v", ErrInternal, err)
	}

	// 4. Агрегируем строки индекса слотов, открытых на текущий месяц
	current := domain.MonthOf(uc.timeProvider.Now())
	rows, err := uc.indexRepo.ListOpenByOpportunityRange(ctx, req.OpportunityID, req.StartMonth, req.EndMonth, current)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list index rows: %v", err)
		return nil, fmt.Errorf("%w: failed to list index rows: %v", ErrInternal, err)
	}

	resp.Months = aggregateRows(months, rows)

	uc.logger.Info("GetAvailability: opportunity=%d, %d months from %d index rows", req.OpportunityID, len(months), len(rows))

	return resp, nil
}

// ExecuteDate возвращает эффективную ёмкость слота на конкретную дату
func (uc *UseCase) ExecuteDate(ctx context.Context, req *DateRequest) (*DateResponse, error) {
	uc.logger.Info("GetDateAvailability: slot=%s, date=%s", req.TimeSlotID, req.Date.Format(domain.DateFormat))

	if err := validateDateRequest(req); err != nil {
		uc.logger.Warn("GetDateAvailability: validation failed: %v", err)
		return nil, err
	}

	slot, err := uc.slotRepo.GetByID(ctx, req.OpportunityID, req.TimeSlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrTimeSlotNotFound) {
			uc.logger.Warn("GetDateAvailability: slot id=%s not found", req.TimeSlotID)
			return nil, domain.ErrTimeSlotNotFound
		}
		uc.logger.Error("GetDateAvailability: failed to get slot id=%s: %v", req.TimeSlotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	slot.Refresh(uc.timeProvider.Now())
	date := domain.DateOnly(req.Date)
	res := domain.Resolve(slot, domain.DateTarget(date))

	resp := &DateResponse{
		OpportunityID: req.OpportunityID,
		TimeSlotID:    slot.ID,
		Date:          date,
		Capacity:      res.Capacity,
		BookedCount:   res.BookedCount,
		Available:     res.Available,
		IsAvailable:   res.IsAvailable,
		Source:        res.Source,
		OverrideID:    res.OverrideID,
		SlotStatus:    slot.Status,
	}
	if !slot.IsBookable() {
		resp.Available = 0
		resp.IsAvailable = false
	}

	return resp, nil
}
