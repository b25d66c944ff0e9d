package refresh_statuses

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	slotRepo "github.com/m04kA/WX-CapacityService/internal/infra/storage/timeslot"
)

// UseCase периодический пересчёт статусов слотов
type UseCase struct {
	slotRepo     SlotRepository
	txManager    TransactionManager
	metrics      MetricsCollector
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	txManager TransactionManager,
	metrics MetricsCollector,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		slotRepo:     slotRepo,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute закрывает слоты, чей EndMonth раньше текущего месяца.
// Каждый слот обрабатывается в своей транзакции: ошибка по одному не откатывает остальные.
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	now := uc.timeProvider.Now()
	current := domain.MonthOf(now)

	// 1. Кандидаты на закрытие
	keys, err := uc.slotRepo.ListExpirable(ctx, current)
	if err != nil {
		uc.logger.Error("RefreshStatuses: failed to list expirable slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list expirable slots: %v", ErrInternal, err)
	}

	resp := &Response{Month: current, Checked: len(keys)}

	// 2. По одному слоту на транзакцию
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			uc.logger.Warn("RefreshStatuses: interrupted after %d of %d slots: %v", resp.Closed+resp.Failed, len(keys), err)
			return resp, err
		}

		closed, err := uc.refreshSlot(ctx, key)
		if err != nil {
			resp.Failed++
			uc.logger.Error("RefreshStatuses: slot id=%s: %v", key.TimeSlotID, err)
			continue
		}
		if closed {
			resp.Closed++
			uc.metrics.ObserveStatusChange(string(domain.SlotStatusClosed))
		}
	}

	uc.logger.Info("RefreshStatuses: month=%s, checked=%d, closed=%d, failed=%d",
		current, resp.Checked, resp.Closed, resp.Failed)

	return resp, nil
}

func (uc *UseCase) refreshSlot(ctx context.Context, key domain.SlotKey) (bool, error) {
	var changed bool

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		slot, err := uc.slotRepo.GetForUpdate(txCtx, key.OpportunityID, key.TimeSlotID)
		if err != nil {
			// Слот удалён между выборкой и блокировкой
			if errors.Is(err, slotRepo.ErrTimeSlotNotFound) {
				return nil
			}
			return fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
		}

		now := uc.timeProvider.Now()
		if !slot.Refresh(now) {
			return nil
		}
		slot.UpdatedAt = now

		if err := uc.slotRepo.UpdateCounters(txCtx, slot); err != nil {
			return fmt.Errorf("%w: failed to save status: %v", ErrInternal, err)
		}

		changed = slot.Status == domain.SlotStatusClosed
		return nil
	})

	return changed, err
}
