package apply_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	slotRepo "github.com/m04kA/WX-CapacityService/internal/infra/storage/timeslot"
	"github.com/m04kA/WX-CapacityService/pkg/metrics"
)

// UseCase use case бронирования места в слоте (Booking Counter)
type UseCase struct {
	slotRepo        SlotRepository
	reservationRepo ReservationRepository
	indexSyncer     IndexSyncer
	txManager       TransactionManager
	metrics         MetricsCollector
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	reservationRepo ReservationRepository,
	indexSyncer IndexSyncer,
	txManager TransactionManager,
	metrics MetricsCollector,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		slotRepo:        slotRepo,
		reservationRepo: reservationRepo,
		indexSyncer:     indexSyncer,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute атомарно проверяет наличие места и резервирует его.
//
// Строка слота блокируется (SELECT ... FOR UPDATE) до конца транзакции, поэтому
// проверка остатка и инкремент не разделены окном для конкурентной брони.
// Отказ по ёмкости ожидаем и не повторяется внутри.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	target, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("ApplyBooking: validation failed: %v", err)
		uc.metrics.ObserveBooking(metrics.OutcomeRejected)
		return nil, err
	}

	uc.logger.Info("ApplyBooking: opportunity=%d, slot=%s, target=%s", req.OpportunityID, req.TimeSlotID, target)

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var result *domain.Reservation
	var slot *domain.TimeSlot

	// 3. Проверка и резервирование в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем строку слота
		locked, err := uc.slotRepo.GetForUpdate(txCtx, req.OpportunityID, req.TimeSlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrTimeSlotNotFound) {
				return domain.ErrTimeSlotNotFound
			}
			return fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
		}

		// 3.2. Резервируем единицу ёмкости (override или месяц)
		reservation, err := locked.Reserve(target, now)
		if err != nil {
			return err
		}
		reservation.ApplicationRef = req.ApplicationRef

		// 3.3. Сохраняем счётчики и статус слота
		if err := uc.slotRepo.UpdateCounters(txCtx, locked); err != nil {
			return fmt.Errorf("%w: failed to save counters: %v", ErrInternal, err)
		}

		// 3.4. Обновляем строку индекса месяца
		if err := uc.indexSyncer.SyncMonth(txCtx, locked, target.Month); err != nil {
			return fmt.Errorf("%w: failed to sync index: %v", ErrInternal, err)
		}

		// 3.5. Записываем бронь в журнал
		if err := uc.reservationRepo.Create(txCtx, reservation); err != nil {
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = reservation
		slot = locked
		return nil
	})
	if err != nil {
		uc.observeFailure(req, target, err)
		return nil, err
	}

	uc.metrics.ObserveBooking(metrics.OutcomeApplied)
	uc.logger.Info("ApplyBooking: reservation id=%s, slot=%s, applied=%d, status=%s",
		result.ID, slot.ID, slot.AppliedCount, slot.Status)

	return &Response{
		ReservationID:  result.ID,
		OpportunityID:  result.OpportunityID,
		TimeSlotID:     result.TimeSlotID,
		Month:          result.Month,
		Date:           result.Date,
		OverrideID:     result.OverrideID,
		ApplicationRef: result.ApplicationRef,
		Status:         result.Status,
		SlotStatus:     slot.Status,
		AppliedCount:   slot.AppliedCount,
		ConfirmedCount: slot.ConfirmedCount,
		Available:      domain.Resolve(slot, target).Available,
		CreatedAt:      result.CreatedAt,
	}, nil
}

func (uc *UseCase) observeFailure(req *Request, target domain.Target, err error) {
	switch {
	case errors.Is(err, domain.ErrCapacityExceeded):
		// Штатный отказ, не ошибка сервиса
		uc.metrics.ObserveBooking(metrics.OutcomeExceeded)
		uc.logger.Warn("ApplyBooking: capacity exceeded, slot=%s, target=%s: %v", req.TimeSlotID, target, err)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrConflict):
		uc.metrics.ObserveBooking(metrics.OutcomeRejected)
		uc.logger.Warn("ApplyBooking: rejected, slot=%s, target=%s: %v", req.TimeSlotID, target, err)
	default:
		uc.metrics.ObserveBooking(metrics.OutcomeRejected)
		uc.logger.Error("ApplyBooking: failed, slot=%s, target=%s: %v", req.TimeSlotID, target, err)
	}
}
