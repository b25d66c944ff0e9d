package release_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	reservationRepo "github.com/m04kA/WX-CapacityService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/WX-CapacityService/internal/infra/storage/timeslot"
	"github.com/m04kA/WX-CapacityService/pkg/metrics"
)

// UseCase use case освобождения места (отзыв или отклонение заявки)
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

// Execute возвращает место брони в слот и пересчитывает статус.
// FILLED слот снова становится OPEN, CLOSED остаётся закрытым.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReleaseBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("ReleaseBooking: reservation=%s, slot=%s", req.ReservationID, req.TimeSlotID)

	now := uc.timeProvider.Now()

	var (
		reservation *domain.Reservation
		slot        *domain.TimeSlot
	)

	// 2. Освобождение в транзакции под блокировкой слота
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Блокируем слот
		locked, err := uc.slotRepo.GetForUpdate(txCtx, req.OpportunityID, req.TimeSlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrTimeSlotNotFound) {
				return domain.ErrTimeSlotNotFound
			}
			return fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
		}

		// 2.2. Загружаем бронь
		res, err := uc.reservationRepo.GetByID(txCtx, req.OpportunityID, req.TimeSlotID, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return domain.ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}

		// 2.3. Возвращаем единицу ёмкости
		if err := locked.Release(res, now); err != nil {
			return err
		}

		// 2.4. Сохраняем слот, бронь и строку индекса
		if err := uc.slotRepo.UpdateCounters(txCtx, locked); err != nil {
			return fmt.Errorf("%w: failed to save counters: %v", ErrInternal, err)
		}
		if err := uc.reservationRepo.UpdateStatus(txCtx, res); err != nil {
			return fmt.Errorf("%w: failed to update reservation: %v", ErrInternal, err)
		}
		if err := uc.indexSyncer.SyncMonth(txCtx, locked, res.Month); err != nil {
			return fmt.Errorf("%w: failed to sync index: %v", ErrInternal, err)
		}

		reservation = res
		slot = locked
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("ReleaseBooking: failed, reservation=%s: %v", req.ReservationID, err)
		} else {
			uc.logger.Warn("ReleaseBooking: rejected, reservation=%s: %v", req.ReservationID, err)
		}
		return nil, err
	}

	uc.metrics.ObserveBooking(metrics.OutcomeReleased)
	uc.logger.Info("ReleaseBooking: released reservation=%s, applied=%d, status=%s",
		reservation.ID, slot.AppliedCount, slot.Status)

	return &Response{
		ReservationID:  reservation.ID,
		Month:          reservation.Month,
		Date:           reservation.Date,
		Status:         reservation.Status,
		SlotStatus:     slot.Status,
		AppliedCount:   slot.AppliedCount,
		ConfirmedCount: slot.ConfirmedCount,
		UpdatedAt:      reservation.UpdatedAt,
	}, nil
}
