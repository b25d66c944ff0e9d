package confirm_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	reservationRepo "github.com/m04kA/WX-CapacityService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/WX-CapacityService/internal/infra/storage/timeslot"
	"github.com/m04kA/WX-CapacityService/pkg/metrics"
)

// UseCase use case подтверждения брони хостом
type UseCase struct {
	slotRepo        SlotRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	metrics         MetricsCollector
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	reservationRepo ReservationRepository,
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
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute переводит бронь applied -> confirmed.
// Ёмкость уже занята при подаче заявки, индекс date_capacities не меняется.
// Повторное подтверждение возвращает текущее состояние с Changed=false.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("ConfirmBooking: reservation=%s, slot=%s", req.ReservationID, req.TimeSlotID)

	now := uc.timeProvider.Now()

	var (
		reservation *domain.Reservation
		slot        *domain.TimeSlot
		changed     bool
	)

	// 2. Подтверждение в транзакции под блокировкой слота
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		locked, err := uc.slotRepo.GetForUpdate(txCtx, req.OpportunityID, req.TimeSlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrTimeSlotNotFound) {
				return domain.ErrTimeSlotNotFound
			}
			return fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
		}

		res, err := uc.reservationRepo.GetByID(txCtx, req.OpportunityID, req.TimeSlotID, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return domain.ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}

		changed, err = locked.Confirm(res, now)
		if err != nil {
			return err
		}

		if changed {
			if err := uc.slotRepo.UpdateCounters(txCtx, locked); err != nil {
				return fmt.Errorf("%w: failed to save counters: %v", ErrInternal, err)
			}
			if err := uc.reservationRepo.UpdateStatus(txCtx, res); err != nil {
				return fmt.Errorf("%w: failed to update reservation: %v", ErrInternal, err)
			}
		}

		reservation = res
		slot = locked
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("ConfirmBooking: failed, reservation=%s: %v", req.ReservationID, err)
		} else {
			uc.logger.Warn("ConfirmBooking: rejected, reservation=%s: %v", req.ReservationID, err)
		}
		return nil, err
	}

	if changed {
		uc.metrics.ObserveBooking(metrics.OutcomeConfirmed)
		uc.logger.Info("ConfirmBooking: confirmed reservation=%s, confirmed=%d", reservation.ID, slot.ConfirmedCount)
	} else {
		uc.logger.Info("ConfirmBooking: reservation=%s already confirmed", reservation.ID)
	}

	return &Response{
		ReservationID:  reservation.ID,
		Month:          reservation.Month,
		Date:           reservation.Date,
		Status:         reservation.Status,
		SlotStatus:     slot.Status,
		AppliedCount:   slot.AppliedCount,
		ConfirmedCount: slot.ConfirmedCount,
		Changed:        changed,
		UpdatedAt:      reservation.UpdatedAt,
	}, nil
}
