package datecapacity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	indexRepo "github.com/m04kA/WX-CapacityService/internal/infra/storage/datecapacity"
	slotRepo "github.com/m04kA/WX-CapacityService/internal/infra/storage/timeslot"
	"github.com/m04kA/WX-CapacityService/pkg/txmanager"
)

// Service материализует индекс date_capacities из определений слотов
type Service struct {
	indexRepo    IndexRepository
	slotRepo     SlotRepository
	txManager    TransactionManager
	metrics      MetricsCollector
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса индекса
func NewService(
	indexRepo IndexRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	metrics MetricsCollector,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Service{
		indexRepo:    indexRepo,
		slotRepo:     slotRepo,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Materialize полностью перестраивает строки индекса слота: delete + bulk insert.
//
// Booked берётся из месячной записи слота (она переносится между редактированиями),
// для месяца без записи - из прежней строки индекса.
// Если перечисление месяцев не удалось, ничего не пишется.
// Выполняется в транзакции вызывающего кода или в собственной.
func (s *Service) Materialize(ctx context.Context, slot *domain.TimeSlot) (int, error) {
	months, err := slot.Months()
	if err != nil {
		s.logger.Warn("Materialize: slot id=%s has malformed month range %s..%s: %v", slot.ID, slot.StartMonth, slot.EndMonth, err)
		return 0, fmt.Errorf("%w: slot %s: %v", domain.ErrMaterialization, slot.ID, err)
	}

	written := 0
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		prior, err := s.indexRepo.ListBySlot(txCtx, slot.OpportunityID, slot.ID)
		if err != nil {
			return fmt.Errorf("%w: Materialize - list prior rows: %v", ErrInternal, err)
		}
		priorBooked := make(map[domain.Month]int, len(prior))
		for _, row := range prior {
			priorBooked[row.Month] = row.BookedCount
		}

		rows := BuildRows(slot, months, priorBooked, s.timeProvider.Now())

		if _, err := s.indexRepo.DeleteBySlot(txCtx, slot.OpportunityID, slot.ID); err != nil {
			return fmt.Errorf("%w: Materialize - delete rows: %v", ErrInternal, err)
		}
		if err := s.indexRepo.BulkInsert(txCtx, rows); err != nil {
			return fmt.Errorf("%w: Materialize - insert rows: %v", ErrInternal, err)
		}

		written = len(rows)
		// Метрика только для закоммиченных строк
		txmanager.OnCommit(txCtx, func() { s.metrics.AddMaterializedRows(written) })
		return nil
	})
	if err != nil {
		s.logger.Error("Materialize: slot id=%s failed: %v", slot.ID, err)
		return 0, err
	}

	s.logger.Info("Materialize: slot id=%s opportunity=%d rows=%d", slot.ID, slot.OpportunityID, written)
	return written, nil
}

// BuildRows вычисляет строки индекса слота, не обращаясь к хранилищу
func BuildRows(slot *domain.TimeSlot, months []domain.Month, priorBooked map[domain.Month]int, now time.Time) []domain.DateCapacity {
	rows := make([]domain.DateCapacity, 0, len(months))
	for _, m := range months {
		res := domain.Resolve(slot, domain.MonthTarget(m))
		booked := res.BookedCount
		if res.Source == domain.SourceDefault {
			booked = priorBooked[m]
		}
		rows = append(rows, domain.DateCapacity{
			OpportunityID: slot.OpportunityID,
			TimeSlotID:    slot.ID,
			Month:         m,
			Capacity:      res.Capacity,
			BookedCount:   booked,
			UpdatedAt:     now,
		})
	}
	return rows
}

// SyncMonth переносит счётчики одного месяца слота в индекс после брони
func (s *Service) SyncMonth(ctx context.Context, slot *domain.TimeSlot, month domain.Month) error {
	res := domain.Resolve(slot, domain.MonthTarget(month))
	row := domain.DateCapacity{
		OpportunityID: slot.OpportunityID,
		TimeSlotID:    slot.ID,
		Month:         month,
		Capacity:      res.Capacity,
		BookedCount:   res.BookedCount,
		UpdatedAt:     s.timeProvider.Now(),
	}

	err := s.indexRepo.UpdateRow(ctx, row)
	if errors.Is(err, indexRepo.ErrRowNotFound) {
		// Строки нет, если индекс ещё не строился: материализуем слот целиком
		s.logger.Warn("SyncMonth: no index row for slot id=%s month=%s, rematerializing", slot.ID, month)
		_, err = s.Materialize(ctx, slot)
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: SyncMonth - update row: %v", ErrInternal, err)
	}

	return nil
}

// Purge удаляет строки индекса слота
func (s *Service) Purge(ctx context.Context, opportunityID int64, slotID uuid.UUID) error {
	deleted, err := s.indexRepo.DeleteBySlot(ctx, opportunityID, slotID)
	if err != nil {
		return fmt.Errorf("%w: Purge - delete rows: %v", ErrInternal, err)
	}

	s.logger.Info("Purge: slot id=%s opportunity=%d rows=%d", slotID, opportunityID, deleted)
	return nil
}

// Rebuild перестраивает индекс всех слотов возможности в одной транзакции.
// Порядок блокировок как в DeleteSlot: возможность, затем каждый слот.
// Материализуется снимок, прочитанный под блокировкой слота, а не из листинга.
func (s *Service) Rebuild(ctx context.Context, opportunityID int64) (int, error) {
	s.logger.Info("Rebuild: opportunity=%d", opportunityID)

	total := 0
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Блокируем возможность: создание и удаление слотов ждут перестройку
		if _, err := s.slotRepo.GetOpportunityForUpdate(txCtx, opportunityID); err != nil {
			if errors.Is(err, slotRepo.ErrOpportunityNotFound) {
				return domain.ErrOpportunityNotFound
			}
			return fmt.Errorf("%w: Rebuild - get opportunity: %v", ErrInternal, err)
		}

		listed, err := s.slotRepo.ListByOpportunity(txCtx, opportunityID)
		if err != nil {
			return fmt.Errorf("%w: Rebuild - list slots: %v", ErrInternal, err)
		}

		total = 0
		for _, item := range listed {
			// 2. Перечитываем слот под блокировкой: конкурентная бронь уже закоммичена или ждёт
			slot, err := s.slotRepo.GetForUpdate(txCtx, opportunityID, item.ID)
			if err != nil {
				if errors.Is(err, slotRepo.ErrTimeSlotNotFound) {
					continue
				}
				return fmt.Errorf("%w: Rebuild - lock slot %s: %v", ErrInternal, item.ID, err)
			}

			n, err := s.Materialize(txCtx, slot)
			if err != nil {
				return err
			}
			total += n
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("Rebuild: opportunity=%d failed: %v", opportunityID, err)
		return 0, err
	}

	s.logger.Info("Rebuild: opportunity=%d rows=%d", opportunityID, total)
	return total, nil
}
