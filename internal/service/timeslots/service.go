package timeslots

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	slotRepo "github.com/m04kA/WX-CapacityService/internal/infra/storage/timeslot"
	"github.com/m04kA/WX-CapacityService/internal/service/timeslots/models"
)

// Service сервис управления слотами возможности (TimeSlot Store)
type Service struct {
	slotRepo        SlotRepository
	reservationRepo ReservationRepository
	materializer    Materializer
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	reservationRepo ReservationRepository,
	materializer Materializer,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Service{
		slotRepo:        slotRepo,
		reservationRepo: reservationRepo,
		materializer:    materializer,
		txManager:       txManager,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// RegisterOpportunity регистрирует возможность, созданную слоем листингов
func (s *Service) RegisterOpportunity(ctx context.Context, hostID int64) (*models.OpportunityResponse, error) {
	s.logger.Info("RegisterOpportunity: host=%d", hostID)

	if hostID <= 0 {
		return nil, fmt.Errorf("%w: hostId must be positive", domain.ErrInvalidOpportunity)
	}

	now := s.timeProvider.Now()
	opportunity, err := s.slotRepo.CreateOpportunity(ctx, &domain.Opportunity{
		HostID:    hostID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error("RegisterOpportunity: repository error for host=%d: %v", hostID, err)
		return nil, fmt.Errorf("%w: RegisterOpportunity - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("RegisterOpportunity: created opportunity id=%d", opportunity.ID)
	return models.FromDomainOpportunity(opportunity), nil
}

// GetOpportunity получает возможность по ID
func (s *Service) GetOpportunity(ctx context.Context, id int64) (*models.OpportunityResponse, error) {
	opportunity, err := s.slotRepo.GetOpportunity(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("GetOpportunity", err)
	}
	return models.FromDomainOpportunity(opportunity), nil
}

// CreateSlot создаёт слот, пересчитывает HasTimeSlots и строит индекс в одной транзакции
func (s *Service) CreateSlot(ctx context.Context, opportunityID int64, def domain.SlotDefinition) (*models.TimeSlotResponse, error) {
	s.logger.Info("CreateSlot: opportunity=%d, range=%s..%s, capacity=%d",
		opportunityID, def.StartMonth, def.EndMonth, def.DefaultCapacity)

	// 1. Валидация до любых обращений к хранилищу
	now := s.timeProvider.Now()
	slot, err := domain.NewTimeSlot(opportunityID, def, now)
	if err != nil {
		s.logger.Warn("CreateSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Сохраняем слот, производные поля и индекс атомарно
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		opportunity, err := s.slotRepo.GetOpportunityForUpdate(txCtx, opportunityID)
		if err != nil {
			return s.mapRepoError("CreateSlot", err)
		}

		if err := s.slotRepo.Create(txCtx, slot); err != nil {
			return s.mapRepoError("CreateSlot", err)
		}

		if err := s.deriveOpportunity(txCtx, opportunity); err != nil {
			return err
		}

		if _, err := s.materializer.Materialize(txCtx, slot); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.logFailure("CreateSlot", err)
		return nil, err
	}

	s.logger.Info("CreateSlot: created slot id=%s for opportunity=%d", slot.ID, opportunityID)
	return models.FromDomainTimeSlot(slot), nil
}

// UpdateSlot заменяет определение слота, сохраняя текущие брони, и перестраивает индекс
func (s *Service) UpdateSlot(ctx context.Context, opportunityID int64, slotID uuid.UUID, def domain.SlotDefinition) (*models.TimeSlotResponse, error) {
	s.logger.Info("UpdateSlot: opportunity=%d, slot=%s, range=%s..%s", opportunityID, slotID, def.StartMonth, def.EndMonth)

	if err := def.Validate(); err != nil {
		s.logger.Warn("UpdateSlot: validation failed: %v", err)
		return nil, err
	}

	now := s.timeProvider.Now()
	var result *domain.TimeSlot

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		slot, err := s.slotRepo.GetForUpdate(txCtx, opportunityID, slotID)
		if err != nil {
			return s.mapRepoError("UpdateSlot", err)
		}

		if err := slot.ApplyDefinition(def, now); err != nil {
			return err
		}

		if err := s.slotRepo.Update(txCtx, slot); err != nil {
			return s.mapRepoError("UpdateSlot", err)
		}

		if _, err := s.materializer.Materialize(txCtx, slot); err != nil {
			return err
		}

		result = slot
		return nil
	})
	if err != nil {
		s.logFailure("UpdateSlot", err)
		return nil, err
	}

	s.logger.Info("UpdateSlot: updated slot id=%s, status=%s", result.ID, result.Status)
	return models.FromDomainTimeSlot(result), nil
}

// DeleteSlot удаляет слот без активных броней вместе с его строками индекса
func (s *Service) DeleteSlot(ctx context.Context, opportunityID int64, slotID uuid.UUID) error {
	s.logger.Info("DeleteSlot: opportunity=%d, slot=%s", opportunityID, slotID)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		opportunity, err := s.slotRepo.GetOpportunityForUpdate(txCtx, opportunityID)
		if err != nil {
			return s.mapRepoError("DeleteSlot", err)
		}

		slot, err := s.slotRepo.GetForUpdate(txCtx, opportunityID, slotID)
		if err != nil {
			return s.mapRepoError("DeleteSlot", err)
		}

		active, err := s.reservationRepo.CountActiveBySlot(txCtx, opportunityID, slotID)
		if err != nil {
			return fmt.Errorf("%w: DeleteSlot - count reservations: %v", ErrInternal, err)
		}
		if active > 0 || slot.HasBookings() {
			return fmt.Errorf("%w: %d active", domain.ErrSlotHasReservations, active)
		}

		if err := s.materializer.Purge(txCtx, opportunityID, slotID); err != nil {
			return err
		}

		if err := s.slotRepo.Delete(txCtx, opportunityID, slotID); err != nil {
			return s.mapRepoError("DeleteSlot", err)
		}

		return s.deriveOpportunity(txCtx, opportunity)
	})
	if err != nil {
		s.logFailure("DeleteSlot", err)
		return err
	}

	s.logger.Info("DeleteSlot: deleted slot id=%s", slotID)
	return nil
}

// CancelSlot переводит слот в CANCELLED. Повторная отмена ничего не меняет.
func (s *Service) CancelSlot(ctx context.Context, opportunityID int64, slotID uuid.UUID) (*models.TimeSlotResponse, error) {
	s.logger.Info("CancelSlot: opportunity=%d, slot=%s", opportunityID, slotID)

	now := s.timeProvider.Now()
	var result *domain.TimeSlot

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		slot, err := s.slotRepo.GetForUpdate(txCtx, opportunityID, slotID)
		if err != nil {
			return s.mapRepoError("CancelSlot", err)
		}

		result = slot
		if slot.Status == domain.SlotStatusCancelled {
			return nil
		}

		slot.Cancel(now)
		if err := s.slotRepo.UpdateCounters(txCtx, slot); err != nil {
			return s.mapRepoError("CancelSlot", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("CancelSlot", err)
		return nil, err
	}

	s.logger.Info("CancelSlot: slot id=%s is cancelled", slotID)
	return models.FromDomainTimeSlot(result), nil
}

// GetSlot получает слот; статус пересчитывается на момент чтения без сохранения
func (s *Service) GetSlot(ctx context.Context, opportunityID int64, slotID uuid.UUID) (*models.TimeSlotResponse, error) {
	slot, err := s.slotRepo.GetByID(ctx, opportunityID, slotID)
	if err != nil {
		return nil, s.mapRepoError("GetSlot", err)
	}

	slot.Refresh(s.timeProvider.Now())
	return models.FromDomainTimeSlot(slot), nil
}

// ListSlots получает слоты возможности
func (s *Service) ListSlots(ctx context.Context, opportunityID int64) (*models.TimeSlotListResponse, error) {
	if _, err := s.slotRepo.GetOpportunity(ctx, opportunityID); err != nil {
		return nil, s.mapRepoError("ListSlots", err)
	}

	slots, err := s.slotRepo.ListByOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, s.mapRepoError("ListSlots", err)
	}

	now := s.timeProvider.Now()
	for _, slot := range slots {
		slot.Refresh(now)
	}

	s.logger.Info("ListSlots: opportunity=%d, found %d slots", opportunityID, len(slots))
	return models.FromDomainTimeSlotList(slots), nil
}

// deriveOpportunity явный шаг пересчёта HasTimeSlots после изменения списка слотов
func (s *Service) deriveOpportunity(ctx context.Context, opportunity *domain.Opportunity) error {
	count, err := s.slotRepo.CountByOpportunity(ctx, opportunity.ID)
	if err != nil {
		return fmt.Errorf("%w: deriveOpportunity - count slots: %v", ErrInternal, err)
	}

	if !opportunity.Derive(count, s.timeProvider.Now()) {
		return nil
	}

	if err := s.slotRepo.UpdateOpportunity(ctx, opportunity); err != nil {
		return s.mapRepoError("deriveOpportunity", err)
	}
	return nil
}

func (s *Service) mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, slotRepo.ErrOpportunityNotFound):
		return domain.ErrOpportunityNotFound
	case errors.Is(err, slotRepo.ErrTimeSlotNotFound):
		return domain.ErrTimeSlotNotFound
	default:
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

// logFailure ожидаемые отказы пишутся в WARN, остальное в ERROR
func (s *Service) logFailure(op string, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrConflict):
		s.logger.Warn("%s: rejected: %v", op, err)
	default:
		s.logger.Error("%s: failed: %v", op, err)
	}
}
