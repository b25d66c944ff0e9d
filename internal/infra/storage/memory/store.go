package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	"github.com/m04kA/WX-CapacityService/pkg/ptr"
	"github.com/m04kA/WX-CapacityService/pkg/txmanager"
)

// Store in-process хранилище для локального запуска и тестов.
// Реализует те же контракты, что и postgres-репозитории, и менеджер транзакций:
// транзакция держит мьютекс целиком и откатывает снимок состояния при ошибке.
type Store struct {
	mu    sync.Mutex
	state *state
}

type indexKey struct {
	opportunityID int64
	slotID        uuid.UUID
	month         domain.Month
}

type state struct {
	nextOpportunityID int64
	opportunities     map[int64]domain.Opportunity
	slots             map[uuid.UUID]*domain.TimeSlot
	index             map[indexKey]domain.DateCapacity
	reservations      map[uuid.UUID]domain.Reservation
}

type txKey struct{}

// NewStore создаёт пустое хранилище
func NewStore() *Store {
	return &Store{state: newState()}
}

func newState() *state {
	return &state{
		opportunities: make(map[int64]domain.Opportunity),
		slots:         make(map[uuid.UUID]*domain.TimeSlot),
		index:         make(map[indexKey]domain.DateCapacity),
		reservations:  make(map[uuid.UUID]domain.Reservation),
	}
}

// TimeSlots репозиторий слотов и возможностей
func (s *Store) TimeSlots() *TimeSlotRepository {
	return &TimeSlotRepository{store: s}
}

// DateCapacities репозиторий индекса
func (s *Store) DateCapacities() *DateCapacityRepository {
	return &DateCapacityRepository{store: s}
}

// Reservations репозиторий броней
func (s *Store) Reservations() *ReservationRepository {
	return &ReservationRepository{store: s}
}

// Do выполняет fn атомарно относительно всех остальных операций хранилища
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	hooksCtx, runHooks := txmanager.WithCommitHooks(ctx)
	err := fn(context.WithValue(hooksCtx, txKey{}, s))
	if err == nil {
		// Отменённый контекст не коммитится, как и в postgres
		err = ctx.Err()
	}
	if err != nil {
		s.state = snapshot
		return err
	}

	runHooks()
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// access выполняет fn над состоянием, беря мьютекс вне транзакции
func (s *Store) access(ctx context.Context, fn func(st *state) error) error {
	if s.inTx(ctx) {
		return fn(s.state)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.state)
}

func (st *state) clone() *state {
	c := &state{
		nextOpportunityID: st.nextOpportunityID,
		opportunities:     make(map[int64]domain.Opportunity, len(st.opportunities)),
		slots:             make(map[uuid.UUID]*domain.TimeSlot, len(st.slots)),
		index:             make(map[indexKey]domain.DateCapacity, len(st.index)),
		reservations:      make(map[uuid.UUID]domain.Reservation, len(st.reservations)),
	}
	for k, v := range st.opportunities {
		c.opportunities[k] = v
	}
	for k, v := range st.slots {
		c.slots[k] = cloneSlot(v)
	}
	for k, v := range st.index {
		c.index[k] = v
	}
	for k, v := range st.reservations {
		c.reservations[k] = cloneReservation(v)
	}
	return c
}

func cloneSlot(slot *domain.TimeSlot) *domain.TimeSlot {
	c := *slot
	if slot.Description != nil {
		c.Description = ptr.Ptr(*slot.Description)
	}
	c.MonthlyCapacities = append([]domain.MonthlyCapacity{}, slot.MonthlyCapacities...)
	c.CapacityOverrides = append([]domain.CapacityOverride{}, slot.CapacityOverrides...)
	return &c
}

func cloneReservation(r domain.Reservation) domain.Reservation {
	if r.Date != nil {
		r.Date = ptr.Ptr(*r.Date)
	}
	if r.OverrideID != nil {
		r.OverrideID = ptr.Ptr(*r.OverrideID)
	}
	if r.ApplicationRef != nil {
		r.ApplicationRef = ptr.Ptr(*r.ApplicationRef)
	}
	return r
}
