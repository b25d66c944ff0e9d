package app

import (
	"context"
	"time"

	dateCapacityRepo "github.com/m04kA/WX-CapacityService/internal/infra/storage/datecapacity"
	"github.com/m04kA/WX-CapacityService/internal/infra/storage/memory"
	reservationRepo "github.com/m04kA/WX-CapacityService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/WX-CapacityService/internal/infra/storage/timeslot"
	"github.com/m04kA/WX-CapacityService/internal/service/datecapacity"
	"github.com/m04kA/WX-CapacityService/internal/service/timeslots"
	"github.com/m04kA/WX-CapacityService/internal/usecase/apply_booking"
	"github.com/m04kA/WX-CapacityService/internal/usecase/confirm_booking"
	"github.com/m04kA/WX-CapacityService/internal/usecase/get_availability"
	"github.com/m04kA/WX-CapacityService/internal/usecase/refresh_statuses"
	"github.com/m04kA/WX-CapacityService/internal/usecase/release_booking"
	"github.com/m04kA/WX-CapacityService/pkg/dbmetrics"
	"github.com/m04kA/WX-CapacityService/pkg/logger"
	"github.com/m04kA/WX-CapacityService/pkg/txmanager"
)

// SlotStore всё, что сервисам и use case нужно от хранилища слотов
type SlotStore interface {
	timeslots.SlotRepository
	refresh_statuses.SlotRepository
	get_availability.SlotRepository
	datecapacity.SlotRepository
}

// IndexStore хранилище индекса date_capacities
type IndexStore interface {
	datecapacity.IndexRepository
	get_availability.IndexRepository
}

// ReservationStore журнал броней
type ReservationStore interface {
	timeslots.ReservationRepository
	apply_booking.ReservationRepository
	confirm_booking.ReservationRepository
}

// TxManager менеджер транзакций, общий для всех компонентов
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Collector метрики бизнес-событий
type Collector interface {
	ObserveBooking(outcome string)
	AddMaterializedRows(n int)
	ObserveStatusChange(to string)
}

// Clock источник времени; nil означает time.Now
type Clock interface {
	Now() time.Time
}

// Storage набор репозиториев одного драйвера
type Storage struct {
	Slots        SlotStore
	Index        IndexStore
	Reservations ReservationStore
	Tx           TxManager
}

// NewPostgresStorage репозитории поверх database/sql.
// db: *sql.DB или *dbmetrics.DB, транзакции прокидываются через контекст.
func NewPostgresStorage(db dbmetrics.DBExecutor) Storage {
	return Storage{
		Slots:        slotRepo.NewRepository(db),
		Index:        dateCapacityRepo.NewRepository(db),
		Reservations: reservationRepo.NewRepository(db),
		Tx:           txmanager.NewTransactionManager(db),
	}
}

// NewMemoryStorage in-process хранилище
func NewMemoryStorage(store *memory.Store) Storage {
	return Storage{
		Slots:        store.TimeSlots(),
		Index:        store.DateCapacities(),
		Reservations: store.Reservations(),
		Tx:           store,
	}
}

// Container сервисы и use case, собранные над одним хранилищем
type Container struct {
	TimeSlots       *timeslots.Service
	Index           *datecapacity.Service
	ApplyBooking    *apply_booking.UseCase
	ConfirmBooking  *confirm_booking.UseCase
	ReleaseBooking  *release_booking.UseCase
	Availability    *get_availability.UseCase
	RefreshStatuses *refresh_statuses.UseCase
}

// NewContainer собирает граф зависимостей
func NewContainer(st Storage, collector Collector, maxQueryMonths int, clock Clock, log *logger.Logger) *Container {
	index := datecapacity.NewService(st.Index, st.Slots, st.Tx, collector, clock, log)

	return &Container{
		TimeSlots:       timeslots.NewService(st.Slots, st.Reservations, index, st.Tx, clock, log),
		Index:           index,
		ApplyBooking:    apply_booking.NewUseCase(st.Slots, st.Reservations, index, st.Tx, collector, clock, log),
		ConfirmBooking:  confirm_booking.NewUseCase(st.Slots, st.Reservations, st.Tx, collector, clock, log),
		ReleaseBooking:  release_booking.NewUseCase(st.Slots, st.Reservations, index, st.Tx, collector, clock, log),
		Availability:    get_availability.NewUseCase(st.Index, st.Slots, maxQueryMonths, clock, log),
		RefreshStatuses: refresh_statuses.NewUseCase(st.Slots, st.Tx, collector, clock, log),
	}
}
