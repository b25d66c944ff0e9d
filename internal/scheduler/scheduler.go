package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/WX-CapacityService/internal/usecase/refresh_statuses"
)

// StatusRefresher периодический пересчёт статусов слотов
type StatusRefresher interface {
	Execute(ctx context.Context) (*refresh_statuses.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Config параметры планировщика
type Config struct {
	StatusRefreshCron string        // cron-выражение, 5 полей
	JobTimeout        time.Duration // таймаут одного прохода
	RunOnStart        bool          // первый проход сразу при старте
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	cron      *cron.Cron
	refresher StatusRefresher
	cfg       Config
	logger    Logger

	mu      sync.Mutex
	running bool
	startup sync.WaitGroup // первый проход при RunOnStart идёт мимо cron
	cancel  context.CancelFunc
	baseCtx context.Context
}

// NewScheduler создаёт планировщик и регистрирует задачи
func NewScheduler(refresher StatusRefresher, cfg Config, logger Logger) (*Scheduler, error) {
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = time.Minute
	}

	s := &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		cfg:       cfg,
		logger:    logger,
		baseCtx:   context.Background(),
	}

	if _, err := s.cron.AddFunc(cfg.StatusRefreshCron, s.refreshStatuses); err != nil {
		return nil, fmt.Errorf("scheduler: invalid status refresh schedule %q: %w", cfg.StatusRefreshCron, err)
	}

	return s, nil
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler, status refresh: %s", s.cfg.StatusRefreshCron)

	s.baseCtx, s.cancel = context.WithCancel(ctx)

	// Первый запуск сразу при старте
	if s.cfg.RunOnStart {
		s.startup.Add(1)
		go func() {
			defer s.startup.Done()
			s.refreshStatuses()
		}()
	}

	s.cron.Start()
}

// Stop останавливает фоновые задачи и ждёт завершения текущего прохода
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")

	done := s.cron.Stop()
	if s.cancel != nil {
		s.cancel()
	}
	<-done.Done()
	s.startup.Wait()
}

// refreshStatuses один проход пересчёта; параллельные проходы пропускаются
func (s *Scheduler) refreshStatuses() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("Scheduler: status refresh still running, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(s.baseCtx, s.cfg.JobTimeout)
	defer cancel()

	resp, err := s.refresher.Execute(ctx)
	if err != nil {
		s.logger.Error("Scheduler: status refresh failed: %v", err)
		return
	}

	if resp.Failed > 0 {
		s.logger.Warn("Scheduler: status refresh closed %d slots, %d failed", resp.Closed, resp.Failed)
	}
}
