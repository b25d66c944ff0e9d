package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/WX-CapacityService/internal/api"
	"github.com/m04kA/WX-CapacityService/internal/api/middleware"
	"github.com/m04kA/WX-CapacityService/internal/app"
	"github.com/m04kA/WX-CapacityService/internal/config"
	"github.com/m04kA/WX-CapacityService/internal/infra/migrations"
	"github.com/m04kA/WX-CapacityService/internal/infra/storage/memory"
	"github.com/m04kA/WX-CapacityService/internal/scheduler"
	"github.com/m04kA/WX-CapacityService/pkg/dbmetrics"
	"github.com/m04kA/WX-CapacityService/pkg/logger"
	"github.com/m04kA/WX-CapacityService/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting WX-CapacityService (storage=%s)...", cfg.Storage.Driver)

	// Инициализируем метрики (если включены)
	var collector app.Collector = metrics.Nop{}
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, prometheus.DefaultRegisterer)
		collector = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище
	var storage app.Storage

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		storage = app.NewMemoryStorage(memory.NewStore())
		log.Warn("Using in-memory storage: data is lost on restart")

	default:
		db, err := openDatabase(cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		if cfg.Database.MigrateOnStart {
			migrator, err := migrations.NewMigrator(db, log)
			if err != nil {
				log.Fatal("Failed to init migrator: %v", err)
			}
			if err := migrator.Up(context.Background()); err != nil {
				log.Fatal("Failed to apply migrations: %v", err)
			}
		}

		if cfg.Metrics.Enabled {
			wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
			storage = app.NewPostgresStorage(wrappedDB)
			log.Info("Database metrics collection started")
		} else {
			storage = app.NewPostgresStorage(db)
		}
	}

	// Собираем сервисы и use cases
	container := app.NewContainer(storage, collector, cfg.Availability.MaxQueryMonths, nil, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api.RegisterRoutes(r, container, log)

	// Фоновый пересчёт статусов
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.NewScheduler(container.RefreshStatuses, scheduler.Config{
			StatusRefreshCron: cfg.Scheduler.StatusRefreshCron,
			JobTimeout:        time.Duration(cfg.Scheduler.JobTimeout) * time.Second,
			RunOnStart:        cfg.Scheduler.RunOnStart,
		}, log)
		if err != nil {
			log.Fatal("Failed to init scheduler: %v", err)
		}
		sched.Start(ctx)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// openDatabase открывает пул соединений и проверяет доступность БД
func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
