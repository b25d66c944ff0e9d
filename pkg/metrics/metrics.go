package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Booking outcomes
const (
	OutcomeApplied   = "applied"
	OutcomeExceeded  = "capacity_exceeded"
	OutcomeConfirmed = "confirmed"
	OutcomeReleased  = "released"
	OutcomeRejected  = "rejected"
)

// Metrics коллектор prometheus метрик сервиса
type Metrics struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	dbQueryDuration  *prometheus.HistogramVec
	dbQueryErrors    *prometheus.CounterVec
	dbOpenConns      *prometheus.GaugeVec
	dbInUseConns     *prometheus.GaugeVec
	bookingOutcomes  *prometheus.CounterVec
	materializedRows prometheus.Counter
	statusChanges    *prometheus.CounterVec
}

// New создает и регистрирует метрики в registerer
func New(serviceName string, registerer prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Database query errors",
		}, []string{"service", "operation"}),
		dbOpenConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Open database connections",
		}, []string{"service"}),
		dbInUseConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Database connections in use",
		}, []string{"service"}),
		bookingOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_outcomes_total",
			Help:        "Booking counter outcomes",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		materializedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "date_capacity_rows_materialized_total",
			Help:        "Date-capacity index rows written",
			ConstLabels: constLabels,
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "time_slot_status_changes_total",
			Help:        "Automatic time slot status transitions",
			ConstLabels: constLabels,
		}, []string{"to"}),
	}

	registerer.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbOpenConns,
		m.dbInUseConns,
		m.bookingOutcomes,
		m.materializedRows,
		m.statusChanges,
	)

	return m
}

// ObserveHTTP пишет метрики одного HTTP запроса
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery реализует dbmetrics.Collector
func (m *Metrics) ObserveDBQuery(service, operation string, duration time.Duration, err error) {
	m.dbQueryDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
	if err != nil && err != sql.ErrNoRows {
		m.dbQueryErrors.WithLabelValues(service, operation).Inc()
	}
}

// SetDBPoolStats реализует dbmetrics.Collector
func (m *Metrics) SetDBPoolStats(service string, stats sql.DBStats) {
	m.dbOpenConns.WithLabelValues(service).Set(float64(stats.OpenConnections))
	m.dbInUseConns.WithLabelValues(service).Set(float64(stats.InUse))
}

// ObserveBooking считает исход операции счётчика бронирований
func (m *Metrics) ObserveBooking(outcome string) {
	m.bookingOutcomes.WithLabelValues(outcome).Inc()
}

// AddMaterializedRows считает строки, записанные в индекс
func (m *Metrics) AddMaterializedRows(n int) {
	m.materializedRows.Add(float64(n))
}

// ObserveStatusChange считает автоматические переходы статуса слота
func (m *Metrics) ObserveStatusChange(to string) {
	m.statusChanges.WithLabelValues(to).Inc()
}

// Nop реализация без записи, когда метрики выключены
type Nop struct{}

func (Nop) ObserveHTTP(string, string, int, time.Duration) {}
func (Nop) ObserveBooking(string) {}
func (Nop) AddMaterializedRows(int) {}
func (Nop) ObserveStatusChange(string) {}
