package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "salon_booking"

// Metrics набор prometheus-коллекторов сервиса.
// Все методы безопасны для nil-получателя, чтобы метрики можно было отключить конфигом.
type Metrics struct {
	service string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbConnections   *prometheus.GaugeVec

	statusTransitions    *prometheus.CounterVec
	revenueRecords       *prometheus.CounterVec
	availabilitySearches *prometheus.CounterVec
	bookingConflicts     *prometheus.CounterVec
}

// New регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		service: serviceName,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		}, []string{"service", "method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query latency",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "operation", "status"}),
		dbConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "connections",
			Help:      "Database connection pool state",
		}, []string{"service", "state"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "status_transitions_total",
			Help:      "Applied appointment status transitions",
		}, []string{"service", "from", "to"}),
		revenueRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "revenue_records_total",
			Help:      "Revenue record creation attempts by result",
		}, []string{"service", "result"}),
		availabilitySearches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "availability",
			Name:      "searches_total",
			Help:      "Next availability searches by result",
		}, []string{"service", "result"}),
		bookingConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "booking_conflicts_total",
			Help:      "Booking attempts rejected because the slot was taken",
		}, []string{"service"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbConnections,
		m.statusTransitions,
		m.revenueRecords,
		m.availabilitySearches,
		m.bookingConflicts,
	)

	return m
}

// ObserveHTTPRequest учитывает завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(m.service, method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(m.service, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery учитывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil && err != sql.ErrNoRows {
		status = "error"
	}
	m.dbQueryDuration.WithLabelValues(m.service, operation, status).Observe(duration.Seconds())
}

// SetDBPoolStats выгружает состояние пула соединений
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues(m.service, "open").Set(float64(stats.OpenConnections))
	m.dbConnections.WithLabelValues(m.service, "in_use").Set(float64(stats.InUse))
	m.dbConnections.WithLabelValues(m.service, "idle").Set(float64(stats.Idle))
}

// ObserveStatusTransition учитывает примененный переход статуса записи
func (m *Metrics) ObserveStatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(m.service, from, to).Inc()
}

// ObserveRevenueRecord учитывает попытку создать запись о выручке (created, duplicate, failed)
func (m *Metrics) ObserveRevenueRecord(result string) {
	if m == nil {
		return
	}
	m.revenueRecords.WithLabelValues(m.service, result).Inc()
}

// ObserveAvailabilitySearch учитывает поиск ближайшего слота (found, exhausted, error)
func (m *Metrics) ObserveAvailabilitySearch(result string) {
	if m == nil {
		return
	}
	m.availabilitySearches.WithLabelValues(m.service, result).Inc()
}

// ObserveBookingConflict учитывает отказ в записи из-за занятого слота
func (m *Metrics) ObserveBookingConflict() {
	if m == nil {
		return
	}
	m.bookingConflicts.WithLabelValues(m.service).Inc()
}
