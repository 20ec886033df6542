package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus метрик сервиса
type Metrics struct {
	serviceName string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	slotTransitionsTotal *prometheus.CounterVec
	slotsOccupied        *prometheus.GaugeVec
	checkoutDuration     *prometheus.HistogramVec
	checkoutFee          *prometheus.HistogramVec

	dbQueryDuration    *prometheus.HistogramVec
	dbOpenConnections  *prometheus.GaugeVec
	dbInUseConnections *prometheus.GaugeVec
	dbIdleConnections  *prometheus.GaugeVec
}

// Результаты переходов для метки result
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
)

// New создает метрики и регистрирует их в registry по умолчанию
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в указанном registry
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,

		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),

		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),

		slotTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parking_slot_transitions_total",
			Help: "Slot lifecycle transitions by action and result",
		}, []string{"service", "action", "result", "reason"}),

		slotsOccupied: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "parking_slots_occupied",
			Help: "Number of currently occupied slots",
		}, []string{"service"}),

		checkoutDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "parking_checkout_duration_minutes",
			Help:    "Parking session duration at checkout, in minutes",
			Buckets: []float64{5, 15, 30, 60, 120, 240, 480, 1440},
		}, []string{"service"}),

		checkoutFee: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "parking_checkout_fee",
			Help:    "Fee charged at checkout, in currency units",
			Buckets: []float64{50, 100, 200, 500, 1000, 2000},
		}, []string{"service"}),

		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "operation"}),

		dbOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections to the database",
		}, []string{"service"}),

		dbInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		dbIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.slotTransitionsTotal,
		m.slotsOccupied,
		m.checkoutDuration,
		m.checkoutFee,
		m.dbQueryDuration,
		m.dbOpenConnections,
		m.dbInUseConnections,
		m.dbIdleConnections,
	)

	return m
}

// ObserveHTTPRequest записывает результат HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(m.serviceName, method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(m.serviceName, method, route).Observe(duration.Seconds())
}

// SetOccupied устанавливает текущее число занятых слотов
func (m *Metrics) SetOccupied(n int) {
	m.slotsOccupied.WithLabelValues(m.serviceName).Set(float64(n))
}

// RecordCheckIn учитывает успешный въезд
func (m *Metrics) RecordCheckIn() {
	m.slotTransitionsTotal.WithLabelValues(m.serviceName, "checkin", ResultSuccess, "").Inc()
	m.slotsOccupied.WithLabelValues(m.serviceName).Inc()
}

// RecordCheckOut учитывает успешный выезд с длительностью и платой
func (m *Metrics) RecordCheckOut(durationMinutes, fee int64) {
	m.slotTransitionsTotal.WithLabelValues(m.serviceName, "checkout", ResultSuccess, "").Inc()
	m.slotsOccupied.WithLabelValues(m.serviceName).Dec()
	m.checkoutDuration.WithLabelValues(m.serviceName).Observe(float64(durationMinutes))
	m.checkoutFee.WithLabelValues(m.serviceName).Observe(float64(fee))
}

// RecordRejected учитывает отклонённый переход
func (m *Metrics) RecordRejected(action, reason string) {
	m.slotTransitionsTotal.WithLabelValues(m.serviceName, action, ResultRejected, reason).Inc()
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	m.dbQueryDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int) {
	m.dbOpenConnections.WithLabelValues(m.serviceName).Set(float64(open))
	m.dbInUseConnections.WithLabelValues(m.serviceName).Set(float64(inUse))
	m.dbIdleConnections.WithLabelValues(m.serviceName).Set(float64(idle))
}
