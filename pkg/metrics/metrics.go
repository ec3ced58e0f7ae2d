package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках передается nil.
type Metrics struct {
	serviceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrors      *prometheus.CounterVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec

	SessionsCreated    *prometheus.CounterVec
	SessionsRejected   *prometheus.CounterVec
	SessionTransitions *prometheus.CounterVec
	FeedbackCompleted  *prometheus.CounterVec
	SweepItems         *prometheus.CounterVec
	SideEffects        *prometheus.CounterVec
}

// New регистрирует метрики в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer регистрирует метрики в переданном реестре
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	m := &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),
		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),
		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		SessionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sessions_created_total",
			Help: "Mentorship sessions created",
		}, []string{"service", "source"}),
		SessionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_conflicts_total",
			Help: "Session requests rejected by conflict or capacity checks",
		}, []string{"service", "kind"}),
		SessionTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_transitions_total",
			Help: "Applied session status transitions",
		}, []string{"service", "from", "to"}),
		FeedbackCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_completed_total",
			Help: "Sessions with both sides of feedback received",
		}, []string{"service"}),
		SweepItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sweep_items_total",
			Help: "Items handled by background sweeps",
		}, []string{"service", "sweep", "result"}),
		SideEffects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "side_effects_total",
			Help: "Dispatched best-effort side effects",
		}, []string{"service", "effect", "result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.SessionsCreated,
		m.SessionsRejected,
		m.SessionTransitions,
		m.FeedbackCompleted,
		m.SweepItems,
		m.SideEffects,
	)

	return m
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
	if err != nil && err != sql.ErrNoRows {
		m.DBQueryErrors.WithLabelValues(m.serviceName, operation).Inc()
	}
}

func (m *Metrics) SetDBStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.DBOpenConnections.WithLabelValues(m.serviceName).Set(float64(stats.OpenConnections))
	m.DBInUseConnections.WithLabelValues(m.serviceName).Set(float64(stats.InUse))
	m.DBIdleConnections.WithLabelValues(m.serviceName).Set(float64(stats.Idle))
}

// IncSessionCreated source: "direct" или "recurrence"
func (m *Metrics) IncSessionCreated(source string) {
	if m == nil {
		return
	}
	m.SessionsCreated.WithLabelValues(m.serviceName, source).Inc()
}

// IncSessionRejected kind: validation, not_found, business_rule, conflict, internal
func (m *Metrics) IncSessionRejected(kind string) {
	if m == nil {
		return
	}
	m.SessionsRejected.WithLabelValues(m.serviceName, kind).Inc()
}

func (m *Metrics) IncTransition(from, to string) {
	if m == nil {
		return
	}
	m.SessionTransitions.WithLabelValues(m.serviceName, from, to).Inc()
}

func (m *Metrics) IncFeedbackCompleted() {
	if m == nil {
		return
	}
	m.FeedbackCompleted.WithLabelValues(m.serviceName).Inc()
}

func (m *Metrics) IncSweepItem(sweep, result string) {
	if m == nil {
		return
	}
	m.SweepItems.WithLabelValues(m.serviceName, sweep, result).Inc()
}

func (m *Metrics) IncSideEffect(effect, result string) {
	if m == nil {
		return
	}
	m.SideEffects.WithLabelValues(m.serviceName, effect, result).Inc()
}
