package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/heraldry-backend/internal/platform/logger"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	graphTx        *prometheus.CounterVec
	graphTxLatency *prometheus.HistogramVec
	breakerState   *prometheus.GaugeVec

	searchCache *prometheus.CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Current() *Metrics {
	return instance
}

// Init builds the process-wide metrics once.
func Init(log *logger.Logger) *Metrics {
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("metrics initialized")
		}
	})
	return instance
}

// New returns an independent set of collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heraldry_api_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "heraldry_api_request_duration_seconds",
			Help:    "API request latency in seconds by method/route/status.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "heraldry_api_inflight_requests",
			Help: "In-flight API requests.",
		}),
		graphTx: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heraldry_graph_transactions_total",
			Help: "Graph store transactions by mode/outcome.",
		}, []string{"mode", "outcome"}),
		graphTxLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "heraldry_graph_transaction_duration_seconds",
			Help:    "Graph store transaction latency in seconds by mode.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"mode"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "heraldry_graph_breaker_state",
			Help: "Graph store circuit breaker state (0 closed, 1 half-open, 2 open).",
		}, []string{"name"}),
		searchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heraldry_search_cache_total",
			Help: "Research cache lookups by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.graphTx,
		m.graphTxLatency,
		m.breakerState,
		m.searchCache,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	code := strconv.Itoa(status)
	m.apiRequests.WithLabelValues(method, route, code).Inc()
	m.apiLatency.WithLabelValues(method, route, code).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveGraphTx(mode, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.graphTx.WithLabelValues(mode, outcome).Inc()
	m.graphTxLatency.WithLabelValues(mode).Observe(dur.Seconds())
}

func (m *Metrics) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(name).Set(float64(state))
}

func (m *Metrics) IncSearchCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.searchCache.WithLabelValues(result).Inc()
}
