package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "pagekit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "pagekit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	clientRequests  *prometheus.CounterVec
	clientDuration  prometheus.Histogram
	dispatchTotal   *prometheus.CounterVec
	historyWrites   *prometheus.CounterVec
	socketsActive   prometheus.Gauge
}

// Metrics are created once per registerer. The first set created is the
// default that the package-level Record functions write to.
var (
	metricsMu      sync.Mutex
	metricsByReg   = make(map[prometheus.Registerer]*metrics)
	defaultMetrics *metrics
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of HTTP requests served",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "method", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		clientRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "client_requests_total",
			Help:        "Total number of outbound HTTP requests by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		clientDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "client_request_duration_seconds",
			Help:        "Outbound HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		dispatchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_total",
			Help:        "Total number of JSON method calls by method and outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "outcome"}),

		historyWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "history_writes_total",
			Help:        "Total number of history entries written to remote pages",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		socketsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sockets_active",
			Help:        "Number of open remote history sockets",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Register returns the metrics registered in the options' registerer,
// creating them on first use. Options other than the registerer are ignored
// once that registerer has metrics.
func Register(opts ...MetricsOption) *Collector {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}

	metricsMu.Lock()
	defer metricsMu.Unlock()
	m, ok := metricsByReg[config.Registry]
	if !ok {
		m = initMetrics(config)
		metricsByReg[config.Registry] = m
		if defaultMetrics == nil {
			defaultMetrics = m
		}
	}
	return &Collector{m: m}
}

// Prometheus returns HTTP middleware that counts and times requests.
// Requests are labelled with the chi route pattern that served them, or
// "unmatched" when no route did, keeping label cardinality bounded.
//
//	r.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
func Prometheus(opts ...MetricsOption) func(http.Handler) http.Handler {
	return Register(opts...).Middleware()
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// =============================================================================
// Metrics Recording Functions
// =============================================================================

// RecordClientRequest records one outbound request in the default metrics.
// outcome is a status class ("2xx", "4xx", ...) or an error category.
func RecordClientRequest(outcome string, d time.Duration) {
	(*Collector)(nil).RecordClientRequest(outcome, d)
}

// RecordDispatch records one JSON method call in the default metrics.
// outcome is "ok" or "error".
func RecordDispatch(method, outcome string) {
	(*Collector)(nil).RecordDispatch(method, outcome)
}

// RecordHistoryWrite records a history entry sent to a remote page in the
// default metrics.
func RecordHistoryWrite(op string) {
	(*Collector)(nil).RecordHistoryWrite(op)
}

// RecordSocketOpen records a remote history socket being opened in the
// default metrics.
func RecordSocketOpen() {
	(*Collector)(nil).RecordSocketOpen()
}

// RecordSocketClose records a remote history socket being closed in the
// default metrics.
func RecordSocketClose() {
	(*Collector)(nil).RecordSocketClose()
}

func current() *metrics {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	return defaultMetrics
}

// =============================================================================
// Metrics Collector
// =============================================================================

// Collector is one registered set of metrics. A nil *Collector records to
// the default set, and recording is a no-op until one is registered.
type Collector struct {
	m   *metrics
	off bool
}

// Disabled returns a collector that records nothing.
func Disabled() *Collector { return &Collector{off: true} }

// GetMetrics returns the default collector, or nil if metrics have not
// been registered.
func GetMetrics() *Collector {
	m := current()
	if m == nil {
		return nil
	}
	return &Collector{m: m}
}

func (c *Collector) resolve() *metrics {
	if c != nil && c.off {
		return nil
	}
	if c != nil && c.m != nil {
		return c.m
	}
	return current()
}

// Middleware returns HTTP middleware that counts and times requests in c.
func (c *Collector) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			m := c.resolve()
			if m == nil {
				return
			}
			route := routePattern(r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			m.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		})
	}
}

// RecordClientRequest records one outbound request.
func (c *Collector) RecordClientRequest(outcome string, d time.Duration) {
	if m := c.resolve(); m != nil {
		m.clientRequests.WithLabelValues(outcome).Inc()
		m.clientDuration.Observe(d.Seconds())
	}
}

// RecordDispatch records one JSON method call.
func (c *Collector) RecordDispatch(method, outcome string) {
	if m := c.resolve(); m != nil {
		m.dispatchTotal.WithLabelValues(method, outcome).Inc()
	}
}

// RecordHistoryWrite records a history entry sent to a remote page.
func (c *Collector) RecordHistoryWrite(op string) {
	if m := c.resolve(); m != nil {
		m.historyWrites.WithLabelValues(op).Inc()
	}
}

// RecordSocketOpen records a remote history socket being opened.
func (c *Collector) RecordSocketOpen() {
	if m := c.resolve(); m != nil {
		m.socketsActive.Inc()
	}
}

// RecordSocketClose records a remote history socket being closed.
func (c *Collector) RecordSocketClose() {
	if m := c.resolve(); m != nil {
		m.socketsActive.Dec()
	}
}

// Requests returns the served-request counter.
func (c *Collector) Requests() *prometheus.CounterVec { return c.m.requestsTotal }

// RequestDuration returns the served-request duration histogram.
func (c *Collector) RequestDuration() *prometheus.HistogramVec { return c.m.requestDuration }

// ClientRequests returns the outbound request counter.
func (c *Collector) ClientRequests() *prometheus.CounterVec { return c.m.clientRequests }

// Dispatch returns the JSON method call counter.
func (c *Collector) Dispatch() *prometheus.CounterVec { return c.m.dispatchTotal }

// HistoryWrites returns the remote history write counter.
func (c *Collector) HistoryWrites() *prometheus.CounterVec { return c.m.historyWrites }

// SocketsActive returns the open socket gauge.
func (c *Collector) SocketsActive() prometheus.Gauge { return c.m.socketsActive }
