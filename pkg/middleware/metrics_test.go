package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func resetGlobalMetricsForTest() {
	metricsMu.Lock()
	metricsByReg = make(map[prometheus.Registerer]*metrics)
	defaultMetrics = nil
	metricsMu.Unlock()
}

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func newInstrumentedRouter(opts ...MetricsOption) *chi.Mux {
	r := chi.NewRouter()
	r.Use(Prometheus(opts...))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Post("/fail", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	return r
}

func TestPrometheusMiddleware_LabelsByRoutePattern(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()
	r := newInstrumentedRouter(WithRegistry(reg))

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET /items/%s = %d", id, rec.Code)
		}
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/fail", nil))

	c := GetMetrics()
	if c == nil {
		t.Fatal("expected GetMetrics to return collector after initialization")
	}
	if got := metricCounterValue(t, c.Requests().WithLabelValues("/items/{id}", "GET", "200")); got != 3 {
		t.Fatalf("requests_total(/items/{id},200)=%v, want 3", got)
	}
	if got := metricCounterValue(t, c.Requests().WithLabelValues("/fail", "POST", "500")); got != 1 {
		t.Fatalf("requests_total(/fail,500)=%v, want 1", got)
	}
	if got := metricHistogramCount(t, c.RequestDuration().WithLabelValues("/items/{id}")); got != 3 {
		t.Fatalf("request_duration_seconds count=%v, want 3", got)
	}
}

func TestPrometheusMiddleware_UnmatchedRoute(t *testing.T) {
	resetGlobalMetricsForTest()
	r := newInstrumentedRouter(WithRegistry(prometheus.NewRegistry()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	c := GetMetrics()
	if got := metricCounterValue(t, c.Requests().WithLabelValues("unmatched", "GET", "404")); got != 1 {
		t.Fatalf("requests_total(unmatched,404)=%v, want 1", got)
	}
}

func TestPrometheusMiddleware_NamespaceAndGather(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()
	r := newInstrumentedRouter(WithRegistry(reg), WithNamespace("myapp"), WithBuckets([]float64{0.1, 1}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/9", nil))

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "myapp_requests_total" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected myapp_requests_total in registry")
	}
}

func TestRegisterPerRegistry(t *testing.T) {
	resetGlobalMetricsForTest()
	regA, regB := prometheus.NewRegistry(), prometheus.NewRegistry()

	first := Register(WithRegistry(regA))
	again := Register(WithRegistry(regA), WithNamespace("ignored"))
	second := Register(WithRegistry(regB))

	if first.m != again.m {
		t.Fatal("expected Register to reuse the metrics of the same registry")
	}
	if first.m == second.m {
		t.Fatal("expected a separate metrics set per registry")
	}
	if GetMetrics().m != first.m {
		t.Fatal("expected the first registered set to be the default")
	}

	second.RecordDispatch("echo", "ok")
	if got := metricCounterValue(t, second.Dispatch().WithLabelValues("echo", "ok")); got != 1 {
		t.Fatalf("dispatch_total on second registry = %v, want 1", got)
	}
	if got := metricCounterValue(t, first.Dispatch().WithLabelValues("echo", "ok")); got != 0 {
		t.Fatalf("dispatch_total on first registry = %v, want 0", got)
	}
}

func TestDisabledCollector(t *testing.T) {
	resetGlobalMetricsForTest()
	def := Register(WithRegistry(prometheus.NewRegistry()))

	Disabled().RecordDispatch("echo", "ok")
	Disabled().RecordSocketOpen()
	if got := metricCounterValue(t, def.Dispatch().WithLabelValues("echo", "ok")); got != 0 {
		t.Fatalf("dispatch_total = %v after a disabled record, want 0", got)
	}

	(*Collector)(nil).RecordDispatch("echo", "ok")
	if got := metricCounterValue(t, def.Dispatch().WithLabelValues("echo", "ok")); got != 1 {
		t.Fatalf("dispatch_total = %v after a nil-collector record, want 1", got)
	}
}

func TestCollectorMiddlewarePerRegistry(t *testing.T) {
	resetGlobalMetricsForTest()

	for i, ns := range []string{"one", "two"} {
		reg := prometheus.NewRegistry()
		r := newInstrumentedRouter(WithRegistry(reg), WithNamespace(ns))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", nil))

		families, err := reg.Gather()
		if err != nil {
			t.Fatal(err)
		}
		found := false
		for _, f := range families {
			if f.GetName() == ns+"_requests_total" {
				found = true
			}
		}
		if !found {
			t.Fatalf("router %d: %s_requests_total missing from its registry", i, ns)
		}
	}
}

func TestMetricsRecordFunctions(t *testing.T) {
	resetGlobalMetricsForTest()
	// Uninitialized recording is a no-op.
	RecordDispatch("echo", "ok")
	RecordSocketOpen()

	c := Register(WithRegistry(prometheus.NewRegistry()))

	RecordClientRequest("2xx", 10*time.Millisecond)
	RecordClientRequest("refused", time.Millisecond)
	RecordDispatch("echo", "ok")
	RecordDispatch("echo", "error")
	RecordHistoryWrite("pushState")
	RecordSocketOpen()
	RecordSocketOpen()
	RecordSocketClose()

	if got := metricCounterValue(t, c.ClientRequests().WithLabelValues("2xx")); got != 1 {
		t.Fatalf("client_requests_total(2xx)=%v, want 1", got)
	}
	if got := metricCounterValue(t, c.ClientRequests().WithLabelValues("refused")); got != 1 {
		t.Fatalf("client_requests_total(refused)=%v, want 1", got)
	}
	if got := metricCounterValue(t, c.Dispatch().WithLabelValues("echo", "ok")); got != 1 {
		t.Fatalf("dispatch_total(echo,ok)=%v, want 1", got)
	}
	if got := metricCounterValue(t, c.HistoryWrites().WithLabelValues("pushState")); got != 1 {
		t.Fatalf("history_writes_total=%v, want 1", got)
	}
	if got := metricGaugeValue(t, c.SocketsActive()); got != 1 {
		t.Fatalf("sockets_active=%v, want 1", got)
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		err  string
		want string
	}{
		{"Post \"http://x\": context canceled", "canceled"},
		{"net/http: request canceled (Client.Timeout exceeded)", "timeout"},
		{"context deadline exceeded", "timeout"},
		{"dial tcp 127.0.0.1:1: connect: connection refused", "refused"},
		{"dial tcp: lookup nowhere.invalid: no such host", "dns"},
		{"EOF", "error"},
	}
	for _, tt := range tests {
		if got := categorizeError(errors.New(tt.err)); got != tt.want {
			t.Errorf("categorizeError(%q) = %q, want %q", tt.err, got, tt.want)
		}
	}
	if got := statusClass(404); got != "4xx" {
		t.Errorf("statusClass(404) = %q", got)
	}
	if got := statusClass(42); got != "other" {
		t.Errorf("statusClass(42) = %q", got)
	}
}
