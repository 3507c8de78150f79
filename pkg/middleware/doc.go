// Package middleware provides the observability layer for pagekit's HTTP
// surfaces: Prometheus metrics, OpenTelemetry tracing and an instrumented
// http.RoundTripper for outbound requests.
//
// # Prometheus Metrics
//
// Prometheus wraps an http.Handler and records, per chi route pattern:
//   - pagekit_requests_total: requests by route, method and status
//   - pagekit_request_duration_seconds: request duration histogram
//
// The same collector also carries counters fed by other packages:
//   - pagekit_client_requests_total: outbound requests by outcome (Transport)
//   - pagekit_dispatch_total: JSON method calls by method and outcome
//   - pagekit_history_writes_total: history entries pushed to remote pages
//   - pagekit_sockets_active: open remote history sockets
//
//	r := chi.NewRouter()
//	r.Use(middleware.Prometheus(middleware.WithNamespace("myapp")))
//	r.Handle("/metrics", promhttp.Handler())
//
// Register creates one Collector per prometheus.Registerer; registering
// the same registry again returns the same collector. Package-level
// Record functions and a nil *Collector use the first registered set.
// Disabled returns a collector that records nothing.
//
// # OpenTelemetry
//
// OpenTelemetry starts one server span per request, continuing any trace
// carried by the incoming headers. Transport does the reverse for client
// requests, injecting the current trace into outgoing headers:
//
//	client := &http.Client{Transport: middleware.Transport(http.DefaultTransport)}
//
// Both use the global tracer provider and propagator unless configured
// otherwise.
package middleware
