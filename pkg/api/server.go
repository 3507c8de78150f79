package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/pagekit/pkg/datetime"
	"github.com/vango-dev/pagekit/pkg/middleware"
	"github.com/vango-dev/pagekit/pkg/remote"
	"github.com/vango-dev/pagekit/pkg/render"
	"github.com/vango-dev/pagekit/pkg/urlparam"
	"github.com/vango-dev/pagekit/pkg/vdom"
)

// Route paths.
const (
	PathPrefix  = "/bp"
	PathIndex   = "/index"
	PathPost    = "/post/read"
	PathGet     = "/get/read"
	PathSocket  = "/ws"
	PathMetrics = "/metrics"
)

// maxBodyBytes bounds the size of a dispatch request body.
const maxBodyBytes = 1 << 20

// Config configures a Server.
type Config struct {
	// Addr is the TCP address to listen on, e.g. "0.0.0.0:44344".
	Addr string

	// Title is the index page title.
	Title string

	// Debug adds panic stacks to error responses.
	Debug bool

	// Location is the zone the datetime method formats in.
	// Default: time.Local
	Location *time.Location

	// AllowedOrigins lists the origins allowed to open the history socket.
	// Empty means same origin only; "*" allows any origin.
	AllowedOrigins []string

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration

	// Metrics enables request metrics and the /metrics endpoint.
	Metrics bool

	// MetricsNamespace prefixes metric names.
	// Default: "pagekit"
	MetricsNamespace string

	// Registry receives the metrics and backs /metrics.
	// Default: prometheus.DefaultRegisterer and DefaultGatherer
	Registry *prometheus.Registry

	// Tracing options for the server span middleware.
	Tracing []middleware.OTelOption

	// Middlewares run after the built-in middleware, in order.
	Middlewares []func(http.Handler) http.Handler

	// Logger is the structured logger.
	// Default: slog.Default()
	Logger *slog.Logger
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() Config {
	return Config{
		Addr:             "0.0.0.0:44344",
		Title:            "pagekit",
		Location:         time.Local,
		ShutdownTimeout:  10 * time.Second,
		MetricsNamespace: "pagekit",
		Logger:           slog.Default(),
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.Location == nil {
		c.Location = d.Location
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.MetricsNamespace == "" {
		c.MetricsNamespace = d.MetricsNamespace
	}
	if c.Logger == nil {
		c.Logger = d.Logger
	}
}

// Server serves the index page, method dispatch and the history socket.
type Server struct {
	config     Config
	logger     *slog.Logger
	registry   *Registry
	hub        *remote.Hub
	metrics    *middleware.Collector // Disabled unless Config.Metrics
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with the builtin methods registered.
func New(config Config) *Server {
	config.applyDefaults()

	s := &Server{
		config:   config,
		logger:   config.Logger.With("component", "api"),
		registry: NewRegistry(),
		metrics:  middleware.Disabled(),
	}

	if config.Metrics {
		var reg prometheus.Registerer = prometheus.DefaultRegisterer
		if config.Registry != nil {
			reg = config.Registry
		}
		s.metrics = middleware.Register(
			middleware.WithRegistry(reg),
			middleware.WithNamespace(config.MetricsNamespace),
		)
	}

	hubOpts := []remote.HubOption{remote.WithLogger(config.Logger), remote.WithMetrics(s.metrics)}
	if len(config.AllowedOrigins) > 0 {
		hubOpts = append(hubOpts, remote.WithCheckOrigin(originChecker(config.AllowedOrigins)))
	}
	s.hub = remote.NewHub(hubOpts...)

	RegisterBuiltins(s.registry, datetime.Formatter{Location: config.Location}, s.hub)
	s.router = s.routes()
	return s
}

// Registry returns the method registry.
func (s *Server) Registry() *Registry { return s.registry }

// Hub returns the history socket hub.
func (s *Server) Hub() *remote.Hub { return s.hub }

// Config returns the server configuration.
func (s *Server) Config() Config { return s.config }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.OpenTelemetry(s.config.Tracing...))

	if s.config.Metrics {
		var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
		if s.config.Registry != nil {
			gatherer = s.config.Registry
		}
		r.Use(s.metrics.Middleware())
		r.Method(http.MethodGet, PathMetrics, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	for _, mw := range s.config.Middlewares {
		r.Use(mw)
	}

	r.Get(PathIndex, s.handleIndex)
	r.Route(PathPrefix, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, PathIndex, http.StatusFound)
		})
		r.Get(PathIndex, s.handleIndex)
		r.Post(PathPost, s.handlePost)
		r.Get(PathGet, s.handleGet)
		r.Handle(PathSocket, s.hub)
	})
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	names := s.registry.Names()
	page := render.Page(s.config.Title,
		[]any{
			vdom.H1(vdom.Text(s.config.Title)),
			vdom.P(vdom.ID(remote.OfflineID), vdom.Role("status"), vdom.Hidden(),
				"History socket disconnected, reconnecting"),
			vdom.If(s.config.Debug, vdom.P(vdom.ID("debug"), "Debug mode: panic stacks are returned to clients")),
			vdom.Div(vdom.ID("app"), vdom.Role("main"),
				vdom.P(vdom.Textf("%d methods under POST %s%s", len(names), PathPrefix, PathPost)),
				vdom.Ul(vdom.ID("methods"), vdom.Range(names, func(name string, _ int) *vdom.VNode {
					return vdom.Li(vdom.Data("method", name), name)
				})),
			),
			vdom.Script(vdom.Raw(remote.ClientScript(PathPrefix + PathSocket))),
		},
	)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WriteDocument(w, page); err != nil {
		s.logger.ErrorContext(r.Context(), "render index failed", "error", err)
	}
}

// Request is a dispatch request.
type Request struct {
	Method string          `json:"method"`
	Data   json.RawMessage `json:"data,omitempty"`
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		s.fail(w, r, "", fmt.Errorf("read body: %w", err))
		return
	}
	if len(body) > maxBodyBytes {
		s.fail(w, r, "", fmt.Errorf("request body exceeds %d bytes", maxBodyBytes))
		return
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(w, r, "", fmt.Errorf("invalid request: %w", err))
		return
	}
	s.dispatch(w, r, req)
}

// handleGet builds a request from the query string. data is taken as JSON
// when it parses and as a plain string otherwise.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	params := urlparam.ParseQuery(r.URL.RawQuery)
	method, _ := params.Get("method")
	req := Request{Method: method}

	if data, ok := params.Get("data"); ok {
		if json.Valid([]byte(data)) {
			req.Data = json.RawMessage(data)
		} else {
			quoted, _ := json.Marshal(data)
			req.Data = quoted
		}
	}
	s.dispatch(w, r, req)
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, req Request) {
	if req.Method == "" {
		s.fail(w, r, "", errors.New("missing method"))
		return
	}

	result, err := s.registry.Call(r.Context(), req.Method, req.Data)
	if err != nil {
		s.fail(w, r, req.Method, err)
		return
	}

	s.metrics.RecordDispatch(req.Method, "ok")
	s.writeJSON(w, r, result)
}

// fail logs err and answers with {"error": ...} and status 200.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, method string, err error) {
	msg := err.Error()

	var pe *PanicError
	if errors.As(err, &pe) {
		s.logger.ErrorContext(r.Context(), "method panicked",
			"method", method, "panic", pe.Value, "stack", string(pe.Stack))
		if s.config.Debug {
			msg += "\n" + string(pe.Stack)
		}
	} else {
		s.logger.ErrorContext(r.Context(), "dispatch failed", "method", method, "error", err)
	}

	label := method
	if errors.Is(err, ErrUnknownMethod) || label == "" {
		label = "unknown"
	}
	s.metrics.RecordDispatch(label, "error")
	s.writeJSON(w, r, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "encode response failed", "error", err)
		body, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Run listens on Config.Addr and serves until ctx is done or the process
// receives SIGINT or SIGTERM.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done or a shutdown signal arrives, then
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.httpServer = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown disconnects history sockets and gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.hub.Close()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		if set["*"] {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}
