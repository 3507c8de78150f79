package remote

import (
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/pagekit/pkg/middleware"
	"github.com/vango-dev/pagekit/pkg/urlparam"
)

// Hub accepts page sockets and tracks the connected pages.
type Hub struct {
	conns    map[*Conn]struct{}
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
	metrics  *middleware.Collector

	onConnect        func(*Conn)
	handshakeTimeout time.Duration
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithLogger sets the hub logger.
func WithLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithMetrics records socket and history metrics in m instead of the
// default metrics.
func WithMetrics(m *middleware.Collector) HubOption {
	return func(h *Hub) {
		h.metrics = m
	}
}

// WithCheckOrigin overrides the upgrader's origin check. The default only
// accepts same-origin requests.
func WithCheckOrigin(check func(r *http.Request) bool) HubOption {
	return func(h *Hub) {
		h.upgrader.CheckOrigin = check
	}
}

// OnConnect registers a function called for each page after its hello.
func OnConnect(fn func(*Conn)) HubOption {
	return func(h *Hub) {
		h.onConnect = fn
	}
}

// WithHandshakeTimeout bounds the wait for the hello frame.
func WithHandshakeTimeout(d time.Duration) HubOption {
	return func(h *Hub) {
		h.handshakeTimeout = d
	}
}

// NewHub creates a hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		conns: make(map[*Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:           slog.Default(),
		handshakeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP upgrades the request and serves the page until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	href, err := h.handshake(ws)
	if err != nil {
		h.logger.Warn("remote page handshake failed", "remote", r.RemoteAddr, "error", err)
		ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(writeWait))
		ws.Close()
		return
	}

	conn := newConn(ws, href, h.logger, h.metrics)
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	h.metrics.RecordSocketOpen()
	h.logger.Debug("remote page connected", "url", href.String())

	if h.onConnect != nil {
		h.onConnect(conn)
	}

	conn.readLoop()

	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	h.metrics.RecordSocketClose()
	ws.Close()
}

func (h *Hub) handshake(ws *websocket.Conn) (*url.URL, error) {
	ws.SetReadDeadline(time.Now().Add(h.handshakeTimeout))
	var hello Message
	if err := ws.ReadJSON(&hello); err != nil {
		return nil, err
	}
	ws.SetReadDeadline(time.Time{})
	if hello.Op != OpHello {
		return nil, ErrHandshake
	}
	u, err := url.Parse(hello.URL)
	if err != nil || !u.IsAbs() {
		return nil, ErrHandshake
	}
	return u, nil
}

// Conns returns the connected pages.
func (h *Hub) Conns() []*Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conns := make([]*Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	return conns
}

// Len returns the number of connected pages.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// PushHistory pushes params onto the history of every connected page and
// returns how many pages were written to.
func (h *Hub) PushHistory(params *urlparam.Values) int {
	conns := h.Conns()
	for _, c := range conns {
		urlparam.PushHistory(c.Navigator(), params)
	}
	return len(conns)
}

// Close disconnects every page.
func (h *Hub) Close() {
	for _, c := range h.Conns() {
		c.Close()
	}
}
