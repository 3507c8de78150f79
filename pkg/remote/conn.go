package remote

import (
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/pagekit/pkg/browser"
	"github.com/vango-dev/pagekit/pkg/middleware"
	"github.com/vango-dev/pagekit/pkg/urlparam"
)

const writeWait = 10 * time.Second

// Conn is the server side of one page. It implements urlparam.Location
// and urlparam.History.
type Conn struct {
	ws     *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex

	mu   sync.RWMutex
	href *url.URL

	// origin is the handshake URL; the page may never leave it.
	origin  *url.URL
	metrics *middleware.Collector

	done      chan struct{}
	closeOnce sync.Once
}

func newConn(ws *websocket.Conn, href *url.URL, logger *slog.Logger, metrics *middleware.Collector) *Conn {
	return &Conn{
		ws:      ws,
		logger:  logger,
		href:    href,
		origin:  href,
		metrics: metrics,
		done:    make(chan struct{}),
	}
}

// Href returns the page's last known URL.
func (c *Conn) Href() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.href.String()
}

// PushState asks the page to push a history entry. The page URL is
// updated once the frame is sent; failures are logged.
func (c *Conn) PushState(title, ref string) {
	c.write(OpPushState, title, ref)
}

// ReplaceState asks the page to replace its current history entry.
func (c *Conn) ReplaceState(title, ref string) {
	c.write(OpReplaceState, title, ref)
}

// Navigator returns a urlparam.Navigator that writes to this page.
func (c *Conn) Navigator() *urlparam.Navigator {
	return urlparam.NewNavigator(c, c)
}

// Done is closed when the page disconnects.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Close closes the socket.
func (c *Conn) Close() error {
	c.writeMu.Lock()
	c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	c.writeMu.Unlock()
	return c.ws.Close()
}

func (c *Conn) write(op Op, title, ref string) {
	// writeMu keeps frames and href updates in the same order.
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.RLock()
	target, err := resolve(c.href, ref)
	c.mu.RUnlock()
	if err != nil {
		c.logger.Warn("history write rejected", "op", op, "url", ref, "error", err)
		return
	}

	if err := c.sendLocked(Message{Op: op, Title: title, URL: ref}); err != nil {
		c.logger.Warn("history write failed", "op", op, "url", ref, "error", err)
		return
	}

	c.mu.Lock()
	c.href = target
	c.mu.Unlock()
	c.metrics.RecordHistoryWrite(string(op))
}

// sendLocked writes msg; the caller holds writeMu.
func (c *Conn) sendLocked(msg Message) error {
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(msg)
}

// readLoop tracks the page URL until the socket fails.
func (c *Conn) readLoop() {
	defer c.closeOnce.Do(func() { close(c.done) })
	for {
		var msg Message
		if err := c.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("remote page read failed", "error", err)
			}
			return
		}
		switch msg.Op {
		case OpHello, OpPopState:
			u, err := url.Parse(msg.URL)
			if err != nil || !u.IsAbs() {
				c.logger.Debug("ignoring frame with bad url", "op", msg.Op, "url", msg.URL)
				continue
			}
			if !sameOrigin(c.origin, u) {
				c.logger.Warn("ignoring cross-origin frame", "op", msg.Op, "url", msg.URL, "origin", c.origin.Scheme+"://"+c.origin.Host)
				continue
			}
			c.mu.Lock()
			c.href = u
			c.mu.Unlock()
		default:
			c.logger.Debug("ignoring frame", "op", msg.Op)
		}
	}
}

// resolve resolves ref against base, refusing to leave base's origin.
func resolve(base *url.URL, ref string) (*url.URL, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	target := base.ResolveReference(r)
	if !sameOrigin(base, target) {
		return nil, &browser.SecurityError{Current: base.Scheme + "://" + base.Host, Target: target.String()}
	}
	return target, nil
}

func sameOrigin(a, b *url.URL) bool {
	return a.Scheme == b.Scheme && a.Host == b.Host
}
