package remote

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/pagekit/pkg/browser"
)

// Page is the browser side of a remote history socket. It applies the
// frames it receives to a browser.Window and reports back navigation.
type Page struct {
	ws      *websocket.Conn
	win     *browser.Window
	logger  *slog.Logger
	onFrame func(Message)

	writeMu sync.Mutex
	done    chan struct{}
}

// PageOption configures a Page.
type PageOption func(*Page)

// WithPageLogger sets the page logger.
func WithPageLogger(logger *slog.Logger) PageOption {
	return func(p *Page) {
		p.logger = logger
	}
}

// WithOnFrame registers a function called after each frame is applied.
func WithOnFrame(fn func(Message)) PageOption {
	return func(p *Page) {
		p.onFrame = fn
	}
}

// Dial connects win to the hub at wsURL and announces its current URL.
func Dial(ctx context.Context, wsURL string, win *browser.Window, opts ...PageOption) (*Page, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}
	p := &Page{
		ws:     ws,
		win:    win,
		logger: slog.Default(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.send(Message{Op: OpHello, URL: win.Href()}); err != nil {
		ws.Close()
		return nil, err
	}
	go p.readLoop()
	return p, nil
}

// Window returns the window the page drives.
func (p *Page) Window() *browser.Window {
	return p.win
}

// Back moves the window back one entry and reports the new URL to the
// server. It reports whether the window moved.
func (p *Page) Back() bool {
	if !p.win.Back() {
		return false
	}
	if err := p.send(Message{Op: OpPopState, URL: p.win.Href()}); err != nil {
		p.logger.Warn("popstate not delivered", "error", err)
	}
	return true
}

// Done is closed when the socket closes.
func (p *Page) Done() <-chan struct{} {
	return p.done
}

// Close closes the socket.
func (p *Page) Close() error {
	p.writeMu.Lock()
	p.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	p.writeMu.Unlock()
	return p.ws.Close()
}

func (p *Page) send(msg Message) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	p.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return p.ws.WriteJSON(msg)
}

func (p *Page) readLoop() {
	defer close(p.done)
	for {
		var msg Message
		if err := p.ws.ReadJSON(&msg); err != nil {
			return
		}
		var err error
		switch msg.Op {
		case OpPushState:
			err = p.win.Push(msg.Title, msg.URL)
		case OpReplaceState:
			err = p.win.Replace(msg.Title, msg.URL)
		default:
			continue
		}
		if err != nil {
			p.logger.Warn("history frame rejected", "op", msg.Op, "url", msg.URL, "error", err)
		}
		if p.onFrame != nil {
			p.onFrame(msg)
		}
	}
}
