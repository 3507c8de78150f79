package remote

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/pagekit/pkg/browser"
	"github.com/vango-dev/pagekit/pkg/middleware"
	"github.com/vango-dev/pagekit/pkg/urlparam"
)

type harness struct {
	hub   *Hub
	srv   *httptest.Server
	conns chan *Conn
}

func newHarness(t *testing.T, opts ...HubOption) *harness {
	t.Helper()
	h := &harness{conns: make(chan *Conn, 4)}
	opts = append(opts, OnConnect(func(c *Conn) { h.conns <- c }))
	h.hub = NewHub(opts...)
	h.srv = httptest.NewServer(h.hub)
	t.Cleanup(func() {
		h.hub.Close()
		h.srv.Close()
	})
	return h
}

func (h *harness) wsURL() string {
	return "ws" + strings.TrimPrefix(h.srv.URL, "http")
}

func (h *harness) dial(t *testing.T, href string, opts ...PageOption) (*Page, *Conn) {
	t.Helper()
	win, err := browser.New(href, nil)
	if err != nil {
		t.Fatal(err)
	}
	page, err := Dial(context.Background(), h.wsURL(), win, opts...)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	select {
	case c := <-h.conns:
		return page, c
	case <-time.After(5 * time.Second):
		t.Fatal("hub never accepted the page")
	}
	return nil, nil
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPushHistoryUpdatesRemotePage(t *testing.T) {
	h := newHarness(t)
	frames := make(chan Message, 4)
	page, conn := h.dial(t, "https://example.com/inbox?old=1#top", WithOnFrame(func(m Message) { frames <- m }))

	if got := conn.Href(); got != "https://example.com/inbox?old=1#top" {
		t.Fatalf("conn.Href() = %q", got)
	}

	urlparam.PushHistory(conn.Navigator(), urlparam.NewValues("a", "x y", "b", "1"))

	select {
	case m := <-frames:
		if m.Op != OpPushState || m.URL != "/inbox?a=x%20y&b=1" {
			t.Fatalf("frame = %+v", m)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("page never received the frame")
	}

	want := "https://example.com/inbox?a=x%20y&b=1"
	if got := page.Window().Href(); got != want {
		t.Errorf("page Href = %q, want %q", got, want)
	}
	if got := conn.Href(); got != want {
		t.Errorf("conn Href = %q, want %q", got, want)
	}

	params, err := urlparam.Current(page.Window())
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := params.Get("a"); v != "x y" {
		t.Errorf("a = %q", v)
	}
}

func TestReplaceStateKeepsHistoryLength(t *testing.T) {
	h := newHarness(t)
	frames := make(chan Message, 4)
	page, conn := h.dial(t, "https://example.com/list", WithOnFrame(func(m Message) { frames <- m }))

	conn.Navigator().Navigate(urlparam.NewValues("page", "2"), urlparam.ModeReplace)
	select {
	case m := <-frames:
		if m.Op != OpReplaceState {
			t.Fatalf("op = %s", m.Op)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("page never received the frame")
	}
	if page.Window().Length() != 1 {
		t.Errorf("Length = %d, want 1", page.Window().Length())
	}
}

func TestPopStateReportsBack(t *testing.T) {
	h := newHarness(t)
	frames := make(chan Message, 4)
	page, conn := h.dial(t, "https://example.com/a", WithOnFrame(func(m Message) { frames <- m }))

	conn.PushState("", "/b")
	<-frames

	if !page.Back() {
		t.Fatal("Back failed")
	}
	waitFor(t, "popstate", func() bool { return conn.Href() == "https://example.com/a" })
}

func TestCrossOriginWriteDropped(t *testing.T) {
	h := newHarness(t)
	_, conn := h.dial(t, "https://example.com/a")

	conn.PushState("", "https://evil.test/")
	if got := conn.Href(); got != "https://example.com/a" {
		t.Fatalf("Href changed to %q", got)
	}
}

func TestFailedWriteKeepsHref(t *testing.T) {
	h := newHarness(t)
	_, conn := h.dial(t, "https://example.com/a")

	conn.ws.Close()
	conn.PushState("", "/b")
	if got := conn.Href(); got != "https://example.com/a" {
		t.Fatalf("Href = %q after a failed write, want the previous URL", got)
	}
}

func TestCrossOriginFramesIgnored(t *testing.T) {
	h := newHarness(t)

	ws, _, err := websocket.DefaultDialer.Dial(h.wsURL(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()
	if err := ws.WriteJSON(Message{Op: OpHello, URL: "https://example.com/a"}); err != nil {
		t.Fatal(err)
	}
	var conn *Conn
	select {
	case conn = <-h.conns:
	case <-time.After(5 * time.Second):
		t.Fatal("hub never accepted the page")
	}

	for _, u := range []string{"https://evil.test/x", "http://example.com/plain", "https://example.com/c"} {
		if err := ws.WriteJSON(Message{Op: OpPopState, URL: u}); err != nil {
			t.Fatal(err)
		}
	}
	waitFor(t, "same-origin popstate", func() bool { return conn.Href() == "https://example.com/c" })

	conn.PushState("", "/d")
	if got := conn.Href(); got != "https://example.com/d" {
		t.Errorf("Href = %q, want https://example.com/d", got)
	}
}

func TestHubWithMetrics(t *testing.T) {
	c := middleware.Register(middleware.WithRegistry(prometheus.NewRegistry()))
	h := newHarness(t, WithMetrics(c))
	frames := make(chan Message, 4)
	_, conn := h.dial(t, "https://example.com/a", WithOnFrame(func(m Message) { frames <- m }))

	if got := testutil.ToFloat64(c.SocketsActive()); got != 1 {
		t.Errorf("sockets_active = %v, want 1", got)
	}
	conn.PushState("", "/b")
	conn.ReplaceState("", "/c")
	<-frames
	<-frames
	if got := testutil.ToFloat64(c.HistoryWrites().WithLabelValues(string(OpPushState))); got != 1 {
		t.Errorf("history_writes_total{op=pushState} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.HistoryWrites().WithLabelValues(string(OpReplaceState))); got != 1 {
		t.Errorf("history_writes_total{op=replaceState} = %v, want 1", got)
	}
}

func TestHandshakeRejectsBadHello(t *testing.T) {
	h := newHarness(t)
	for _, hello := range []Message{
		{Op: OpPushState, URL: "https://example.com/"},
		{Op: OpHello, URL: "/relative"},
	} {
		ws, _, err := websocket.DefaultDialer.Dial(h.wsURL(), nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := ws.WriteJSON(hello); err != nil {
			t.Fatal(err)
		}
		ws.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, _, err = ws.ReadMessage()
		if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
			t.Errorf("hello %+v: err = %v, want policy violation close", hello, err)
		}
		ws.Close()
	}
	if h.hub.Len() != 0 {
		t.Errorf("Len = %d, want 0", h.hub.Len())
	}
}

func TestHubBroadcastAndDisconnect(t *testing.T) {
	h := newHarness(t)
	frames := make(chan Message, 4)
	p1, _ := h.dial(t, "https://example.com/one", WithOnFrame(func(m Message) { frames <- m }))
	p2, _ := h.dial(t, "https://example.com/two", WithOnFrame(func(m Message) { frames <- m }))

	if n := h.hub.PushHistory(urlparam.NewValues("q", "go")); n != 2 {
		t.Fatalf("PushHistory reached %d pages, want 2", n)
	}
	for i := 0; i < 2; i++ {
		select {
		case <-frames:
		case <-time.After(5 * time.Second):
			t.Fatal("missing frame")
		}
	}
	if got := p1.Window().Href(); got != "https://example.com/one?q=go" {
		t.Errorf("p1 Href = %q", got)
	}
	if got := p2.Window().Href(); got != "https://example.com/two?q=go" {
		t.Errorf("p2 Href = %q", got)
	}

	p1.Close()
	waitFor(t, "disconnect", func() bool { return h.hub.Len() == 1 })
}

func TestClientScript(t *testing.T) {
	js := ClientScript("/bp/ws")
	if !strings.Contains(js, `location.host + "/bp/ws"`) {
		t.Errorf("script does not target the socket path")
	}
	for _, op := range []Op{OpHello, OpPopState, OpPushState, OpReplaceState} {
		if !strings.Contains(js, "'"+string(op)+"'") {
			t.Errorf("script does not handle %s", op)
		}
	}
	if !strings.Contains(js, "getElementById('"+OfflineID+"')") {
		t.Error("script does not look up the offline notice")
	}
	if strings.Contains(js, "__PATH__") || strings.Contains(js, "__OFFLINE__") {
		t.Error("placeholder left in script")
	}
}
