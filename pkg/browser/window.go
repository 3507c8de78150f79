// Package browser provides Window, an in-memory host page: a current
// document, a location and a session history stack. It satisfies the host
// interfaces of dom and urlparam, so the page helpers can run against it
// in tests, in the CLI and on the server.
package browser

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/vango-dev/pagekit/pkg/dom"
	"github.com/vango-dev/pagekit/pkg/urlparam"
)

// ErrNoEntry is returned by Go when the requested entry does not exist.
var ErrNoEntry = errors.New("browser: no such history entry")

// SecurityError is returned when a history write would change origin.
type SecurityError struct {
	Current string
	Target  string
}

// Error implements the error interface.
func (e *SecurityError) Error() string {
	return fmt.Sprintf("browser: a history state object with URL %q cannot be created in a document with origin %q", e.Target, e.Current)
}

type entry struct {
	url   *url.URL
	title string
}

// Window is an in-memory browser window.
type Window struct {
	mu      sync.Mutex
	doc     *dom.Document
	entries []entry
	index   int
	logger  *slog.Logger
}

// Option configures a Window.
type Option func(*Window)

// WithLogger sets the logger used to report rejected history writes.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Window) {
		w.logger = logger
	}
}

// New opens a window at rawURL showing doc. rawURL must be absolute.
func New(rawURL string, doc *dom.Document, opts ...Option) (*Window, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, &url.Error{Op: "parse", URL: rawURL, Err: urlparam.ErrNotAbsolute}
	}
	if doc == nil {
		doc = dom.NewDocument("", nil)
	}
	w := &Window{
		doc:     doc,
		entries: []entry{{url: u, title: doc.Title}},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Document returns the current document.
func (w *Window) Document() *dom.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.doc
}

// SetDocument replaces the current document.
func (w *Window) SetDocument(doc *dom.Document) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.doc = doc
}

// Title returns the current document title.
func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.doc == nil {
		return ""
	}
	return w.doc.Title
}

// Href returns the current URL.
func (w *Window) Href() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.entries[w.index].url.String()
}

// Push adds a history entry for ref, resolved against the current URL,
// discarding any forward entries.
func (w *Window) Push(title, ref string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, err := w.resolveLocked(ref)
	if err != nil {
		return err
	}
	w.entries = append(w.entries[:w.index+1], entry{url: u, title: title})
	w.index++
	return nil
}

// Replace overwrites the current history entry with ref.
func (w *Window) Replace(title, ref string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, err := w.resolveLocked(ref)
	if err != nil {
		return err
	}
	w.entries[w.index] = entry{url: u, title: title}
	return nil
}

// PushState implements urlparam.History. Rejected writes are logged.
func (w *Window) PushState(title, ref string) {
	if err := w.Push(title, ref); err != nil {
		w.logger.Warn("pushState rejected", "url", ref, "error", err)
	}
}

// ReplaceState implements urlparam.History. Rejected writes are logged.
func (w *Window) ReplaceState(title, ref string) {
	if err := w.Replace(title, ref); err != nil {
		w.logger.Warn("replaceState rejected", "url", ref, "error", err)
	}
}

// Go moves delta entries through history.
func (w *Window) Go(delta int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	next := w.index + delta
	if next < 0 || next >= len(w.entries) {
		return ErrNoEntry
	}
	w.index = next
	return nil
}

// Back moves one entry back. It reports whether it moved.
func (w *Window) Back() bool {
	return w.Go(-1) == nil
}

// Forward moves one entry forward. It reports whether it moved.
func (w *Window) Forward() bool {
	return w.Go(1) == nil
}

// Length returns the number of history entries.
func (w *Window) Length() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// Navigator returns a urlparam.Navigator bound to this window, passing the
// document title with each entry.
func (w *Window) Navigator() *urlparam.Navigator {
	return urlparam.NewNavigator(w, w, urlparam.WithTitle(w.Title))
}

func (w *Window) resolveLocked(ref string) (*url.URL, error) {
	current := w.entries[w.index].url
	r, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	target := current.ResolveReference(r)
	if target.Scheme != current.Scheme || target.Host != current.Host {
		return nil, &SecurityError{Current: current.Scheme + "://" + current.Host, Target: target.String()}
	}
	return target, nil
}
