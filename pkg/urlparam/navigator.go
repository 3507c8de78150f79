package urlparam

import "net/url"

// URLMode determines how URL updates are recorded in history.
type URLMode int

const (
	// ModePush adds a new history entry (default behavior).
	ModePush URLMode = iota

	// ModeReplace replaces the current history entry.
	ModeReplace
)

// String returns the mode name.
func (m URLMode) String() string {
	if m == ModeReplace {
		return "replace"
	}
	return "push"
}

// History records URL changes without navigating. Implementations report
// failures out of band; callers treat it as write-only.
type History interface {
	PushState(title, url string)
	ReplaceState(title, url string)
}

// Navigator writes query parameters into the visible URL.
type Navigator struct {
	loc   Location
	hist  History
	title func() string
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator)

// WithTitle sets the title passed along with each history entry.
func WithTitle(title func() string) NavigatorOption {
	return func(n *Navigator) {
		n.title = title
	}
}

// NewNavigator creates a navigator that reads the current path from loc
// and writes through hist.
func NewNavigator(loc Location, hist History, opts ...NavigatorOption) *Navigator {
	n := &Navigator{loc: loc, hist: hist}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// URL returns the URL Navigate would write for params: the current path
// followed by '?' and the encoded parameters. The query is replaced, never
// merged, and an empty set still produces the trailing '?'.
func (n *Navigator) URL(params *Values) string {
	return currentPath(n.loc) + "?" + params.Encode()
}

// Navigate writes params into history using mode.
func (n *Navigator) Navigate(params *Values, mode URLMode) {
	if n.hist == nil {
		return
	}
	target := n.URL(params)
	title := ""
	if n.title != nil {
		title = n.title()
	}
	if mode == ModeReplace {
		n.hist.ReplaceState(title, target)
		return
	}
	n.hist.PushState(title, target)
}

// PushHistory encodes params into the query string and pushes the result
// as a new history entry on the current path.
func PushHistory(n *Navigator, params *Values) {
	n.Navigate(params, ModePush)
}

// currentPath returns the escaped path of the current location, "/" when
// it has none.
func currentPath(loc Location) string {
	if loc == nil {
		return "/"
	}
	u, err := url.Parse(loc.Href())
	if err != nil {
		return "/"
	}
	path := u.EscapedPath()
	if path == "" {
		return "/"
	}
	return path
}
