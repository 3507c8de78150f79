// Package urlparam reads and writes the query parameters of the current
// page URL.
//
// Reading goes through a Location, the provider of the current URL:
//
//	tab, ok := urlparam.Get(win, "tab")   // first "tab" in the current query
//	params, err := urlparam.Current(win)  // every parameter, last duplicate wins
//	params, err := urlparam.Parse("https://example.com/?a=1&a=2&b=3")
//
// Writing goes through a Navigator, which encodes an ordered Values set and
// hands "<path>?<query>" to a History without navigating:
//
//	nav := urlparam.NewNavigator(win, win)
//	urlparam.PushHistory(nav, urlparam.NewValues("a", "x y", "b", "1"))
//	// history entry: /current/path?a=x%20y&b=1
//
// Query strings are decoded with form rules ('+' is a space) and malformed
// percent escapes are kept as literal text rather than rejected.
package urlparam

import (
	"errors"
	"net/url"
)

// ErrNotAbsolute is wrapped by Parse when the URL has no scheme.
var ErrNotAbsolute = errors.New("url is not absolute")

// Location provides the current page URL.
type Location interface {
	Href() string
}

// Get returns the first value of the named parameter in the current
// location's query string. It reports false when the parameter is absent
// or the current location cannot be parsed.
func Get(loc Location, name string) (string, bool) {
	if loc == nil {
		return "", false
	}
	u, err := url.Parse(loc.Href())
	if err != nil {
		return "", false
	}
	for _, p := range pairs(u.RawQuery) {
		if p[0] == name {
			return p[1], true
		}
	}
	return "", false
}

// Parse extracts every query parameter of rawURL. When a name repeats, the
// last occurrence wins but the name keeps its first position. A malformed
// or relative URL is returned as a *url.Error.
func Parse(rawURL string) (*Values, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, &url.Error{Op: "parse", URL: rawURL, Err: ErrNotAbsolute}
	}
	return ParseQuery(u.RawQuery), nil
}

// ParseQuery decodes a raw query string, with or without its leading '?'.
func ParseQuery(rawQuery string) *Values {
	v := NewValues()
	for _, p := range pairs(rawQuery) {
		v.Set(p[0], p[1])
	}
	return v
}

// Current extracts every query parameter of the current location.
func Current(loc Location) (*Values, error) {
	if loc == nil {
		return nil, errors.New("urlparam: no location")
	}
	return Parse(loc.Href())
}
