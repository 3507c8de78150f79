package errors

import (
	stderrors "errors"
	"fmt"
	"net/url"

	"github.com/vango-dev/pagekit/pkg/browser"
	"github.com/vango-dev/pagekit/pkg/datetime"
	"github.com/vango-dev/pagekit/pkg/dom"
	"github.com/vango-dev/pagekit/pkg/urlparam"
)

// Template defines a registered error kind.
type Template struct {
	Category   Category
	Message    string
	Suggestion string
	Example    string
}

// registry maps error kinds to their templates.
var registry = map[string]Template{
	"selector.syntax": {
		Category:   CategorySelector,
		Message:    "Invalid CSS selector",
		Suggestion: "Check for unbalanced brackets or quotes",
		Example:    `div.card > a[href^="https"]`,
	},
	"selector.unsupported": {
		Category:   CategorySelector,
		Message:    "Unsupported CSS selector",
		Suggestion: "Rewrite without pseudo-classes, namespaces or attribute flags",
		Example:    `ul > li + li`,
	},
	"url.parse": {
		Category:   CategoryURL,
		Message:    "Malformed URL",
		Suggestion: "Percent-encode reserved characters in the URL",
	},
	"url.relative": {
		Category:   CategoryURL,
		Message:    "URL is not absolute",
		Suggestion: "Include the scheme and host",
		Example:    "https://example.com/search?q=go",
	},
	"url.origin": {
		Category:   CategoryURL,
		Message:    "History entry would change origin",
		Suggestion: "Pass a path or query relative to the current page",
	},
	"datetime.parse": {
		Category:   CategoryDatetime,
		Message:    "Invalid timestamp",
		Suggestion: "Use ISO-8601 UTC form",
		Example:    "2023-12-24T00:00:00.000Z",
	},
	"datetime.zone": {
		Category:   CategoryDatetime,
		Message:    "Unknown time zone",
		Suggestion: "Use an IANA name or a fixed offset",
		Example:    "Asia/Kolkata or +05:30",
	},
	"request.failed": {
		Category:   CategoryRequest,
		Message:    "Request failed",
		Suggestion: "Check that the server is running and the URL is correct",
	},
	"config.missing": {
		Category:   CategoryConfig,
		Message:    "No pagekit.json found",
		Suggestion: "Create pagekit.json at the project root or pass --config",
	},
	"config.parse": {
		Category:   CategoryConfig,
		Message:    "Could not read pagekit.json",
		Suggestion: "Check the file is valid JSON",
	},
	"config.invalid": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"cli.args": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
	},
}

// Classify returns err as an *Error, mapping the failure types of the
// pagekit packages to their registered kinds. Unrecognized errors are
// wrapped with no category. Classify returns nil for a nil error.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if stderrors.As(err, &pe) {
		return pe
	}

	var (
		syntaxErr   *dom.SyntaxError
		unsupErr    *dom.UnsupportedError
		parseErr    *datetime.ParseError
		securityErr *browser.SecurityError
		urlErr      *url.Error
	)
	switch {
	case stderrors.As(err, &syntaxErr):
		return New("selector.syntax").
			WithInput(syntaxErr.Selector, syntaxErr.Offset+1).
			WithDetail(fmt.Sprintf("%s at offset %d", syntaxErr.Msg, syntaxErr.Offset)).
			Wrap(err)
	case stderrors.As(err, &unsupErr):
		return New("selector.unsupported").
			WithInput(unsupErr.Selector, unsupErr.Offset+1).
			WithDetail(fmt.Sprintf("%s at offset %d", unsupErr.Feature, unsupErr.Offset)).
			Wrap(err)
	case stderrors.As(err, &parseErr):
		return New("datetime.parse").WithInput(parseErr.Input, 0).Wrap(err)
	case stderrors.As(err, &securityErr):
		return New("url.origin").WithInput(securityErr.Target, 0).Wrap(err)
	case stderrors.Is(err, urlparam.ErrNotAbsolute):
		e := New("url.relative").Wrap(err)
		if stderrors.As(err, &urlErr) {
			e.WithInput(urlErr.URL, 0)
		}
		return e
	case stderrors.As(err, &urlErr):
		return New("url.parse").WithInput(urlErr.URL, 0).WithDetail(urlErr.Err.Error()).Wrap(err)
	}
	return &Error{Message: err.Error(), Wrapped: err}
}
