package dom

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSelector is matched by every *SyntaxError via errors.Is.
	ErrInvalidSelector = errors.New("invalid selector")

	// ErrUnsupportedSelector is matched by every *UnsupportedError. The
	// selector is valid CSS that this package does not evaluate.
	ErrUnsupportedSelector = errors.New("unsupported selector")
)

// SyntaxError reports a selector that could not be parsed.
type SyntaxError struct {
	Selector string
	Offset   int
	Msg      string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("dom: %q is not a valid selector: %s at offset %d", e.Selector, e.Msg, e.Offset)
}

// Is reports ErrInvalidSelector as a match.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrInvalidSelector
}

// UnsupportedError reports valid CSS outside the supported grammar, such
// as a pseudo-class.
type UnsupportedError struct {
	Selector string
	Offset   int
	Feature  string
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("dom: %q uses an unsupported %s at offset %d", e.Selector, e.Feature, e.Offset)
}

// Is reports ErrUnsupportedSelector as a match.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupportedSelector
}
