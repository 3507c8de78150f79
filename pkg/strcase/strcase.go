// Package strcase converts identifiers between dash-case, camelCase and
// snake_case. The converters are total: every input, including "", maps
// to a result.
package strcase

import "strings"

// DashToCamel removes each '-' that precedes an ASCII lowercase letter and
// uppercases that letter. Matches do not overlap, so "a--b" becomes "a-B".
func DashToCamel(s string) string {
	if strings.IndexByte(s, '-') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' && i+1 < len(s) && isLower(s[i+1]) {
			b.WriteByte(s[i+1] - 'a' + 'A')
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// CamelToDash inserts '-' before every ASCII uppercase letter and
// lowercases the result. When the input starts with an uppercase letter
// the hyphen this produces at the front is dropped.
func CamelToDash(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUpper(c) {
			if i > 0 {
				b.WriteByte('-')
			}
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return strings.ToLower(b.String())
}

// SnakeToDash replaces every '_' with '-'.
func SnakeToDash(s string) string {
	return strings.ReplaceAll(s, "_", "-")
}

// Converter is one of the named conversions.
type Converter func(string) string

var converters = map[string]Converter{
	"dashToCamel": DashToCamel,
	"camelToDash": CamelToDash,
	"snakeToDash": SnakeToDash,
}

// Lookup returns the converter registered under name. Both the camelCase
// names ("dashToCamel") and their dash-case forms ("dash-to-camel") are
// accepted.
func Lookup(name string) (Converter, bool) {
	if fn, ok := converters[name]; ok {
		return fn, true
	}
	fn, ok := converters[DashToCamel(name)]
	return fn, ok
}

// Names returns the registered converter names in dash-case.
func Names() []string {
	return []string{"dash-to-camel", "camel-to-dash", "snake-to-dash"}
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
