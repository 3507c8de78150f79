package urlparam

import (
	"strings"
	"unicode/utf8"
)

const upperhex = "0123456789ABCDEF"

// shouldKeep reports whether c is left as-is by EscapeComponent.
func shouldKeep(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// EscapeComponent percent-encodes s the way a browser's
// encodeURIComponent does: everything but ASCII letters, digits and
// -_.!~*'() is written as %XX over its UTF-8 bytes. Space becomes %20.
func EscapeComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !shouldKeep(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldKeep(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

// unescapeForm decodes one application/x-www-form-urlencoded name or
// value: '+' is a space and %XX is a byte. Malformed escapes are kept
// literally, and invalid UTF-8 becomes U+FFFD.
func unescapeForm(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '+':
			buf = append(buf, ' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
		default:
			buf = append(buf, c)
		}
	}
	if utf8.Valid(buf) {
		return string(buf)
	}
	return strings.ToValidUTF8(string(buf), "�")
}

// pairs splits a raw query into decoded name/value pairs, in order,
// keeping duplicates.
func pairs(rawQuery string) [][2]string {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	var out [][2]string
	for rawQuery != "" {
		var part string
		part, rawQuery, _ = strings.Cut(rawQuery, "&")
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		out = append(out, [2]string{unescapeForm(name), unescapeForm(value)})
	}
	return out
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
