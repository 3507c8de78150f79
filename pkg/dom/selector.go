package dom

import "strings"

// attrOp is the comparison used by an attribute selector.
type attrOp byte

const (
	opExists   attrOp = iota // [a]
	opEquals                 // [a=v]
	opIncludes               // [a~=v]
	opPrefix                 // [a^=v]
	opSuffix                 // [a$=v]
	opContains               // [a*=v]
	opDashMatch              // [a|=v]
)

type attrSelector struct {
	name  string
	op    attrOp
	value string
}

// compound is a sequence of simple selectors that all apply to one element.
type compound struct {
	tag     string // "" or "*" matches any element
	id      string
	classes []string
	attrs   []attrSelector
}

// combinator joins two compounds in a complex selector.
type combinator byte

const (
	descendant combinator = ' '
	child      combinator = '>'
	adjacent   combinator = '+'
	sibling    combinator = '~'
)

// complexSelector is read right to left: parts[len-1] is the subject and
// combinators[i] sits between parts[i] and parts[i+1].
type complexSelector struct {
	parts       []compound
	combinators []combinator
}

// Selector is a compiled selector group.
type Selector struct {
	source string
	groups []complexSelector
}

// String returns the selector source text.
func (s *Selector) String() string {
	return s.source
}

// Compile parses a selector group.
func Compile(selector string) (*Selector, error) {
	p := &parser{src: selector}
	groups, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	return &Selector{source: selector, groups: groups}, nil
}

// MustCompile is like Compile but panics on a malformed selector.
func MustCompile(selector string) *Selector {
	s, err := Compile(selector)
	if err != nil {
		panic(err)
	}
	return s
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(msg string) error {
	return &SyntaxError{Selector: p.src, Offset: p.pos, Msg: msg}
}

func (p *parser) unsupported(feature string) error {
	return &UnsupportedError{Selector: p.src, Offset: p.pos, Feature: feature}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(i int) byte {
	if p.pos+i >= len(p.src) {
		return 0
	}
	return p.src[p.pos+i]
}

func (p *parser) skipSpace() bool {
	start := p.pos
	for !p.eof() && isSpace(p.src[p.pos]) {
		p.pos++
	}
	return p.pos > start
}

func (p *parser) parseGroup() ([]complexSelector, error) {
	var groups []complexSelector
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("empty selector")
	}
	for {
		sel, err := p.parseComplex()
		if err != nil {
			return nil, err
		}
		groups = append(groups, sel)

		p.skipSpace()
		if p.eof() {
			return groups, nil
		}
		if p.peek() != ',' {
			return nil, p.errorf("unexpected character " + quoteByte(p.peek()))
		}
		p.pos++
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("expected selector after ','")
		}
	}
}

func (p *parser) parseComplex() (complexSelector, error) {
	var sel complexSelector

	first, ok, err := p.parseCompound()
	if err != nil {
		return sel, err
	}
	if !ok {
		return sel, p.errorf("expected selector")
	}
	sel.parts = append(sel.parts, first)

	for {
		sawSpace := p.skipSpace()
		if p.eof() || p.peek() == ',' {
			return sel, nil
		}

		comb := descendant
		switch p.peek() {
		case '>', '+', '~':
			comb = combinator(p.peek())
			p.pos++
			p.skipSpace()
		case '|':
			if p.peekAt(1) == '|' {
				return sel, p.unsupported("column combinator")
			}
			return sel, p.errorf("unexpected character " + quoteByte(p.peek()))
		default:
			if !sawSpace {
				return sel, p.errorf("unexpected character " + quoteByte(p.peek()))
			}
		}

		next, ok, err := p.parseCompound()
		if err != nil {
			return sel, err
		}
		if !ok {
			return sel, p.errorf("expected selector after combinator")
		}
		sel.combinators = append(sel.combinators, comb)
		sel.parts = append(sel.parts, next)
	}
}

func (p *parser) parseCompound() (compound, bool, error) {
	var c compound
	start := p.pos

	switch {
	case p.peek() == '*':
		p.pos++
		c.tag = "*"
	case !p.eof() && isIdentStart(p.peek()):
		c.tag = strings.ToLower(p.parseIdent())
	}
	if p.peek() == '|' && p.peekAt(1) != '|' {
		return c, false, p.unsupported("namespace prefix")
	}

	for !p.eof() {
		switch p.peek() {
		case ':':
			if p.peekAt(1) == ':' {
				return c, false, p.unsupported("pseudo-element")
			}
			return c, false, p.unsupported("pseudo-class")
		case '\\':
			return c, false, p.unsupported("escape sequence")
		case '#':
			p.pos++
			id := p.parseIdent()
			if id == "" {
				return c, false, p.errorf("expected identifier after '#'")
			}
			c.id = id
		case '.':
			p.pos++
			class := p.parseIdent()
			if class == "" {
				return c, false, p.errorf("expected identifier after '.'")
			}
			c.classes = append(c.classes, class)
		case '[':
			a, err := p.parseAttr()
			if err != nil {
				return c, false, err
			}
			c.attrs = append(c.attrs, a)
		default:
			return c, p.pos > start, nil
		}
	}
	return c, p.pos > start, nil
}

func (p *parser) parseAttr() (attrSelector, error) {
	var a attrSelector
	p.pos++ // '['
	p.skipSpace()

	if p.peek() == '|' || (p.peek() == '*' && p.peekAt(1) == '|') {
		return a, p.unsupported("namespace prefix")
	}
	a.name = strings.ToLower(p.parseIdent())
	if a.name == "" {
		return a, p.errorf("expected attribute name")
	}
	if p.peek() == '|' && p.peekAt(1) != '=' {
		return a, p.unsupported("namespace prefix")
	}
	p.skipSpace()

	if p.eof() {
		return a, p.errorf("unterminated attribute selector")
	}
	if p.peek() == ']' {
		p.pos++
		a.op = opExists
		return a, nil
	}

	switch p.peek() {
	case '=':
		a.op = opEquals
	case '~':
		a.op = opIncludes
	case '^':
		a.op = opPrefix
	case '$':
		a.op = opSuffix
	case '*':
		a.op = opContains
	case '|':
		a.op = opDashMatch
	default:
		return a, p.errorf("unexpected character " + quoteByte(p.peek()) + " in attribute selector")
	}
	p.pos++
	if a.op != opEquals {
		if p.peek() != '=' {
			return a, p.errorf("expected '=' in attribute selector")
		}
		p.pos++
	}
	p.skipSpace()

	switch q := p.peek(); {
	case q == '"' || q == '\'':
		end := strings.IndexByte(p.src[p.pos+1:], q)
		if end < 0 {
			return a, p.errorf("unterminated string")
		}
		a.value = p.src[p.pos+1 : p.pos+1+end]
		p.pos += end + 2
	default:
		a.value = p.parseIdent()
		if a.value == "" {
			return a, p.errorf("expected attribute value")
		}
	}

	p.skipSpace()
	if isCaseFlag(p.peek()) && (p.peekAt(1) == ']' || isSpace(p.peekAt(1))) {
		return a, p.unsupported("attribute case flag")
	}
	if p.peek() != ']' {
		return a, p.errorf("unterminated attribute selector")
	}
	p.pos++
	return a, nil
}

// parseIdent consumes an identifier and returns it, or "" if none is present.
func (p *parser) parseIdent() string {
	if p.eof() || !isIdentStart(p.peek()) {
		return ""
	}
	start := p.pos
	for !p.eof() && isIdentChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '-' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// isCaseFlag reports the i and s flags of [a=v i].
func isCaseFlag(c byte) bool {
	return c == 'i' || c == 's' || c == 'I' || c == 'S'
}

func quoteByte(c byte) string {
	return "'" + string(c) + "'"
}
