package filter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse parses a filter in parenthesized prefix notation, for example
//
//	(&(os=linux)(|(arch=x86)(arch=arm))(!(version<=1.0.0)))
//
// Operands may escape '(', ')', '*' and '\' with a backslash. An unescaped
// '*' in an "=" operand turns the comparison into a substring match, and a
// lone '*' into a presence test. "(*)" matches everything.
func Parse(text string) (*Filter, error) {
	p := &parser{in: text}
	p.skipSpace()
	if p.eof() {
		return nil, p.fail(ErrEmptyFilter, 0, text)
	}

	f, err := p.parseFilter()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if !p.eof() {
		return nil, p.fail(ErrTrailingData, p.pos, p.in[p.pos:])
	}
	return f, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) *Filter {
	f, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return f
}

type parser struct {
	in  string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.in) }

func (p *parser) skipSpace() { p.pos = p.skipSpaceFrom(p.pos) }

func (p *parser) skipSpaceFrom(i int) int {
	for i < len(p.in) {
		r, size := utf8.DecodeRuneInString(p.in[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

func (p *parser) fail(err error, offset int, fragment string) *ParseError {
	return &ParseError{Input: p.in, Offset: offset, Fragment: fragment, Err: err}
}

// parseFilter parses one parenthesized filter starting at p.pos.
func (p *parser) parseFilter() (*Filter, error) {
	start := p.pos
	if p.eof() || p.in[p.pos] != '(' {
		return nil, p.fail(ErrMissingOpenParen, p.pos, p.in[p.pos:])
	}
	p.pos++
	p.skipSpace()
	if p.eof() {
		return nil, p.fail(ErrMissingCloseParen, start, p.in[start:])
	}

	switch c := p.in[p.pos]; c {
	case '&', '|', '!':
		// "(&" only opens a compound when a nested filter follows; otherwise
		// the character is the start of an attribute name.
		if next := p.skipSpaceFrom(p.pos + 1); next < len(p.in) && p.in[next] == '(' {
			p.pos = next
			return p.parseCompound(c, start)
		}
	case '*':
		if next := p.skipSpaceFrom(p.pos + 1); next < len(p.in) && p.in[next] == ')' {
			p.pos = next + 1
			return MatchAll(), nil
		}
	}
	return p.parseComparison(start)
}

func (p *parser) parseCompound(op byte, start int) (*Filter, error) {
	var children []*Filter
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.fail(ErrMissingCloseParen, start, p.in[start:])
		}
		if p.in[p.pos] == ')' {
			p.pos++
			break
		}
		child, err := p.parseFilter()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	switch op {
	case '&':
		return &Filter{op: OpAnd, children: children}, nil
	case '|':
		return &Filter{op: OpOr, children: children}, nil
	default:
		if len(children) != 1 {
			return nil, p.fail(ErrInvalidNot, start, p.in[start:p.pos])
		}
		return Not(children[0]), nil
	}
}

// parseComparison consumes "attr op operand)" with p.pos at the attribute.
func (p *parser) parseComparison(start int) (*Filter, error) {
	bodyStart := p.pos
	end := -1
	escaped := false
	for i := bodyStart; i < len(p.in) && end < 0; i++ {
		c := p.in[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == ')':
			end = i
		case c == '(':
			return nil, p.fail(ErrUnescapedParen, i, p.in[start:])
		}
	}
	if end < 0 {
		return nil, p.fail(ErrMissingCloseParen, start, p.in[start:])
	}
	p.pos = end + 1
	return p.comparison(bodyStart, p.in[bodyStart:end])
}

// comparison parses the body of a comparison found at offset.
func (p *parser) comparison(offset int, body string) (*Filter, error) {
	opIdx := indexOperator(body)
	nameEnd := opIdx
	if opIdx < 0 {
		nameEnd = len(body)
	}
	name := unescape(strings.TrimRightFunc(body[:nameEnd], unicode.IsSpace))
	if name == "" {
		return nil, p.fail(ErrMissingAttribute, offset, body)
	}
	if opIdx < 0 {
		return nil, p.fail(ErrUnknownOperator, offset+len(body), body)
	}

	var op Op
	operandStart := opIdx + 1
	switch body[opIdx] {
	case '=':
		op = OpEqual
	case '<', '>', '~':
		if opIdx+1 >= len(body) || body[opIdx+1] != '=' {
			return nil, p.fail(ErrUnknownOperator, offset+opIdx, body[opIdx:])
		}
		operandStart++
		switch body[opIdx] {
		case '<':
			op = OpLessEqual
		case '>':
			op = OpGreaterEqual
		default:
			op = OpApprox
		}
	}

	raw := body[operandStart:]
	if op != OpEqual {
		return comparison(op, name, unescape(raw)), nil
	}

	pieces, ok := splitPieces(raw)
	if !ok {
		return nil, p.fail(ErrConsecutiveWildcards, offset+operandStart, raw)
	}
	return Substring(name, pieces...), nil
}

// indexOperator returns the offset of the first unescaped operator character
// in body, or -1.
func indexOperator(body string) int {
	escaped := false
	for i := 0; i < len(body); i++ {
		switch c := body[i]; {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '=', c == '<', c == '>', c == '~':
			return i
		}
	}
	return -1
}

// unescape drops the backslash in front of every escaped character.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !escaped && c == '\\' {
			escaped = true
			continue
		}
		escaped = false
		sb.WriteByte(c)
	}
	return sb.String()
}
