package filter

import "strings"

// String renders f in the syntax accepted by Parse. Attribute names and
// operands are escaped, so Parse(f.String()) yields a filter with identical
// matching behavior.
func (f *Filter) String() string {
	var sb strings.Builder
	f.writeTo(&sb)
	return sb.String()
}

func (f *Filter) writeTo(sb *strings.Builder) {
	switch f.op {
	case OpMatchAll:
		sb.WriteString("(*)")
	case OpAnd, OpOr, OpNot:
		sb.WriteByte('(')
		sb.WriteString(f.op.String())
		for _, c := range f.children {
			c.writeTo(sb)
		}
		sb.WriteByte(')')
	case OpPresent:
		sb.WriteByte('(')
		writeName(sb, f.attr)
		sb.WriteString("=*)")
	case OpSubstring:
		sb.WriteByte('(')
		writeName(sb, f.attr)
		sb.WriteByte('=')
		for i, piece := range f.pieces {
			if i > 0 {
				sb.WriteByte('*')
			}
			writeEscaped(sb, piece)
		}
		sb.WriteByte(')')
	default:
		sb.WriteByte('(')
		writeName(sb, f.attr)
		sb.WriteString(f.op.String())
		writeEscaped(sb, f.value)
		sb.WriteByte(')')
	}
}

// writeName escapes the operator characters on top of the operand set.
func writeName(sb *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', '(', ')', '*', '=', '<', '>', '~':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
}

func writeEscaped(sb *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', '(', ')', '*':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
}
