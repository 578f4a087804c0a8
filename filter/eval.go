package filter

import (
	"strings"
	"unicode"

	"github.com/hupe1980/capset/attribute"
)

// Matches evaluates f against a single record.
//
// Evaluation never fails: a missing attribute, an operand that does not
// convert to the attribute's kind, or an operator that does not apply to the
// kind all count as "no match".
func (f *Filter) Matches(r attribute.Record) bool {
	switch f.op {
	case OpMatchAll:
		return true
	case OpAnd:
		for _, c := range f.children {
			if !c.Matches(r) {
				return false
			}
		}
		return true
	case OpOr:
		for _, c := range f.children {
			if c.Matches(r) {
				return true
			}
		}
		return false
	case OpNot:
		return !f.children[0].Matches(r)
	case OpPresent:
		_, ok := r.Lookup(f.attr)
		return ok
	default:
		v, ok := r.Lookup(f.attr)
		if !ok {
			return false
		}
		return f.compare(v)
	}
}

// compare applies a comparison node to one attribute value. Arrays match
// when any element does.
func (f *Filter) compare(lhs attribute.Value) bool {
	switch lhs.Kind() {
	case attribute.KindArray:
		elems, _ := lhs.AsArray()
		for _, e := range elems {
			if f.compare(e) {
				return true
			}
		}
		return false
	case attribute.KindString:
		s, _ := lhs.AsString()
		if f.op == OpSubstring {
			return matchSubstring(f.pieces, s)
		}
		return f.compareOrdered(lhs, f.coerced[attribute.KindString])
	case attribute.KindBool:
		if f.op == OpSubstring {
			return false
		}
		rhs := f.coerced[attribute.KindBool]
		return rhs.IsValid() && lhs.Equal(rhs)
	case attribute.KindInt, attribute.KindFloat, attribute.KindChar, attribute.KindVersion:
		if f.op == OpSubstring {
			return false
		}
		rhs := f.coerced[lhs.Kind()]
		if !rhs.IsValid() {
			return false
		}
		return f.compareOrdered(lhs, rhs)
	default:
		return false
	}
}

func (f *Filter) compareOrdered(lhs, rhs attribute.Value) bool {
	c, ok := lhs.Compare(rhs)
	if !ok {
		return false
	}
	switch f.op {
	case OpEqual:
		return c == 0
	case OpLessEqual:
		return c <= 0
	case OpGreaterEqual:
		return c >= 0
	case OpApprox:
		return approxEqual(lhs, rhs)
	default:
		return false
	}
}

// approxEqual ignores case and whitespace for strings and case for chars.
func approxEqual(lhs, rhs attribute.Value) bool {
	switch lhs.Kind() {
	case attribute.KindString:
		a, _ := lhs.AsString()
		b, _ := rhs.AsString()
		return strings.EqualFold(stripSpace(a), stripSpace(b))
	case attribute.KindChar:
		a, _ := lhs.AsChar()
		b, _ := rhs.AsChar()
		return unicode.ToLower(a) == unicode.ToLower(b)
	default:
		return lhs.Equal(rhs)
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
