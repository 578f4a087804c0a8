package filter

import (
	"github.com/hupe1980/capset/attribute"
)

// Op identifies the kind of a filter node.
type Op uint8

const (
	// OpMatchAll matches every record. It renders as "(*)".
	OpMatchAll Op = iota
	// OpAnd matches when every child matches.
	OpAnd
	// OpOr matches when any child matches.
	OpOr
	// OpNot matches when its single child does not.
	OpNot
	// OpEqual is the "=" comparison.
	OpEqual
	// OpLessEqual is the "<=" comparison.
	OpLessEqual
	// OpGreaterEqual is the ">=" comparison.
	OpGreaterEqual
	// OpApprox is the "~=" comparison.
	OpApprox
	// OpSubstring is an "=" comparison with wildcards.
	OpSubstring
	// OpPresent is "=*", true when the attribute exists.
	OpPresent
)

// String returns the operator token, or the node kind for compound nodes.
func (op Op) String() string {
	switch op {
	case OpMatchAll:
		return "*"
	case OpAnd:
		return "&"
	case OpOr:
		return "|"
	case OpNot:
		return "!"
	case OpEqual, OpSubstring, OpPresent:
		return "="
	case OpLessEqual:
		return "<="
	case OpGreaterEqual:
		return ">="
	case OpApprox:
		return "~="
	default:
		return "?"
	}
}

// IsCompound reports whether op combines child filters.
func (op Op) IsCompound() bool {
	return op == OpAnd || op == OpOr || op == OpNot
}

// Filter is an immutable parsed filter expression.
//
// A Filter is safe for concurrent use by multiple goroutines.
type Filter struct {
	op       Op
	attr     string
	value    string
	pieces   []string
	children []*Filter

	// Operand coerced into every scalar kind it parses as, computed once.
	coerced [attribute.KindArray]attribute.Value
	keys    []string
}

// coercible lists the kinds an operand is pre-converted into.
var coercible = [...]attribute.Kind{
	attribute.KindBool,
	attribute.KindInt,
	attribute.KindFloat,
	attribute.KindChar,
	attribute.KindVersion,
}

func comparison(op Op, attr, value string) *Filter {
	f := &Filter{op: op, attr: attr, value: value}
	f.coerced[attribute.KindString] = attribute.String(value)
	f.keys = append(f.keys, f.coerced[attribute.KindString].Key())
	for _, k := range coercible {
		v, err := attribute.Parse(k, value)
		if err != nil {
			continue
		}
		f.coerced[k] = v
		f.keys = append(f.keys, v.Key())
	}
	return f
}

// MatchAll returns a filter matching every record.
func MatchAll() *Filter { return &Filter{op: OpMatchAll} }

// And returns the conjunction of children. With no children it matches all.
func And(children ...*Filter) *Filter {
	if len(children) == 0 {
		return MatchAll()
	}
	return &Filter{op: OpAnd, children: children}
}

// Or returns the disjunction of children. With no children it matches nothing.
func Or(children ...*Filter) *Filter {
	if len(children) == 0 {
		return Not(MatchAll())
	}
	return &Filter{op: OpOr, children: children}
}

// Not returns the negation of child.
func Not(child *Filter) *Filter {
	return &Filter{op: OpNot, children: []*Filter{child}}
}

// Equal returns an "=" comparison against a literal value.
func Equal(attr, value string) *Filter { return comparison(OpEqual, attr, value) }

// LessEqual returns a "<=" comparison.
func LessEqual(attr, value string) *Filter { return comparison(OpLessEqual, attr, value) }

// GreaterEqual returns a ">=" comparison.
func GreaterEqual(attr, value string) *Filter { return comparison(OpGreaterEqual, attr, value) }

// Approx returns a "~=" comparison.
func Approx(attr, value string) *Filter { return comparison(OpApprox, attr, value) }

// Present returns a filter matching records that carry attr.
func Present(attr string) *Filter { return &Filter{op: OpPresent, attr: attr} }

// Substring returns a wildcard comparison. Stars sit between the pieces; an
// empty first or last piece leaves that end unanchored. Empty interior pieces
// are dropped, so adjacent stars never reach String.
//
// A single piece degrades to Equal, and two empty pieces to Present.
func Substring(attr string, pieces ...string) *Filter {
	switch len(pieces) {
	case 0:
		return Present(attr)
	case 1:
		return Equal(attr, pieces[0])
	}

	last := len(pieces) - 1
	cp := make([]string, 0, len(pieces))
	cp = append(cp, pieces[0])
	for _, piece := range pieces[1:last] {
		if piece != "" {
			cp = append(cp, piece)
		}
	}
	cp = append(cp, pieces[last])

	if len(cp) == 2 && cp[0] == "" && cp[1] == "" {
		return Present(attr)
	}
	return &Filter{op: OpSubstring, attr: attr, pieces: cp}
}

// Op returns the node operator.
func (f *Filter) Op() Op { return f.op }

// Attr returns the attribute name of a comparison node.
func (f *Filter) Attr() string { return f.attr }

// Value returns the decoded operand of an Equal, LessEqual, GreaterEqual or
// Approx node.
func (f *Filter) Value() string { return f.value }

// Pieces returns the literal pieces of a Substring node.
// The returned slice must not be modified.
func (f *Filter) Pieces() []string { return f.pieces }

// Children returns the child filters of a compound node.
// The returned slice must not be modified.
func (f *Filter) Children() []*Filter { return f.children }

// EqualityKeys returns the index bucket keys an Equal node can be satisfied
// by, one per attribute kind the operand converts to.
func (f *Filter) EqualityKeys() []string {
	if f.op != OpEqual {
		return nil
	}
	return f.keys
}

// Attributes returns the distinct attribute names referenced anywhere in f,
// in first-seen order.
func (f *Filter) Attributes() []string {
	seen := make(map[string]struct{})
	var names []string
	f.walk(func(n *Filter) {
		if n.op.IsCompound() || n.op == OpMatchAll {
			return
		}
		if _, ok := seen[n.attr]; !ok {
			seen[n.attr] = struct{}{}
			names = append(names, n.attr)
		}
	})
	return names
}

func (f *Filter) walk(fn func(*Filter)) {
	fn(f)
	for _, c := range f.children {
		c.walk(fn)
	}
}
