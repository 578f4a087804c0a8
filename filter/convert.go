package filter

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/hupe1980/capset/attribute"
)

// VersionRange is an interval of semantic versions.
//
// A nil Ceiling means the range is unbounded above.
type VersionRange struct {
	Floor       *semver.Version
	FloorOpen   bool
	Ceiling     *semver.Version
	CeilingOpen bool
}

// ParseVersionRange parses interval notation such as "[1.0.0,2.0.0)" or
// "(1.0,2.0]". A bare version "1.2" means "at least 1.2".
func ParseVersionRange(text string) (*VersionRange, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRange, text)
	}

	if t[0] != '[' && t[0] != '(' {
		floor, err := semver.NewVersion(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidRange, text, err)
		}
		return &VersionRange{Floor: floor}, nil
	}

	last := t[len(t)-1]
	if last != ']' && last != ')' {
		return nil, fmt.Errorf("%w: %q: missing closing bracket", ErrInvalidRange, text)
	}
	lo, hi, found := strings.Cut(t[1:len(t)-1], ",")
	if !found {
		return nil, fmt.Errorf("%w: %q: missing comma", ErrInvalidRange, text)
	}
	floor, err := semver.NewVersion(strings.TrimSpace(lo))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: floor: %w", ErrInvalidRange, text, err)
	}
	ceiling, err := semver.NewVersion(strings.TrimSpace(hi))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: ceiling: %w", ErrInvalidRange, text, err)
	}
	if ceiling.LessThan(floor) {
		return nil, fmt.Errorf("%w: %q: ceiling below floor", ErrInvalidRange, text)
	}
	return &VersionRange{
		Floor:       floor,
		FloorOpen:   t[0] == '(',
		Ceiling:     ceiling,
		CeilingOpen: last == ')',
	}, nil
}

// Includes reports whether v lies inside the range.
func (r *VersionRange) Includes(v *semver.Version) bool {
	c := v.Compare(r.Floor)
	if c < 0 || (c == 0 && r.FloorOpen) {
		return false
	}
	if r.Ceiling == nil {
		return true
	}
	c = v.Compare(r.Ceiling)
	return c < 0 || (c == 0 && !r.CeilingOpen)
}

// String renders the range in interval notation.
func (r *VersionRange) String() string {
	if r.Ceiling == nil && !r.FloorOpen {
		return r.Floor.String()
	}
	var sb strings.Builder
	if r.FloorOpen {
		sb.WriteByte('(')
	} else {
		sb.WriteByte('[')
	}
	sb.WriteString(r.Floor.String())
	sb.WriteByte(',')
	if r.Ceiling != nil {
		sb.WriteString(r.Ceiling.String())
	}
	if r.CeilingOpen || r.Ceiling == nil {
		sb.WriteByte(')')
	} else {
		sb.WriteByte(']')
	}
	return sb.String()
}

// filters expresses the range as comparisons on attr. Open bounds become a
// negated comparison so that the result keeps working with version-typed
// attributes, which only support "<=" and ">=".
func (r *VersionRange) filters(attr string) []*Filter {
	var out []*Filter
	if r.FloorOpen {
		out = append(out, Not(LessEqual(attr, r.Floor.String())))
	} else {
		out = append(out, GreaterEqual(attr, r.Floor.String()))
	}
	if r.Ceiling != nil {
		if r.CeilingOpen {
			out = append(out, Not(GreaterEqual(attr, r.Ceiling.String())))
		} else {
			out = append(out, LessEqual(attr, r.Ceiling.String()))
		}
	}
	return out
}

// Term is one requirement attribute for FromTerms. When Range is set, Value
// is ignored.
type Term struct {
	Name  string
	Value attribute.Value
	Range *VersionRange
}

// FromTerms builds a filter requiring every term, in order.
//
// Plain values compare for equality on their text form; stars in string
// values act as wildcards. Version ranges expand to bound comparisons. With
// no terms the result matches everything.
func FromTerms(terms ...Term) *Filter {
	var filters []*Filter
	for _, t := range terms {
		if t.Range != nil {
			filters = append(filters, t.Range.filters(t.Name)...)
			continue
		}
		text := t.Value.String()
		if t.Value.Kind() != attribute.KindString {
			filters = append(filters, Equal(t.Name, text))
			continue
		}
		pieces, ok := splitPieces(text)
		if !ok {
			filters = append(filters, Equal(t.Name, text))
			continue
		}
		filters = append(filters, Substring(t.Name, pieces...))
	}

	if len(filters) == 1 {
		return filters[0]
	}
	return And(filters...)
}
