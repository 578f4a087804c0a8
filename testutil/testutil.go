package testutil

import (
	"math/rand"
	"strconv"
	"sync"

	"github.com/hupe1980/capset/attribute"
	"github.com/hupe1980/capset/filter"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Universe describes the attribute space random capabilities and filters
// are drawn from. Small vocabularies make filters hit often.
type Universe struct {
	// Names are the attribute names. Each name has a fixed kind, chosen
	// by position: string, int, bool, version, char, float, repeating.
	Names []string
	// Words is the string vocabulary.
	Words []string
	// MaxInt bounds int values to [0, MaxInt).
	MaxInt int
	// MissingRate is the probability an attribute is omitted.
	MissingRate float64
	// ArrayRate is the probability a value is multi-valued.
	ArrayRate float64
	// MandatoryRate is the probability an attribute is mandatory.
	MandatoryRate float64
}

// DefaultUniverse returns a small universe with every kind represented.
func DefaultUniverse() Universe {
	return Universe{
		Names:         []string{"os", "port", "debug", "version", "grade", "load", "arch"},
		Words:         []string{"linux", "windows", "darwin", "x86", "arm", "Linux", "lin", "ux"},
		MaxInt:        8,
		MissingRate:   0.2,
		ArrayRate:     0.25,
		MandatoryRate: 0.05,
	}
}

var kinds = [...]attribute.Kind{
	attribute.KindString,
	attribute.KindInt,
	attribute.KindBool,
	attribute.KindVersion,
	attribute.KindChar,
	attribute.KindFloat,
}

func (u Universe) kindOf(nameIdx int) attribute.Kind {
	return kinds[nameIdx%len(kinds)]
}

// Text returns a random operand that parses as the kind of name nameIdx
// most of the time.
func (r *RNG) Text(u Universe, nameIdx int) string {
	if r.Intn(10) == 0 {
		return u.Words[r.Intn(len(u.Words))]
	}
	return r.scalar(u, u.kindOf(nameIdx)).String()
}

func (r *RNG) scalar(u Universe, kind attribute.Kind) attribute.Value {
	switch kind {
	case attribute.KindInt:
		return attribute.Int(int64(r.Intn(u.MaxInt)))
	case attribute.KindBool:
		return attribute.Bool(r.Intn(2) == 0)
	case attribute.KindVersion:
		return attribute.MustVersion("1." + strconv.Itoa(r.Intn(u.MaxInt)) + ".0")
	case attribute.KindChar:
		return attribute.Char(rune('a' + r.Intn(4)))
	case attribute.KindFloat:
		return attribute.Float(float64(r.Intn(u.MaxInt)) / 2)
	default:
		return attribute.String(u.Words[r.Intn(len(u.Words))])
	}
}

// Capability returns a random capability drawn from u.
func (r *RNG) Capability(u Universe) *attribute.Capability {
	attrs := make([]attribute.Attribute, 0, len(u.Names))
	for i, name := range u.Names {
		if r.Float64() < u.MissingRate {
			continue
		}
		kind := u.kindOf(i)
		value := r.scalar(u, kind)
		if r.Float64() < u.ArrayRate {
			elems := make([]attribute.Value, 1+r.Intn(3))
			for j := range elems {
				elems[j] = r.scalar(u, kind)
			}
			value = attribute.Array(elems...)
		}
		attrs = append(attrs, attribute.Attribute{
			Name:      name,
			Value:     value,
			Mandatory: r.Float64() < u.MandatoryRate,
		})
	}
	return attribute.MustNew("test", attrs...)
}

// Capabilities returns n random capabilities.
func (r *RNG) Capabilities(u Universe, n int) []*attribute.Capability {
	out := make([]*attribute.Capability, n)
	for i := range out {
		out[i] = r.Capability(u)
	}
	return out
}

// Filter returns a random filter over u with at most depth levels of
// compound nodes.
func (r *RNG) Filter(u Universe, depth int) *filter.Filter {
	if depth > 0 && r.Intn(3) > 0 {
		switch r.Intn(3) {
		case 0:
			return filter.Not(r.Filter(u, depth-1))
		case 1:
			return filter.And(r.children(u, depth-1)...)
		default:
			return filter.Or(r.children(u, depth-1)...)
		}
	}

	idx := r.Intn(len(u.Names))
	name := u.Names[idx]
	switch r.Intn(8) {
	case 0:
		return filter.Present(name)
	case 1:
		return filter.LessEqual(name, r.Text(u, idx))
	case 2:
		return filter.GreaterEqual(name, r.Text(u, idx))
	case 3:
		return filter.Approx(name, r.Text(u, idx))
	case 4:
		word := u.Words[r.Intn(len(u.Words))]
		return filter.Substring(name, "", word[:1+r.Intn(len(word))], "")
	default:
		return filter.Equal(name, r.Text(u, idx))
	}
}

func (r *RNG) children(u Universe, depth int) []*filter.Filter {
	out := make([]*filter.Filter, 1+r.Intn(3))
	for i := range out {
		out[i] = r.Filter(u, depth)
	}
	return out
}

// BruteForceMatch evaluates f against every capability one by one. It is
// the reference result an index must reproduce.
func BruteForceMatch(caps []*attribute.Capability, f *filter.Filter, enforceMandatory bool) []*attribute.Capability {
	out := make([]*attribute.Capability, 0)
	for _, c := range caps {
		if !f.Matches(c) {
			continue
		}
		if enforceMandatory && !f.SatisfiesMandatory(c.MandatoryNames()) {
			continue
		}
		out = append(out, c)
	}
	return out
}
