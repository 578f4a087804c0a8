package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/capset/attribute"
)

func TestMatches(t *testing.T) {
	rec := attribute.Map{
		"os":      attribute.String("linux"),
		"arch":    attribute.Strings("x86", "arm"),
		"port":    attribute.Int(8080),
		"load":    attribute.Float(0.75),
		"nan":     attribute.Float(math.NaN()),
		"debug":   attribute.Bool(false),
		"grade":   attribute.Char('b'),
		"version": attribute.MustVersion("1.4.2"),
		"vendor":  attribute.String("Acme  Corp"),
		"ports":   attribute.Array(attribute.Int(80), attribute.Int(443)),
	}

	tests := []struct {
		filter string
		want   bool
	}{
		// Strings.
		{"(os=linux)", true},
		{"(os=Linux)", false},
		{"(os<=m)", true},
		{"(os>=m)", false},
		{"(os~=LINUX)", true},
		{"(vendor~=acmecorp)", true},
		{"(vendor~= ACME CORP )", true},
		{"(os=li*)", true},
		{"(os=*ux)", true},
		{"(os=*nu*)", true},
		{"(os=*win*)", false},
		{"(os=*)", true},
		{"(missing=*)", false},
		{"(missing=x)", false},
		{"(!(missing=x))", true},

		// Multi-valued.
		{"(arch=arm)", true},
		{"(arch=ppc)", false},
		{"(arch=a*)", true},
		{"(arch>=z)", false},
		{"(ports=443)", true},
		{"(ports>=400)", true},
		{"(ports<=10)", false},

		// Integers.
		{"(port=8080)", true},
		{"(port= 8080 )", true},
		{"(port>=8000)", true},
		{"(port<=8000)", false},
		{"(port~=8080)", true},
		{"(port=80*)", false},
		{"(port=abc)", false},
		{"(port>=abc)", false},
		{"(!(port=abc))", true},

		// Floats.
		{"(load<=1)", true},
		{"(load>=0.75)", true},
		{"(load=0.750)", true},
		{"(load=x)", false},
		{"(nan<=1)", false},
		{"(nan>=1)", true},
		{"(nan>=1e308)", true},

		// Booleans.
		{"(debug=false)", true},
		{"(debug=FALSE)", true},
		{"(debug=true)", false},
		{"(debug<=false)", true},
		{"(debug~=false)", true},
		{"(debug=f*)", false},
		{"(debug=no)", false},

		// Characters.
		{"(grade=b)", true},
		{"(grade=bcd)", true},
		{"(grade~=B)", true},
		{"(grade=B)", false},
		{"(grade<=c)", true},
		{"(grade>=c)", false},
		{"(grade=)", false},

		// Versions.
		{"(version=1.4.2)", true},
		{"(version>=1.4)", true},
		{"(version<=1.4.1)", false},
		{"(version>=2)", false},
		{"(version=junk)", false},
		{"(version=1.4*)", false},

		// Compound.
		{"(&(os=linux)(arch=arm))", true},
		{"(&(os=linux)(arch=ppc))", false},
		{"(|(os=windows)(arch=arm))", true},
		{"(|(os=windows)(arch=ppc))", false},
		{"(!(os=linux))", false},
		{"(*)", true},
		{"(!(*))", false},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.filter).Matches(rec))
		})
	}
}

func TestMatchesAlgebra(t *testing.T) {
	recs := []attribute.Map{
		{"a": attribute.Int(1), "b": attribute.String("x")},
		{"a": attribute.Int(2)},
		{"b": attribute.Strings("x", "y")},
		{},
	}
	leaves := []*Filter{
		MustParse("(a>=2)"),
		MustParse("(b=x)"),
		MustParse("(b=y*)"),
		MustParse("(a=*)"),
		MustParse("(a=junk)"),
	}

	for _, r := range recs {
		for _, x := range leaves {
			assert.Equal(t, !x.Matches(r), Not(x).Matches(r))
			for _, y := range leaves {
				assert.Equal(t, x.Matches(r) && y.Matches(r), And(x, y).Matches(r))
				assert.Equal(t, x.Matches(r) || y.Matches(r), Or(x, y).Matches(r))
			}
		}
	}
}

func TestMatchesMultiValuedIsAnyElement(t *testing.T) {
	rec := attribute.Map{"tag": attribute.Strings("a", "b", "c")}

	assert.True(t, MustParse("(tag=b)").Matches(rec))
	assert.False(t, MustParse("(!(tag=b))").Matches(rec))
	assert.False(t, MustParse("(tag=x*)").Matches(rec))
	assert.True(t, MustParse("(tag=x*)").Matches(attribute.Map{"tag": attribute.Strings("a", "xyz")}))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, OpMatchAll, And().Op())
	assert.False(t, Or().Matches(attribute.Map{}))
	assert.Equal(t, OpPresent, Substring("a", "", "").Op())
	assert.Equal(t, OpEqual, Substring("a", "x").Op())
	assert.Equal(t, OpPresent, Substring("a").Op())
	assert.Equal(t, `(a=\*)`, Equal("a", "*").String())
	assert.Equal(t, "(a=x*y)", Substring("a", "x", "y").String())
	assert.Equal(t, "(a=x*y)", Substring("a", "x", "", "y").String())
	assert.Equal(t, OpPresent, Substring("a", "", "", "").Op())
	assert.Equal(t, `(a\)=b)`, Equal("a)", "b").String())
}

func TestEqualityKeys(t *testing.T) {
	keys := Equal("port", "80").EqualityKeys()
	assert.Contains(t, keys, attribute.String("80").Key())
	assert.Contains(t, keys, attribute.Int(80).Key())
	assert.Contains(t, keys, attribute.Float(80).Key())
	assert.Contains(t, keys, attribute.Char('8').Key())
	assert.Contains(t, keys, attribute.MustVersion("80").Key())
	assert.NotContains(t, keys, attribute.Bool(true).Key())

	assert.Nil(t, LessEqual("port", "80").EqualityKeys())
	assert.Equal(t, []string{attribute.String("").Key()}, Equal("x", "").EqualityKeys())
}
