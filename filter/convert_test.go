package filter

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/capset/attribute"
)

func TestParseVersionRange(t *testing.T) {
	tests := []struct {
		text    string
		in      []string
		out     []string
		wantErr bool
	}{
		{text: "[1.0.0,2.0.0)", in: []string{"1.0.0", "1.9.9"}, out: []string{"0.9.0", "2.0.0"}},
		{text: "(1.0,2.0]", in: []string{"1.0.1", "2.0.0"}, out: []string{"1.0.0", "2.0.1"}},
		{text: "1.2", in: []string{"1.2.0", "99.0.0"}, out: []string{"1.1.9"}},
		{text: "", wantErr: true},
		{text: "[1.0,2.0", wantErr: true},
		{text: "[1.0;2.0]", wantErr: true},
		{text: "[2.0,1.0]", wantErr: true},
		{text: "[x,2.0]", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			r, err := ParseVersionRange(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRange)
				return
			}
			require.NoError(t, err)
			for _, v := range tt.in {
				assert.True(t, r.Includes(semver.MustParse(v)), v)
			}
			for _, v := range tt.out {
				assert.False(t, r.Includes(semver.MustParse(v)), v)
			}
		})
	}
}

func TestVersionRangeString(t *testing.T) {
	r, err := ParseVersionRange("[1.0,2.0)")
	require.NoError(t, err)
	assert.Equal(t, "[1.0.0,2.0.0)", r.String())

	r, err = ParseVersionRange("1.5")
	require.NoError(t, err)
	assert.Equal(t, "1.5.0", r.String())
}

func TestFromTerms(t *testing.T) {
	r, err := ParseVersionRange("[1.0.0,2.0.0)")
	require.NoError(t, err)

	f := FromTerms(
		Term{Name: "name", Value: attribute.String("lib*")},
		Term{Name: "version", Range: r},
	)
	assert.Equal(t, "(&(name=lib*)(version>=1.0.0)(!(version>=2.0.0)))", f.String())

	assert.True(t, f.Matches(attribute.Map{
		"name":    attribute.String("libfoo"),
		"version": attribute.MustVersion("1.5.0"),
	}))
	assert.False(t, f.Matches(attribute.Map{
		"name":    attribute.String("libfoo"),
		"version": attribute.MustVersion("2.0.0"),
	}))

	// A single range still yields a conjunction of its bounds.
	only := FromTerms(Term{Name: "version", Range: r})
	assert.Equal(t, OpAnd, only.Op())

	assert.Equal(t, "(port=80)", FromTerms(Term{Name: "port", Value: attribute.Int(80)}).String())
	assert.Equal(t, OpMatchAll, FromTerms().Op())
}
