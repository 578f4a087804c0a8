package capset

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/capset/attribute"
	"github.com/hupe1980/capset/filter"
	"github.com/hupe1980/capset/testutil"
)

func packageCap(t *testing.T, pkg, version string, extra ...attribute.Attribute) *Capability {
	t.Helper()
	attrs := append([]attribute.Attribute{
		attribute.Optional("osgi.wiring.package", attribute.String(pkg)),
		attribute.Optional("version", attribute.MustVersion(version)),
	}, extra...)
	c, err := attribute.New("osgi.wiring.package", attrs...)
	require.NoError(t, err)
	return c
}

func TestSet(t *testing.T) {
	t.Run("AddAndMatch", func(t *testing.T) {
		set := New([]string{"osgi.wiring.package"})

		foo := packageCap(t, "org.foo", "1.0.0")
		foo2 := packageCap(t, "org.foo", "2.1.0")
		bar := packageCap(t, "org.bar", "1.5.0")
		for _, c := range []*Capability{foo, foo2, bar} {
			require.NoError(t, set.Add(c))
		}
		assert.Equal(t, 3, set.Len())

		got, err := set.MatchString("(&(osgi.wiring.package=org.foo)(version>=2.0.0))", false)
		require.NoError(t, err)
		assert.Equal(t, []*Capability{foo2}, got)

		got, err = set.MatchString("(osgi.wiring.package=org.*)", false)
		require.NoError(t, err)
		assert.ElementsMatch(t, []*Capability{foo, foo2, bar}, got)

		got, err = set.MatchString("(!(version<=1.5.0))", false)
		require.NoError(t, err)
		assert.Equal(t, []*Capability{foo2}, got)
	})

	t.Run("AddTwiceIsNoop", func(t *testing.T) {
		set := New(nil)
		c := packageCap(t, "org.foo", "1.0.0")

		require.NoError(t, set.Add(c))
		require.NoError(t, set.Add(c))
		assert.Equal(t, 1, set.Len())
		assert.True(t, set.Contains(c))
	})

	t.Run("AddNil", func(t *testing.T) {
		set := New(nil)
		assert.ErrorIs(t, set.Add(nil), ErrNilCapability)
		assert.Zero(t, set.Len())
	})

	t.Run("Remove", func(t *testing.T) {
		set := New([]string{"osgi.wiring.package"})
		c := packageCap(t, "org.foo", "1.0.0")
		require.NoError(t, set.Add(c))

		assert.True(t, set.Remove(c))
		assert.False(t, set.Remove(c))
		assert.False(t, set.Remove(nil))
		assert.Zero(t, set.Len())

		got, err := set.MatchString("(osgi.wiring.package=org.foo)", false)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("EqualButDistinctCapabilities", func(t *testing.T) {
		set := New([]string{"osgi.wiring.package"})
		a := packageCap(t, "org.foo", "1.0.0")
		b := packageCap(t, "org.foo", "1.0.0")
		require.NoError(t, set.Add(a))
		require.NoError(t, set.Add(b))
		assert.Equal(t, 2, set.Len())

		set.Remove(a)
		got := set.Match(filter.MustParse("(osgi.wiring.package=org.foo)"), false)
		require.Len(t, got, 1)
		assert.Same(t, b, got[0])
	})

	t.Run("InvalidFilter", func(t *testing.T) {
		set := New(nil)
		_, err := set.MatchString("(a=b", false)
		require.Error(t, err)

		var invalid *ErrInvalidFilter
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, "(a=b", invalid.Filter)

		var parseErr *filter.ParseError
		assert.True(t, errors.As(err, &parseErr))
	})

	t.Run("Capabilities", func(t *testing.T) {
		set := New(nil)
		a := packageCap(t, "org.a", "1.0.0")
		b := packageCap(t, "org.b", "1.0.0")
		require.NoError(t, set.Add(a))
		require.NoError(t, set.Add(b))
		assert.ElementsMatch(t, []*Capability{a, b}, set.Capabilities())
	})

	t.Run("IndexedAttributes", func(t *testing.T) {
		set := New([]string{"a", "b", "a"})
		assert.Equal(t, []string{"a", "b"}, set.IndexedAttributes())
	})
}

func TestSet_Mandatory(t *testing.T) {
	set := New([]string{"osgi.wiring.package"})
	c := packageCap(t, "org.foo", "1.0.0",
		attribute.Mandatory("vendor", attribute.String("acme")))
	require.NoError(t, set.Add(c))

	tests := []struct {
		name    string
		filter  string
		enforce bool
		want    int
	}{
		{"NotEnforced", "(osgi.wiring.package=org.foo)", false, 1},
		{"MissingMandatory", "(osgi.wiring.package=org.foo)", true, 0},
		{"Referenced", "(&(osgi.wiring.package=org.foo)(vendor=acme))", true, 1},
		{"NestedAnd", "(&(osgi.wiring.package=org.foo)(&(vendor=acme)))", true, 1},
		{"UnderOr", "(&(osgi.wiring.package=org.foo)(|(vendor=acme)(vendor=other)))", true, 0},
		{"UnderNot", "(&(osgi.wiring.package=org.foo)(!(vendor=other)))", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := set.MatchString(tt.filter, tt.enforce)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)

			f := filter.MustParse(tt.filter)
			assert.Equal(t, tt.want == 1, Matches(c, f, tt.enforce))
		})
	}
}

func TestSet_Schema(t *testing.T) {
	set := New(nil, WithSchema(attribute.Schema{
		"version": attribute.KindVersion,
	}))

	good := packageCap(t, "org.foo", "1.0.0")
	require.NoError(t, set.Add(good))

	bad := attribute.MustNew("osgi.wiring.package",
		attribute.Optional("version", attribute.String("1.0.0")))
	err := set.Add(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaViolation)

	var mismatch *attribute.ErrSchemaMismatch
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "version", mismatch.Attribute)
	assert.Equal(t, attribute.KindString, mismatch.Actual)
	assert.False(t, set.Contains(bad))
}

func TestSet_Metrics(t *testing.T) {
	mc := &BasicMetricsCollector{}
	set := New(nil, WithMetricsCollector(mc))

	c := packageCap(t, "org.foo", "1.0.0")
	require.NoError(t, set.Add(c))
	require.Error(t, set.Add(nil))

	_, err := set.MatchString("(version>=1.0.0)", false)
	require.NoError(t, err)
	_, err = set.MatchString("(", false)
	require.Error(t, err)

	set.Remove(c)
	set.Remove(c)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.AddCount)
	assert.Equal(t, int64(1), stats.AddErrors)
	assert.Equal(t, int64(2), stats.MatchCount)
	assert.Equal(t, int64(1), stats.MatchErrors)
	assert.Equal(t, int64(1), stats.MatchResults)
	assert.Equal(t, int64(2), stats.RemoveCount)
	assert.Equal(t, int64(1), stats.RemoveMisses)
}

func TestSet_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	set := New(nil, WithLogger(logger))

	require.NoError(t, set.Add(packageCap(t, "org.foo", "1.0.0")))
	_, err := set.MatchString("(version>=1.0.0)", true)
	require.NoError(t, err)
	_, err = set.MatchString("(version", false)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "capability added")
	assert.Contains(t, out, "namespace=osgi.wiring.package")
	assert.Contains(t, out, "match completed")
	assert.Contains(t, out, "matched=1")
	assert.Contains(t, out, "match failed")
}

func TestSet_NilOptionsFallBack(t *testing.T) {
	set := New(nil, WithLogger(nil), WithMetricsCollector(nil))
	require.NoError(t, set.Add(packageCap(t, "org.foo", "1.0.0")))
	assert.Len(t, set.Match(filter.MatchAll(), false), 1)
}

func TestSet_AgreesWithBruteForce(t *testing.T) {
	rng := testutil.NewRNG(7)
	u := testutil.DefaultUniverse()
	caps := rng.Capabilities(u, 300)

	set := New(u.Names[:3], WithScanParallelThreshold(64), WithScanWorkers(4))
	for _, c := range caps {
		require.NoError(t, set.Add(c))
	}

	for i := 0; i < 200; i++ {
		f := rng.Filter(u, 3)
		enforce := i%2 == 0
		want := testutil.BruteForceMatch(caps, f, enforce)
		got := set.Match(f, enforce)
		assert.ElementsMatch(t, want, got, "filter %s", f)
	}
}

func TestSet_Concurrent(t *testing.T) {
	rng := testutil.NewRNG(11)
	u := testutil.DefaultUniverse()
	caps := rng.Capabilities(u, 200)
	set := New(u.Names[:2])

	f := filter.MustParse("(" + u.Names[0] + "=*)")

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := w; i < len(caps); i += 4 {
				_ = set.Add(caps[i])
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				for _, c := range set.Match(f, false) {
					assert.True(t, f.Matches(c))
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, len(caps), set.Len())
}

func TestSet_Stats(t *testing.T) {
	set := New([]string{"osgi.wiring.package"})
	require.NoError(t, set.Add(packageCap(t, "org.foo", "1.0.0")))
	require.NoError(t, set.Add(packageCap(t, "org.bar", "1.0.0")))

	stats := set.Stats()
	assert.Equal(t, 2, stats.Capabilities)
	assert.Equal(t, 1, stats.IndexedAttributes)
	assert.Equal(t, 2, stats.Buckets)
	assert.Equal(t, uint64(2), stats.Postings)
}

func TestSet_FilterCache(t *testing.T) {
	set := New(nil)
	require.NoError(t, set.Add(packageCap(t, "org.foo", "1.0.0")))

	for i := 0; i < 3; i++ {
		got, err := set.MatchString("(version>=1.0.0)", false)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	hits, misses := set.filters.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)

	// Parse failures are not cached.
	for i := 0; i < 2; i++ {
		_, err := set.MatchString("(version>=", false)
		require.Error(t, err)
	}
	assert.Equal(t, 1, set.filters.Len())

	disabled := New(nil, WithFilterCacheSize(0))
	_, err := disabled.MatchString("(a=b)", false)
	require.NoError(t, err)
	assert.Zero(t, disabled.filters.Len())
}
