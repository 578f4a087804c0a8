package capset

import (
	"github.com/hupe1980/capset/attribute"
	"github.com/hupe1980/capset/index"
)

type options struct {
	metricsCollector      MetricsCollector
	logger                *Logger
	schema                attribute.Schema
	scanParallelThreshold int
	scanWorkers           int
	filterCacheSize       int
}

// DefaultFilterCacheSize is the number of parsed filters MatchString keeps.
const DefaultFilterCacheSize = 256

func defaultOptions() options {
	return options{
		metricsCollector:      NoopMetricsCollector{},
		logger:                NoopLogger(),
		scanParallelThreshold: index.DefaultScanParallelThreshold,
		filterCacheSize:       DefaultFilterCacheSize,
	}
}

// Option configures a Set.
type Option func(*options)

// WithLogger sets the structured logger.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
//
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithSchema makes Add reject capabilities whose attribute kinds disagree
// with s. Attributes not named in s are unconstrained.
func WithSchema(s attribute.Schema) Option {
	return func(o *options) {
		o.schema = s
	}
}

// WithScanParallelThreshold sets the candidate count from which a linear
// scan is split across goroutines. Zero or less disables parallel scans.
func WithScanParallelThreshold(n int) Option {
	return func(o *options) {
		o.scanParallelThreshold = n
	}
}

// WithScanWorkers bounds the goroutines of a parallel scan.
// Zero or less means GOMAXPROCS.
func WithScanWorkers(n int) Option {
	return func(o *options) {
		o.scanWorkers = n
	}
}

// WithFilterCacheSize sets how many parsed filters MatchString caches by
// their text. Zero or less disables the cache.
func WithFilterCacheSize(n int) Option {
	return func(o *options) {
		o.filterCacheSize = n
	}
}
