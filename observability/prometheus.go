package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/capset"
)

// Namespace prefixes every metric name.
const Namespace = "capset"

// PrometheusCollector implements capset.MetricsCollector.
type PrometheusCollector struct {
	opLatency *prometheus.HistogramVec
	ops       *prometheus.CounterVec
	matched   prometheus.Histogram
}

var _ capset.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector creates the collector and registers its metrics
// with reg. If reg is nil, prometheus.DefaultRegisterer is used.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of set operations",
			Buckets:   []float64{1e-6, 1e-5, 1e-4, 1e-3, 0.01, 0.1, 1},
		}, []string{"op"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total set operations by outcome",
		}, []string{"op", "status"}),
		matched: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "match_results",
			Help:      "Number of capabilities returned per match",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	for _, col := range []prometheus.Collector{c.opLatency, c.ops, c.matched} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNewPrometheusCollector is like NewPrometheusCollector but panics on
// registration errors.
func MustNewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c, err := NewPrometheusCollector(reg)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *PrometheusCollector) RecordAdd(d time.Duration, err error) {
	c.observe("add", d, status(err == nil, "error"))
}

func (c *PrometheusCollector) RecordRemove(d time.Duration, removed bool) {
	c.observe("remove", d, status(removed, "miss"))
}

func (c *PrometheusCollector) RecordMatch(matched int, d time.Duration, err error) {
	c.observe("match", d, status(err == nil, "error"))
	if err == nil {
		c.matched.Observe(float64(matched))
	}
}

func (c *PrometheusCollector) observe(op string, d time.Duration, status string) {
	c.opLatency.WithLabelValues(op).Observe(d.Seconds())
	c.ops.WithLabelValues(op, status).Inc()
}

func status(ok bool, failure string) string {
	if ok {
		return "success"
	}
	return failure
}

// RegisterSetGauges exports the occupancy of set as gauges evaluated at
// scrape time.
func RegisterSetGauges(reg prometheus.Registerer, set *capset.Set) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	gauges := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "capabilities",
			Help:      "Capabilities currently held",
		}, func() float64 { return float64(set.Len()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "index_buckets",
			Help:      "Non-empty value buckets across indexed attributes",
		}, func() float64 { return float64(set.Stats().Buckets) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "index_memory_bytes",
			Help:      "Estimated index memory",
		}, func() float64 { return float64(set.Stats().MemoryBytes) }),
	}
	for _, g := range gauges {
		if err := reg.Register(g); err != nil {
			return err
		}
	}
	return nil
}
