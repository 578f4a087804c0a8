// Package observability exports capset operations to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	mc := observability.MustNewPrometheusCollector(reg)
//	set := capset.New(indexed, capset.WithMetricsCollector(mc))
//	_ = observability.RegisterSetGauges(reg, set)
package observability
