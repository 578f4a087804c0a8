// Package capset provides an in-memory store of capabilities that answers
// LDAP-style filter queries.
//
// A capability is a namespaced set of typed attributes, some of which may be
// marked mandatory. Filters are parsed from the familiar parenthesized
// notation and evaluated with type coercion against each capability's
// attribute values.
//
// # Quick Start
//
//	set := capset.New([]string{"osgi.wiring.package"})
//
//	c := attribute.MustNew("osgi.wiring.package",
//		attribute.Mandatory("osgi.wiring.package", attribute.String("org.example")),
//		attribute.Optional("version", attribute.MustVersion("1.2.0")),
//	)
//	_ = set.Add(c)
//
//	matches, err := set.MatchString("(&(osgi.wiring.package=org.example)(version>=1.0))", true)
//
// # Indexing
//
// Attribute names passed to New get value indices. Equality comparisons on
// those names are answered from the index; every other comparison falls
// back to evaluating the candidates that survived the indexed parts of the
// filter. Large scans run in parallel (see WithScanParallelThreshold).
//
// # Mandatory Attributes
//
// When a query enforces mandatory attributes, a capability only matches if
// the filter references each of its mandatory attributes along its
// top-level AND chain. References under OR or NOT do not count.
//
// # Concurrency
//
// A Set is safe for concurrent use. Parsed filters are immutable and may be
// shared between goroutines.
package capset
