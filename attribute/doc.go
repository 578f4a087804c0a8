// Package attribute provides the typed attribute model that capabilities carry.
//
// A Value is a closed variant over the kinds a filter can compare against:
//
//   - String: attribute.String("linux")
//   - Bool: attribute.Bool(true)
//   - Int: attribute.Int(8080)
//   - Float: attribute.Float(1.5)
//   - Char: attribute.Char('x')
//   - Version: attribute.MustVersion("1.2.3")
//   - Array: attribute.Strings("x86", "arm")
//
// A Capability owns an ordered list of uniquely named attributes. Attributes
// may be flagged mandatory, which means a requirement must name them
// explicitly before the capability can satisfy it.
//
// Example:
//
//	capability, err := attribute.New("osgi.native",
//	    attribute.Optional("os", attribute.String("linux")),
//	    attribute.Optional("arch", attribute.Strings("x86", "arm")),
//	    attribute.Mandatory("vendor", attribute.String("acme")),
//	)
//
// Capabilities are compared by identity. Two capabilities carrying the same
// attributes are still distinct entries in an index.
package attribute
