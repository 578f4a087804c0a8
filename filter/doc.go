// Package filter parses and evaluates capability filter expressions.
//
// The syntax is a parenthesized prefix notation:
//
//	(&(os=linux)(arch=arm))       AND
//	(|(os=linux)(os=windows))     OR
//	(!(os=linux))                 NOT
//	(version>=1.2.0)              ordering
//	(vendor~=ACME Corp)           approximate (case and whitespace insensitive)
//	(name=lib*-dev)               substring
//	(tags=*)                      presence
//	(*)                           match everything
//
// Parse never returns a partial tree: malformed input yields a *ParseError.
// Evaluation never fails: comparisons that do not apply to a record simply
// do not match.
//
// Operands are converted into the kind of the attribute they are compared
// with. A Filter converts its operand once, at construction, so a parsed
// Filter can be evaluated concurrently without locking.
package filter
