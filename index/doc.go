// Package index maintains a live collection of capabilities and matches
// filters against it faster than a linear scan.
//
// For a fixed set of attribute names chosen at construction, the index keeps
// Roaring Bitmap posting lists from each attribute value to the capabilities
// carrying it. Multi-valued attributes are posted once per element.
//
// Matching walks the filter tree over bitmaps of candidate slots:
//
//   - AND narrows the candidates child by child and stops once empty
//   - OR unions the children, each evaluated against the incoming candidates
//   - NOT subtracts its child's matches from the incoming candidates
//   - "=" on an indexed attribute intersects the candidates with a bucket
//   - everything else scans the candidates with filter.Filter.Matches
//
// Indexing only changes the cost of a query, never its result.
package index
