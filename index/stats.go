package index

import (
	"github.com/hupe1980/capset/attribute"
	"github.com/hupe1980/capset/internal/conv"
)

// Stats describes the current contents of an Index.
type Stats struct {
	Capabilities      int    // Capabilities held
	IndexedAttributes int    // Attribute names with value buckets
	Buckets           int    // Non-empty value buckets
	Postings          uint64 // Sum of bucket cardinalities
	MemoryBytes       uint64 // Estimated bitmap memory
}

// Stats returns statistics about the index.
func (ix *Index) Stats() Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	stats := Stats{
		Capabilities:      len(ix.ids),
		IndexedAttributes: len(ix.indexed),
		MemoryBytes:       ix.all.GetSizeInBytes(),
	}
	for _, bucket := range ix.buckets {
		for _, bitmap := range bucket {
			stats.Buckets++
			stats.Postings += bitmap.GetCardinality()
			stats.MemoryBytes += bitmap.GetSizeInBytes()
		}
	}

	// Slot table and identity map.
	stats.MemoryBytes += uint64(len(ix.slots)*8 + len(ix.ids)*16)
	return stats
}

// BucketSize returns how many capabilities carry value under the indexed
// attribute name. It returns 0 for names that are not indexed.
func (ix *Index) BucketSize(name string, value attribute.Value) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	bitmap, ok := ix.buckets[name][value.Key()]
	if !ok {
		return 0
	}
	return conv.Cardinality(bitmap.GetCardinality())
}
