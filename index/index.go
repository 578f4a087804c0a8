package index

import (
	"runtime"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/capset/attribute"
	"github.com/hupe1980/capset/filter"
	"github.com/hupe1980/capset/internal/conv"
)

// DefaultScanParallelThreshold is the candidate count from which a linear
// scan is split across goroutines.
const DefaultScanParallelThreshold = 4096

// Options configures an Index.
type Options struct {
	// ScanParallelThreshold is the minimum number of candidates for a
	// parallel scan. Zero or less disables parallel scans.
	ScanParallelThreshold int

	// ScanWorkers bounds the goroutines of a parallel scan.
	// Defaults to GOMAXPROCS.
	ScanWorkers int
}

// DefaultOptions returns the default index options.
func DefaultOptions() Options {
	return Options{
		ScanParallelThreshold: DefaultScanParallelThreshold,
		ScanWorkers:           runtime.GOMAXPROCS(0),
	}
}

// Index holds a live set of capabilities and answers filter queries against
// them.
//
// Architecture:
//   - slots: dense uint32 ids assigned on Add, reused after Remove
//   - all: bitmap of every occupied slot (the scan universe)
//   - buckets: attribute name -> value key -> bitmap of slots, kept only for
//     the names configured at construction
//
// Add and Remove take the write lock; queries share the read lock.
type Index struct {
	mu sync.RWMutex

	indexed []string
	buckets map[string]map[string]*roaring.Bitmap

	all   *roaring.Bitmap
	slots []*attribute.Capability
	ids   map[*attribute.Capability]uint32
	free  []uint32

	opts Options
}

// New creates an index maintaining value buckets for the given attribute
// names. The set of names is fixed for the lifetime of the index.
func New(indexed []string, optFns ...func(o *Options)) *Index {
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ScanWorkers <= 0 {
		opts.ScanWorkers = runtime.GOMAXPROCS(0)
	}

	buckets := make(map[string]map[string]*roaring.Bitmap, len(indexed))
	names := make([]string, 0, len(indexed))
	for _, name := range indexed {
		if _, dup := buckets[name]; dup {
			continue
		}
		buckets[name] = make(map[string]*roaring.Bitmap)
		names = append(names, name)
	}

	return &Index{
		indexed: names,
		buckets: buckets,
		all:     roaring.New(),
		ids:     make(map[*attribute.Capability]uint32),
		opts:    opts,
	}
}

// IndexedAttributes returns the attribute names that have value buckets.
func (ix *Index) IndexedAttributes() []string {
	return slices.Clone(ix.indexed)
}

// Add inserts c. Adding a capability that is already held is a no-op and
// returns false. Add panics if c is nil.
func (ix *Index) Add(c *attribute.Capability) bool {
	if c == nil {
		panic("index: Add called with nil capability")
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, exists := ix.ids[c]; exists {
		return false
	}

	id := ix.allocLocked(c)
	ix.all.Add(id)
	ix.forEachIndexedKey(c, func(bucket map[string]*roaring.Bitmap, key string) {
		bitmap, ok := bucket[key]
		if !ok {
			bitmap = roaring.New()
			bucket[key] = bitmap
		}
		bitmap.Add(id)
	})
	return true
}

// Remove deletes c and reports whether it was held. Buckets that become
// empty are dropped.
func (ix *Index) Remove(c *attribute.Capability) bool {
	if c == nil {
		return false
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	id, exists := ix.ids[c]
	if !exists {
		return false
	}

	ix.forEachIndexedKey(c, func(bucket map[string]*roaring.Bitmap, key string) {
		bitmap, ok := bucket[key]
		if !ok {
			return
		}
		bitmap.Remove(id)
		if bitmap.IsEmpty() {
			delete(bucket, key)
		}
	})
	ix.all.Remove(id)
	ix.releaseLocked(id)
	return true
}

// Contains reports whether c is held by the index.
func (ix *Index) Contains(c *attribute.Capability) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	_, ok := ix.ids[c]
	return ok
}

// Len returns the number of capabilities held.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return len(ix.ids)
}

// Capabilities returns every held capability in slot order.
func (ix *Index) Capabilities() []*attribute.Capability {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return ix.resolveLocked(ix.all)
}

// Match returns the capabilities satisfying f, in slot order.
//
// With enforceMandatory set, a capability is dropped unless f references
// each of its mandatory attributes (see filter.Filter.ReferencedNames).
func (ix *Index) Match(f *filter.Filter, enforceMandatory bool) []*attribute.Capability {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	matches := ix.resolveLocked(ix.matchLocked(ix.all, f))
	if !enforceMandatory {
		return matches
	}

	checker := filter.NewMandatoryChecker(f)
	return slices.DeleteFunc(matches, func(c *attribute.Capability) bool {
		return !checker.Satisfied(c.MandatoryNames())
	})
}

// Matches reports whether the single capability c satisfies f, with the
// same semantics as Match. c need not be held by the index.
func Matches(c *attribute.Capability, f *filter.Filter, enforceMandatory bool) bool {
	if !f.Matches(c) {
		return false
	}
	return !enforceMandatory || f.SatisfiesMandatory(c.MandatoryNames())
}

// allocLocked assigns a slot id to c. Caller must hold ix.mu.Lock().
func (ix *Index) allocLocked(c *attribute.Capability) uint32 {
	var id uint32
	if n := len(ix.free); n > 0 {
		id = ix.free[n-1]
		ix.free = ix.free[:n-1]
		ix.slots[id] = c
	} else {
		next, err := conv.SlotID(len(ix.slots))
		if err != nil {
			panic("index: " + err.Error())
		}
		id = next
		ix.slots = append(ix.slots, c)
	}
	ix.ids[c] = id
	return id
}

// releaseLocked frees the slot of a removed capability. Caller must hold
// ix.mu.Lock().
func (ix *Index) releaseLocked(id uint32) {
	delete(ix.ids, ix.slots[id])
	ix.slots[id] = nil
	ix.free = append(ix.free, id)
}

// resolveLocked maps slot ids back to capabilities. Caller must hold
// ix.mu.RLock().
func (ix *Index) resolveLocked(ids *roaring.Bitmap) []*attribute.Capability {
	out := make([]*attribute.Capability, 0, ids.GetCardinality())
	it := ids.Iterator()
	for it.HasNext() {
		out = append(out, ix.slots[it.Next()])
	}
	return out
}

// forEachIndexedKey calls fn for every bucket key c contributes. Array
// values contribute one key per (nested) element.
func (ix *Index) forEachIndexedKey(c *attribute.Capability, fn func(bucket map[string]*roaring.Bitmap, key string)) {
	for _, name := range ix.indexed {
		v, ok := c.Lookup(name)
		if !ok {
			continue
		}
		bucket := ix.buckets[name]
		forEachScalar(v, func(s attribute.Value) {
			fn(bucket, s.Key())
		})
	}
}

func forEachScalar(v attribute.Value, fn func(attribute.Value)) {
	elems, ok := v.AsArray()
	if !ok {
		fn(v)
		return
	}
	for _, e := range elems {
		forEachScalar(e, fn)
	}
}
