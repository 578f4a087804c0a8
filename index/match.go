package index

import (
	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/capset/filter"
)

// matchLocked narrows candidates to the slots satisfying f. The result is
// always a fresh bitmap the caller may modify. Caller must hold ix.mu.RLock().
func (ix *Index) matchLocked(candidates *roaring.Bitmap, f *filter.Filter) *roaring.Bitmap {
	switch f.Op() {
	case filter.OpMatchAll:
		return candidates.Clone()

	case filter.OpAnd:
		// Each child only sees what survived its predecessors.
		result := candidates
		for _, child := range f.Children() {
			if result.IsEmpty() {
				break
			}
			result = ix.matchLocked(result, child)
		}
		if result == candidates {
			return candidates.Clone()
		}
		return result

	case filter.OpOr:
		// Every child sees the full incoming candidate set.
		result := roaring.New()
		for _, child := range f.Children() {
			result.Or(ix.matchLocked(candidates, child))
		}
		return result

	case filter.OpNot:
		result := candidates.Clone()
		result.AndNot(ix.matchLocked(candidates, f.Children()[0]))
		return result

	case filter.OpEqual:
		if bucket, ok := ix.buckets[f.Attr()]; ok {
			return lookupLocked(bucket, f, candidates)
		}
	}

	return ix.scanLocked(candidates, f)
}

// lookupLocked answers an Equal comparison on an indexed attribute from its
// buckets. The operand may hit several buckets, one per kind it converts to.
func lookupLocked(bucket map[string]*roaring.Bitmap, f *filter.Filter, candidates *roaring.Bitmap) *roaring.Bitmap {
	var hits []*roaring.Bitmap
	for _, key := range f.EqualityKeys() {
		if bitmap, ok := bucket[key]; ok {
			hits = append(hits, bitmap)
		}
	}

	switch len(hits) {
	case 0:
		return roaring.New()
	case 1:
		return roaring.And(hits[0], candidates)
	default:
		result := roaring.FastOr(hits...)
		result.And(candidates)
		return result
	}
}

// scanLocked evaluates f against every candidate. Large candidate sets are
// split into chunks scanned concurrently.
func (ix *Index) scanLocked(candidates *roaring.Bitmap, f *filter.Filter) *roaring.Bitmap {
	n := int(candidates.GetCardinality())
	if ix.opts.ScanParallelThreshold <= 0 || n < ix.opts.ScanParallelThreshold || ix.opts.ScanWorkers < 2 {
		return ix.scanRange(candidates.ToArray(), f)
	}

	ids := candidates.ToArray()
	chunk := (len(ids) + ix.opts.ScanWorkers - 1) / ix.opts.ScanWorkers
	parts := make([]*roaring.Bitmap, (len(ids)+chunk-1)/chunk)

	var g errgroup.Group
	g.SetLimit(ix.opts.ScanWorkers)
	for i := range parts {
		start := i * chunk
		end := min(start+chunk, len(ids))
		g.Go(func() error {
			parts[i] = ix.scanRange(ids[start:end], f)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	return roaring.FastOr(parts...)
}

func (ix *Index) scanRange(ids []uint32, f *filter.Filter) *roaring.Bitmap {
	result := roaring.New()
	for _, id := range ids {
		if f.Matches(ix.slots[id]) {
			result.Add(id)
		}
	}
	return result
}
