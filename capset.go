package capset

import (
	"context"
	"log/slog"
	"time"

	"github.com/hupe1980/capset/attribute"
	"github.com/hupe1980/capset/filter"
	"github.com/hupe1980/capset/index"
	"github.com/hupe1980/capset/internal/cache"
)

// Capability is an alias of attribute.Capability for callers that only
// import the root package.
type Capability = attribute.Capability

// Set is a concurrency-safe collection of capabilities that answers filter
// queries, using value indices for the configured attribute names.
type Set struct {
	ix      *index.Index
	schema  attribute.Schema
	filters *cache.LRU[string, *filter.Filter]

	logger  *Logger
	metrics MetricsCollector
}

// New creates an empty Set maintaining value indices for the given
// attribute names.
func New(indexed []string, optFns ...Option) *Set {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	ix := index.New(indexed, func(o *index.Options) {
		o.ScanParallelThreshold = opts.scanParallelThreshold
		if opts.scanWorkers > 0 {
			o.ScanWorkers = opts.scanWorkers
		}
	})

	return &Set{
		ix:      ix,
		schema:  opts.schema,
		filters: cache.NewLRU[string, *filter.Filter](opts.filterCacheSize),
		logger:  opts.logger,
		metrics: opts.metricsCollector,
	}
}

// IndexedAttributes returns the attribute names that have value indices.
func (s *Set) IndexedAttributes() []string {
	return s.ix.IndexedAttributes()
}

// Add inserts c. Adding a capability the set already holds is a no-op.
//
// Returns ErrNilCapability for a nil capability and an error wrapping
// ErrSchemaViolation if a schema is configured and c does not conform.
func (s *Set) Add(c *Capability) (err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordAdd(time.Since(start), err)
	}()

	if c == nil {
		s.logger.LogAdd("", 0, ErrNilCapability)
		return ErrNilCapability
	}

	if s.schema != nil {
		if err := s.schema.Validate(c); err != nil {
			err = translateError(err)
			s.logger.LogAdd(c.Namespace(), c.Len(), err)
			return err
		}
	}

	s.ix.Add(c)
	s.logger.LogAdd(c.Namespace(), c.Len(), nil)
	return nil
}

// Remove deletes c and reports whether it was held.
func (s *Set) Remove(c *Capability) bool {
	start := time.Now()
	removed := s.ix.Remove(c)
	s.metrics.RecordRemove(time.Since(start), removed)

	namespace := ""
	if c != nil {
		namespace = c.Namespace()
	}
	s.logger.LogRemove(namespace, removed)
	return removed
}

// Contains reports whether c is held.
func (s *Set) Contains(c *Capability) bool {
	return s.ix.Contains(c)
}

// Len returns the number of capabilities held.
func (s *Set) Len() int {
	return s.ix.Len()
}

// Capabilities returns a snapshot of every held capability.
func (s *Set) Capabilities() []*Capability {
	return s.ix.Capabilities()
}

// Match returns every held capability satisfying f. With enforceMandatory
// set, capabilities whose mandatory attributes are not all referenced by f
// are excluded.
//
// The result is a fresh slice; its order is unspecified.
func (s *Set) Match(f *filter.Filter, enforceMandatory bool) []*Capability {
	start := time.Now()
	matches := s.ix.Match(f, enforceMandatory)
	elapsed := time.Since(start)

	s.metrics.RecordMatch(len(matches), elapsed, nil)
	if s.logger.Enabled(context.Background(), slog.LevelDebug) {
		s.logger.LogMatch(f.String(), enforceMandatory, len(matches), elapsed, nil)
	}
	return matches
}

// MatchString parses text and calls Match. Parsed filters are cached by
// text (see WithFilterCacheSize). A parse failure is returned as
// *ErrInvalidFilter.
func (s *Set) MatchString(text string, enforceMandatory bool) ([]*Capability, error) {
	f, ok := s.filters.Get(text)
	if !ok {
		start := time.Now()
		parsed, err := filter.Parse(text)
		if err != nil {
			err = &ErrInvalidFilter{Filter: text, cause: err}
			s.metrics.RecordMatch(0, time.Since(start), err)
			s.logger.LogMatch(text, enforceMandatory, 0, time.Since(start), err)
			return nil, err
		}
		s.filters.Set(text, parsed)
		f = parsed
	}
	return s.Match(f, enforceMandatory), nil
}

// Matches reports whether the single capability c satisfies f under the
// same rules as Match. c need not be held by the set.
func Matches(c *Capability, f *filter.Filter, enforceMandatory bool) bool {
	return index.Matches(c, f, enforceMandatory)
}

// Stats returns a snapshot of the index occupancy.
func (s *Set) Stats() index.Stats {
	return s.ix.Stats()
}
