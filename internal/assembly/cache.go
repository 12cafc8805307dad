package assembly

import (
	"fmt"

	"github.com/maypok86/otter"

	"github.com/tbre-automation/partslist/internal/host"
)

// CachingExtractor memoizes successful extractions by document path for the
// lifetime of a session. Records are immutable, so one record can stand for
// every occurrence of the same part. Failures are not cached.
type CachingExtractor struct {
	next  Extractor
	cache otter.Cache[string, Record]
}

// NewCachingExtractor wraps next with a cache holding up to capacity records.
func NewCachingExtractor(next Extractor, capacity int) (*CachingExtractor, error) {
	cache, err := otter.MustBuilder[string, Record](capacity).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction cache: %w", err)
	}
	return &CachingExtractor{next: next, cache: cache}, nil
}

// Extract implements Extractor.
func (c *CachingExtractor) Extract(doc host.Document) (Record, error) {
	path := doc.Path()
	if r, ok := c.cache.Get(path); ok {
		return r, nil
	}
	r, err := c.next.Extract(doc)
	if err != nil {
		return Record{}, err
	}
	c.cache.Set(path, r)
	return r, nil
}

// Hits is the number of extractions served from the cache.
func (c *CachingExtractor) Hits() int64 {
	return c.cache.Stats().Hits()
}

// Invalidate drops every cached record. Call it when documents may have
// changed on disk.
func (c *CachingExtractor) Invalidate() {
	c.cache.Clear()
}

// Close releases the cache.
func (c *CachingExtractor) Close() {
	c.cache.Close()
}
