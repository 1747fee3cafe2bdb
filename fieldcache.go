package csvcore

import "sync"

// fieldCache interns decoded field strings to cut allocations when the same
// values repeat across many rows (e.g. a low-cardinality status column).
// Instance-private: never shared across Parser instances, matching the
// per-instance pool discipline go-simdcsv and ooyeku-csv_parser's
// sync.Pool-backed buffers use for record/field reuse.
type fieldCache struct {
	enabled bool
	entries map[string]string
}

func newFieldCache(enabled bool) *fieldCache {
	if !enabled {
		return &fieldCache{}
	}
	return &fieldCache{enabled: true, entries: make(map[string]string, 64)}
}

// intern returns a shared copy of s when caching is enabled, allocating s
// into the cache on first sight; otherwise it returns s unchanged.
func (c *fieldCache) intern(s string) string {
	if !c.enabled {
		return s
	}
	if cached, ok := c.entries[s]; ok {
		return cached
	}
	c.entries[s] = s
	return s
}

// processedBufferPool recycles the byte slices backing a Parser's
// processed-field buffer across parser lifetimes, the way go-simdcsv pools
// parseResult and ooyeku-csv_parser pools record/field byte slices.
var processedBufferPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 256)
		return &b
	},
}

func getProcessedBuffer(capHint int) *[]byte {
	p := processedBufferPool.Get().(*[]byte)
	if cap(*p) < capHint {
		nb := make([]byte, 0, capHint)
		*p = nb
	} else {
		*p = (*p)[:0]
	}
	return p
}

func putProcessedBuffer(b *[]byte) {
	if b == nil {
		return
	}
	*b = (*b)[:0]
	processedBufferPool.Put(b)
}
