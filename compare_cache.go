package valtio

import lru "github.com/hashicorp/golang-lru"

// CompareCache remembers the outcome of comparing two snapshots, keyed by
// the identity of the pair. Outcomes depend on the affected record they were
// computed under, so a cache must be purged when that record changes.
type CompareCache interface {
	// Add records an outcome.
	Add(key, value interface{})
	// Get retrieves a previously recorded outcome.
	Get(key interface{}) (value interface{}, ok bool)
	// Purge forgets every outcome.
	Purge()
}

// NewCompareCache creates a new ARC-based comparison cache of the given size.
func NewCompareCache(size int) CompareCache {
	cache, err := lru.NewARC(size)
	if err != nil {
		panic(err)
	}
	return cache
}

type comparePair struct {
	prev, next *Snapshot
}

func cachedChange(cache CompareCache, prev, next *Snapshot) (changed, ok bool) {
	if cache == nil {
		return false, false
	}
	value, ok := cache.Get(comparePair{prev, next})
	if !ok {
		return false, false
	}
	return value.(bool), true
}

func cacheChange(cache CompareCache, prev, next *Snapshot, changed bool) {
	if cache != nil {
		cache.Add(comparePair{prev, next}, changed)
	}
}
