package valtio

import (
	"errors"

	"go.uber.org/zap"
)

// DefaultCompareCacheSize is how many (previous, next) snapshot comparisons a
// Consumer remembers within one comparison window.
const DefaultCompareCacheSize = 256

// ErrCyclicValue is the panic cause when a structured value contains itself.
var ErrCyclicValue = errors.New("cyclic structured value")

// Options controls a Proxy and every child proxy created beneath it.
type Options struct {
	// Logger receives debug events for version bumps and snapshot builds. nil means no logging.
	Logger *zap.Logger
}

// ConsumerOptions controls a Consumer.
type ConsumerOptions struct {
	// CompareCacheSize bounds the comparison cache. 0 means DefaultCompareCacheSize.
	CompareCacheSize int

	// CompareCache overrides the cache built from CompareCacheSize.
	CompareCache CompareCache

	// Logger receives debug events for memo hits and misses. nil means no logging.
	Logger *zap.Logger
}

func (o *Options) logger() *zap.Logger {
	if o == nil || o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o *ConsumerOptions) logger() *zap.Logger {
	if o == nil || o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o *ConsumerOptions) compareCache() CompareCache {
	if o != nil && o.CompareCache != nil {
		return o.CompareCache
	}
	size := DefaultCompareCacheSize
	if o != nil && o.CompareCacheSize > 0 {
		size = o.CompareCacheSize
	}
	return NewCompareCache(size)
}
