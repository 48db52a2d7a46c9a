package valtio

import "go.uber.org/zap"

// Consumer hands snapshots of a Source to one reader and keeps handing back
// the same snapshot for as long as nothing the reader looked at has changed.
//
// A consuming cycle is Resolve, any number of reads through the returned
// View, then Commit. The reads recorded between Resolve and Commit decide
// what the next Resolve compares.
type Consumer struct {
	source    Source
	prev      *Snapshot
	committed *Affected
	pending   *Affected
	cache     CompareCache
	logger    *zap.Logger
}

// Bind returns a Consumer observing source.
func Bind(source Source, options *ConsumerOptions) *Consumer {
	return &Consumer{
		source: source,
		cache:  options.compareCache(),
		logger: options.logger(),
	}
}

// Snapshot returns the source's current snapshot, unless every field the
// reader read during the last committed cycle is unchanged since the
// previously returned snapshot, in which case that previous snapshot is
// returned again.
func (c *Consumer) Snapshot() *Snapshot {
	candidate := c.source.Snapshot()
	if c.prev != nil && c.committed != nil &&
		!IsChanged(c.prev, candidate, c.committed, c.cache) {
		if ce := c.logger.Check(zap.DebugLevel, "kept previous snapshot"); ce != nil {
			ce.Write(zap.Uint64("version", c.prev.version), zap.Uint64("candidate", candidate.version))
		}
		return c.prev
	}
	if ce := c.logger.Check(zap.DebugLevel, "took new snapshot"); ce != nil {
		ce.Write(zap.Uint64("version", candidate.version))
	}
	c.prev = candidate
	return candidate
}

// Resolve starts a consuming cycle: it returns Snapshot() wrapped in a View
// that records reads into a fresh Affected record. Calling Resolve again
// before Commit abandons the earlier cycle; its reads are never committed.
func (c *Consumer) Resolve() *View {
	c.pending = NewAffected()
	return Track(c.Snapshot(), c.pending)
}

// Commit ends the consuming cycle started by the last Resolve. Its recorded
// reads become the ones the next Resolve compares.
func (c *Consumer) Commit() {
	if c.pending == nil {
		return
	}
	if c.committed != nil {
		c.committed.Clear()
	}
	c.committed = c.pending
	c.pending = nil
	c.cache.Purge()
}

// Affected returns the reads recorded by the last committed cycle, or nil.
func (c *Consumer) Affected() *Affected {
	return c.committed
}

// Version returns the source's version.
func (c *Consumer) Version() uint64 {
	return c.source.Version()
}

// Subscribe registers f with the source and returns its unsubscribe function.
func (c *Consumer) Subscribe(f func()) func() {
	return c.source.Subscribe(f)
}
