package valtio

// Source is what a Consumer needs from the thing it observes: a version that
// changes with every mutation, the snapshot for the current version, and a
// way to hear about mutations. *Proxy is a Source.
type Source interface {
	// Version returns a number that changes whenever Snapshot would return a different value.
	Version() uint64
	// Snapshot returns the immutable value for the current version.
	Snapshot() *Snapshot
	// Subscribe registers a callback invoked after every mutation and returns its unsubscribe function.
	Subscribe(func()) func()
}

var _ Source = (*Proxy)(nil)
