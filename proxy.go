package valtio

import (
	"fmt"
	"reflect"
	"sort"

	"go.uber.org/zap"
)

// Proxy is a mutable container of named fields whose every mutation, at any
// depth, bumps its version and notifies its listeners.
//
// Structured values (map[string]interface{}, *Proxy, *Snapshot) assigned to a
// field are copied into a new child Proxy owned by that field; the child
// notifies this Proxy when it changes. A nil map, *Proxy or *Snapshot becomes
// an empty child. Every other value is stored as-is.
//
// A Proxy is not safe for concurrent mutation.
type Proxy struct {
	fields     map[string]interface{}
	version    uint64
	listeners  *listenerSet
	invalidate *Listener
	snapshot   *Snapshot
	options    *Options
	logger     *zap.Logger
}

// New returns a Proxy at version 0 holding the fields of initial. A nil
// initial yields an empty Proxy.
//
// initial must not contain itself; a cyclic value panics with ErrCyclicValue.
func New(initial map[string]interface{}) *Proxy {
	return NewWithOptions(initial, nil)
}

// NewWithOptions is New with options that also apply to every child Proxy.
func NewWithOptions(initial map[string]interface{}, options *Options) *Proxy {
	ancestors := map[uintptr]struct{}{}
	if initial != nil {
		ancestors[reflect.ValueOf(initial).Pointer()] = struct{}{}
	}
	return newProxy(initial, options, nil, ancestors)
}

func newProxy(initial map[string]interface{}, options *Options, path Path, ancestors map[uintptr]struct{}) *Proxy {
	p := &Proxy{
		fields:    make(map[string]interface{}, len(initial)),
		listeners: newListenerSet(),
		options:   options,
		logger:    options.logger(),
	}
	p.invalidate = NewListener(p.bump)
	for field, value := range initial {
		p.assign(field, value, path.Child(field), ancestors)
	}
	return p
}

// Get returns the value of field, or nil if it is absent. Structured fields
// are returned as *Proxy.
func (p *Proxy) Get(field string) interface{} {
	return p.fields[field]
}

// Lookup returns the value of field and whether it is present.
func (p *Proxy) Lookup(field string) (interface{}, bool) {
	value, ok := p.fields[field]
	return value, ok
}

// Has reports whether field is present.
func (p *Proxy) Has(field string) bool {
	_, ok := p.fields[field]
	return ok
}

// Child returns the Proxy held by field, or nil if field is absent or holds a
// scalar.
func (p *Proxy) Child(field string) *Proxy {
	child, _ := p.fields[field].(*Proxy)
	return child
}

// Keys returns the field names in sorted order.
func (p *Proxy) Keys() []string {
	keys := make([]string, 0, len(p.fields))
	for field := range p.fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of fields.
func (p *Proxy) Len() int {
	return len(p.fields)
}

// Version returns the number of mutations made to this Proxy and its
// descendants since it was created.
func (p *Proxy) Version() uint64 {
	return p.version
}

// Set stores value in field, then bumps the version and notifies listeners.
func (p *Proxy) Set(field string, value interface{}) {
	ancestors := map[uintptr]struct{}{}
	p.assign(field, value, Path{field}, ancestors)
	p.bump()
}

// Delete removes field, then bumps the version and notifies listeners. The
// version is bumped even if field was absent.
func (p *Proxy) Delete(field string) {
	p.detach(field)
	delete(p.fields, field)
	p.bump()
}

// AddListener registers l to be notified after every mutation.
func (p *Proxy) AddListener(l *Listener) {
	p.listeners.add(l)
}

// RemoveListener unregisters l. Mutations that start afterwards do not
// notify l.
func (p *Proxy) RemoveListener(l *Listener) {
	p.listeners.remove(l)
}

// Subscribe registers f and returns a function that unregisters it.
func (p *Proxy) Subscribe(f func()) func() {
	l := NewListener(f)
	p.AddListener(l)
	return func() {
		p.RemoveListener(l)
	}
}

// Snapshot returns an immutable copy of the current fields, with child
// proxies replaced by their own snapshots. Calls between two mutations return
// the same *Snapshot, and unchanged children are shared between successive
// snapshots.
func (p *Proxy) Snapshot() *Snapshot {
	if p.snapshot != nil && p.snapshot.version == p.version {
		return p.snapshot
	}
	s := &Snapshot{
		fields:  make(map[string]interface{}, len(p.fields)),
		keys:    p.Keys(),
		version: p.version,
	}
	for field, value := range p.fields {
		if child, ok := value.(*Proxy); ok {
			s.fields[field] = child.Snapshot()
		} else {
			s.fields[field] = value
		}
	}
	p.snapshot = s
	if ce := p.logger.Check(zap.DebugLevel, "built snapshot"); ce != nil {
		ce.Write(zap.Uint64("version", p.version), zap.Int("fields", len(s.keys)))
	}
	return s
}

func (p *Proxy) assign(field string, value interface{}, path Path, ancestors map[uintptr]struct{}) {
	child := p.wrap(value, path, ancestors)
	p.detach(field)
	if child == nil {
		p.fields[field] = value
		return
	}
	child.AddListener(p.invalidate)
	p.fields[field] = child
}

// detach stops the child held by field, if any, from notifying p.
func (p *Proxy) detach(field string) {
	if old, ok := p.fields[field].(*Proxy); ok {
		old.RemoveListener(p.invalidate)
	}
}

// wrap returns a new child Proxy for a structured value, or nil for a scalar.
func (p *Proxy) wrap(value interface{}, path Path, ancestors map[uintptr]struct{}) *Proxy {
	switch v := value.(type) {
	case map[string]interface{}:
		if v == nil {
			return newProxy(nil, p.options, path, ancestors)
		}
		ptr := reflect.ValueOf(v).Pointer()
		if _, ok := ancestors[ptr]; ok {
			panic(fmt.Errorf("wrap %s: %w", path, ErrCyclicValue))
		}
		ancestors[ptr] = struct{}{}
		defer delete(ancestors, ptr)
		return newProxy(v, p.options, path, ancestors)
	case *Proxy:
		if v == nil {
			return newProxy(nil, p.options, path, ancestors)
		}
		return newProxy(v.fields, p.options, path, ancestors)
	case *Snapshot:
		if v == nil {
			return newProxy(nil, p.options, path, ancestors)
		}
		return newProxy(v.fields, p.options, path, ancestors)
	}
	return nil
}

func (p *Proxy) bump() {
	p.version++
	if ce := p.logger.Check(zap.DebugLevel, "bumped version"); ce != nil {
		ce.Write(zap.Uint64("version", p.version), zap.Int("listeners", p.listeners.len()))
	}
	p.listeners.fanOut()
}
