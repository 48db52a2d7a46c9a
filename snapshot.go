package valtio

import "sync"

// Snapshot is an immutable copy of a Proxy's fields at one version. Nested
// structured fields are *Snapshot values taken from the child proxies.
type Snapshot struct {
	fields  map[string]interface{}
	keys    []string
	version uint64

	digestOnce sync.Once
	digest     string
}

// Get returns the value of field, or nil if it is absent.
func (s *Snapshot) Get(field string) interface{} {
	return s.fields[field]
}

// Lookup returns the value of field and whether it is present.
func (s *Snapshot) Lookup(field string) (interface{}, bool) {
	value, ok := s.fields[field]
	return value, ok
}

// Has reports whether field is present.
func (s *Snapshot) Has(field string) bool {
	_, ok := s.fields[field]
	return ok
}

// Keys returns the field names in sorted order.
func (s *Snapshot) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Len returns the number of fields.
func (s *Snapshot) Len() int {
	return len(s.keys)
}

// Version returns the version of the Proxy this snapshot was taken from.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// ToMap returns a deep copy of the snapshot as plain maps.
func (s *Snapshot) ToMap() map[string]interface{} {
	m := make(map[string]interface{}, len(s.fields))
	for field, value := range s.fields {
		if child, ok := value.(*Snapshot); ok {
			m[field] = child.ToMap()
		} else {
			m[field] = value
		}
	}
	return m
}
