package valtio

import (
	"reflect"
	"sort"
)

type usage struct {
	keys    map[string]struct{}
	ownKeys bool
	whole   bool
}

// Affected records which parts of which snapshots were read through Views
// during one consuming cycle. Entries are keyed by snapshot identity.
type Affected struct {
	used  map[*Snapshot]*usage
	views map[*Snapshot]*View
}

// NewAffected returns an empty record.
func NewAffected() *Affected {
	return &Affected{
		used:  map[*Snapshot]*usage{},
		views: map[*Snapshot]*View{},
	}
}

// Clear forgets everything recorded, including cached Views.
func (a *Affected) Clear() {
	a.used = map[*Snapshot]*usage{}
	a.views = map[*Snapshot]*View{}
}

// Empty reports whether nothing has been recorded.
func (a *Affected) Empty() bool {
	return len(a.used) == 0
}

// Paths returns the recorded field paths reachable from root, sorted by
// their string form, each listed once. A snapshot whose keys were enumerated
// or that was used whole contributes its own path.
func (a *Affected) Paths(root *Snapshot) []Path {
	var paths []Path
	seen := map[string]struct{}{}
	add := func(path Path) {
		if _, ok := seen[path.String()]; ok {
			return
		}
		seen[path.String()] = struct{}{}
		paths = append(paths, path)
	}
	type item struct {
		path Path
		snap *Snapshot
	}
	stack := []item{{nil, root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		u := a.used[it.snap]
		if u == nil {
			continue
		}
		if u.whole || u.ownKeys {
			add(it.path)
		}
		for key := range u.keys {
			childPath := it.path.Child(key)
			add(childPath)
			if child, ok := it.snap.fields[key].(*Snapshot); ok {
				stack = append(stack, item{childPath, child})
			}
		}
	}
	sort.Slice(paths, func(i, j int) bool {
		return paths[i].String() < paths[j].String()
	})
	return paths
}

func (a *Affected) usageOf(s *Snapshot) *usage {
	u, ok := a.used[s]
	if !ok {
		u = &usage{keys: map[string]struct{}{}}
		a.used[s] = u
	}
	return u
}

func (a *Affected) recordKey(s *Snapshot, key string) {
	a.usageOf(s).keys[key] = struct{}{}
}

// View is a read-only window onto a Snapshot that records every access in an
// Affected record.
type View struct {
	snap     *Snapshot
	affected *Affected
}

// Track wraps s so that reads through the returned View are recorded in
// affected. Tracking the same snapshot twice with one record returns the same
// View.
func Track(s *Snapshot, affected *Affected) *View {
	if v, ok := affected.views[s]; ok {
		return v
	}
	v := &View{snap: s, affected: affected}
	affected.views[s] = v
	return v
}

// Get returns the value of field, recording the read. Nested snapshots are
// returned as *View.
func (v *View) Get(field string) interface{} {
	value, _ := v.Lookup(field)
	return value
}

// Lookup returns the value of field and whether it is present, recording the
// read.
func (v *View) Lookup(field string) (interface{}, bool) {
	v.affected.recordKey(v.snap, field)
	value, ok := v.snap.fields[field]
	if child, isSnap := value.(*Snapshot); isSnap {
		return Track(child, v.affected), ok
	}
	return value, ok
}

// Child returns the View of the nested snapshot held by field, or nil.
func (v *View) Child(field string) *View {
	child, _ := v.Get(field).(*View)
	return child
}

// Has reports whether field is present, recording the read.
func (v *View) Has(field string) bool {
	v.affected.recordKey(v.snap, field)
	_, ok := v.snap.fields[field]
	return ok
}

// Keys returns the sorted field names, recording that the key set was read.
func (v *View) Keys() []string {
	v.affected.usageOf(v.snap).ownKeys = true
	return v.snap.Keys()
}

// Len returns the number of fields, recording that the key set was read.
func (v *View) Len() int {
	v.affected.usageOf(v.snap).ownKeys = true
	return v.snap.Len()
}

// Untracked returns the underlying snapshot. The whole snapshot counts as
// read from then on.
func (v *View) Untracked() *Snapshot {
	v.affected.usageOf(v.snap).whole = true
	return v.snap
}

// IsChanged reports whether next differs from prev in any part of prev that
// affected records as read. Parts never read count as unchanged. Outcomes for
// snapshot pairs are remembered in cache, which may be nil.
func IsChanged(prev, next interface{}, affected *Affected, cache CompareCache) bool {
	prevSnap, prevOK := prev.(*Snapshot)
	nextSnap, nextOK := next.(*Snapshot)
	if !prevOK || !nextOK {
		if prevOK != nextOK {
			return true
		}
		return !reflect.DeepEqual(prev, next)
	}
	if prevSnap == nextSnap {
		return false
	}
	u := affected.used[prevSnap]
	if u == nil {
		return false
	}
	if changed, ok := cachedChange(cache, prevSnap, nextSnap); ok {
		return changed
	}
	changed := u.changed(prevSnap, nextSnap, affected, cache)
	cacheChange(cache, prevSnap, nextSnap, changed)
	return changed
}

func (u *usage) changed(prev, next *Snapshot, affected *Affected, cache CompareCache) bool {
	if u.whole {
		return !sameContent(prev, next)
	}
	if u.ownKeys && !equalKeys(prev.keys, next.keys) {
		return true
	}
	for key := range u.keys {
		prevValue, prevOK := prev.fields[key]
		nextValue, nextOK := next.fields[key]
		if prevOK != nextOK {
			return true
		}
		if IsChanged(prevValue, nextValue, affected, cache) {
			return true
		}
	}
	return false
}

// sameContent reports whether a and b hold equal fields at every depth.
// Shared child snapshots are equal by identity; scalars compare with deep
// equality.
func sameContent(a, b *Snapshot) bool {
	if a == b {
		return true
	}
	if !equalKeys(a.keys, b.keys) {
		return false
	}
	for _, key := range a.keys {
		aValue, bValue := a.fields[key], b.fields[key]
		aSnap, aIsSnap := aValue.(*Snapshot)
		bSnap, bIsSnap := bValue.(*Snapshot)
		if aIsSnap != bIsSnap {
			return false
		}
		if aIsSnap {
			if !sameContent(aSnap, bSnap) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(aValue, bValue) {
			return false
		}
	}
	return true
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
