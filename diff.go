package valtio

import (
	"fmt"
	"reflect"
)

type diffItem struct {
	path      Path
	old, new  interface{}
	oldExists bool
	newExists bool
}

// DiffIter invokes the given callback for every field that differs between
// oldSnapshot and s. The iteration will stop if the callback returns
// keepGoing==false or an error. Callback invocation with
// added==removed==false signifies fields whose values have changed.
//
// Subtrees that are the same *Snapshot in both are skipped without being
// visited, so diffing successive snapshots of one Proxy costs time
// proportional to what changed. A field that changes between a nested
// snapshot and a scalar is reported as changed, without descending.
func (s *Snapshot) DiffIter(
	oldSnapshot *Snapshot,
	f func(added, removed bool, path Path, addedValue, removedValue interface{}) (bool, error),
) error {
	stack := diffStack{}
	stack.push(&diffItem{
		old:       oldSnapshot,
		new:       s,
		oldExists: oldSnapshot != nil,
		newExists: true,
	})
	for {
		item := stack.pop()
		if item == nil {
			return nil
		}
		if !item.oldExists {
			keepGoing, err := f(true, false, item.path, item.new, nil)
			if err != nil {
				return fmt.Errorf("callback: %w", err)
			}
			if !keepGoing {
				return nil
			}
			continue
		}
		if !item.newExists {
			keepGoing, err := f(false, true, item.path, nil, item.old)
			if err != nil {
				return fmt.Errorf("callback: %w", err)
			}
			if !keepGoing {
				return nil
			}
			continue
		}
		oldSnap, oldIsSnap := item.old.(*Snapshot)
		newSnap, newIsSnap := item.new.(*Snapshot)
		if oldIsSnap && newIsSnap {
			if oldSnap != newSnap {
				stack.pushFields(item.path, oldSnap, newSnap)
			}
			continue
		}
		if oldIsSnap == newIsSnap && reflect.DeepEqual(item.old, item.new) {
			continue
		}
		keepGoing, err := f(false, false, item.path, item.new, item.old)
		if err != nil {
			return fmt.Errorf("callback: %w", err)
		}
		if !keepGoing {
			return nil
		}
	}
}

type diffStack struct {
	things []diffItem
}

func (stack *diffStack) pop() *diffItem {
	if len(stack.things) > 0 {
		popped := stack.things[len(stack.things)-1]
		stack.things = stack.things[0 : len(stack.things)-1]
		return &popped
	}
	return nil
}

func (stack *diffStack) push(item *diffItem) {
	stack.things = append(stack.things, *item)
}

// pushFields pushes one item per field of either snapshot, so that they pop
// in sorted key order.
func (stack *diffStack) pushFields(path Path, oldSnap, newSnap *Snapshot) {
	keys := mergeKeys(oldSnap.keys, newSnap.keys)
	for i := len(keys) - 1; i >= 0; i-- {
		key := keys[i]
		oldValue, oldExists := oldSnap.fields[key]
		newValue, newExists := newSnap.fields[key]
		stack.push(&diffItem{
			path:      path.Child(key),
			old:       oldValue,
			new:       newValue,
			oldExists: oldExists,
			newExists: newExists,
		})
	}
}

// mergeKeys returns the sorted union of two sorted key lists.
func mergeKeys(a, b []string) []string {
	merged := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			merged = append(merged, a[i])
			i++
		case a[i] > b[j]:
			merged = append(merged, b[j])
			j++
		default:
			merged = append(merged, a[i])
			i++
			j++
		}
	}
	merged = append(merged, a[i:]...)
	return append(merged, b[j:]...)
}
