package valtio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackRecordsReads(t *testing.T) {
	t.Parallel()
	p := New(map[string]interface{}{
		"a":      1,
		"b":      2,
		"nested": map[string]interface{}{"x": 1, "y": 2},
	})
	s := p.Snapshot()
	affected := NewAffected()
	require.True(t, affected.Empty())
	v := Track(s, affected)
	require.Same(t, v, Track(s, affected))

	require.Equal(t, 1, v.Get("a"))
	nested := v.Child("nested")
	require.NotNil(t, nested)
	require.Same(t, nested, v.Get("nested"))
	require.Equal(t, 2, nested.Get("y"))
	require.False(t, v.Has("missing"))

	var paths []string
	for _, path := range affected.Paths(s) {
		paths = append(paths, path.String())
	}
	require.Equal(t, []string{"$.a", "$.missing", "$.nested", "$.nested.y"}, paths)

	affected.Clear()
	require.True(t, affected.Empty())
	require.Empty(t, affected.Paths(s))
}

func TestIsChangedOnlyReadPaths(t *testing.T) {
	t.Parallel()
	p := New(map[string]interface{}{
		"a":      1,
		"b":      2,
		"nested": map[string]interface{}{"x": 1, "y": 2},
	})
	prev := p.Snapshot()
	affected := NewAffected()
	v := Track(prev, affected)
	v.Get("a")
	v.Child("nested").Get("x")

	p.Set("b", 3)
	p.Child("nested").Set("y", 3)
	require.False(t, IsChanged(prev, p.Snapshot(), affected, nil))

	p.Child("nested").Set("x", 5)
	require.True(t, IsChanged(prev, p.Snapshot(), affected, nil))
	p.Child("nested").Set("x", 1)
	require.False(t, IsChanged(prev, p.Snapshot(), affected, nil))

	p.Set("a", 7)
	require.True(t, IsChanged(prev, p.Snapshot(), affected, nil))
}

func TestIsChangedNothingRead(t *testing.T) {
	t.Parallel()
	p := newTestProxy()
	prev := p.Snapshot()
	p.Set("count", 100)
	require.False(t, IsChanged(prev, p.Snapshot(), NewAffected(), nil))
	require.False(t, IsChanged(prev, prev, NewAffected(), nil))
}

func TestIsChangedPresence(t *testing.T) {
	t.Parallel()
	p := New(map[string]interface{}{"a": 1})
	prev := p.Snapshot()
	affected := NewAffected()
	v := Track(prev, affected)
	require.False(t, v.Has("b"))

	p.Set("c", 1)
	require.False(t, IsChanged(prev, p.Snapshot(), affected, nil))
	p.Set("b", nil)
	require.True(t, IsChanged(prev, p.Snapshot(), affected, nil), "field appeared, even with a nil value")
}

func TestIsChangedKeys(t *testing.T) {
	t.Parallel()
	p := New(map[string]interface{}{"a": 1})
	prev := p.Snapshot()
	affected := NewAffected()
	v := Track(prev, affected)
	require.Equal(t, 1, v.Len())

	p.Set("a", 2)
	require.False(t, IsChanged(prev, p.Snapshot(), affected, nil), "values are not read by Len")
	p.Set("b", 1)
	require.True(t, IsChanged(prev, p.Snapshot(), affected, nil))
}

func TestIsChangedUntracked(t *testing.T) {
	t.Parallel()
	p := newTestProxy()
	prev := p.Snapshot()
	affected := NewAffected()
	v := Track(prev, affected)
	require.Same(t, prev.Get("nested"), v.Child("nested").Untracked())

	p.Set("count", 1)
	require.False(t, IsChanged(prev, p.Snapshot(), affected, nil))
	p.Child("nested").Set("x", 1)
	require.False(t, IsChanged(prev, p.Snapshot(), affected, nil), "same content")
	p.Child("nested").Set("extra", true)
	require.True(t, IsChanged(prev, p.Snapshot(), affected, nil))
}

type opaque struct{ n int }

func TestIsChangedUntrackedUnexportedFields(t *testing.T) {
	t.Parallel()
	p := New(map[string]interface{}{"v": opaque{1}})
	prev := p.Snapshot()
	affected := NewAffected()
	Track(prev, affected).Untracked()

	p.Set("v", opaque{1})
	require.False(t, IsChanged(prev, p.Snapshot(), affected, nil))
	p.Set("v", opaque{2})
	require.True(t, IsChanged(prev, p.Snapshot(), affected, nil))
}

func TestIsChangedUntrackedNaN(t *testing.T) {
	t.Parallel()
	p := New(map[string]interface{}{"f": math.NaN()})
	prev := p.Snapshot()
	affected := NewAffected()
	Track(prev, affected).Untracked()
	p.Set("f", math.NaN())
	require.True(t, IsChanged(prev, p.Snapshot(), affected, nil), "NaN never equals itself")
}

func TestPathsListedOnce(t *testing.T) {
	t.Parallel()
	p := newTestProxy()
	s := p.Snapshot()
	affected := NewAffected()
	v := Track(s, affected)
	nested := v.Child("nested")
	nested.Keys()
	nested.Untracked()
	require.Equal(t, []Path{{"nested"}}, affected.Paths(s))
}

func TestIsChangedScalars(t *testing.T) {
	t.Parallel()
	affected := NewAffected()
	require.False(t, IsChanged(1, 1, affected, nil))
	require.True(t, IsChanged(1, 2, affected, nil))
	require.True(t, IsChanged(1, "1", affected, nil))
	require.False(t, IsChanged([]int{1, 2}, []int{1, 2}, affected, nil))
	require.True(t, IsChanged(New(nil).Snapshot(), 1, affected, nil))
	require.True(t, IsChanged(nil, New(nil).Snapshot(), affected, nil))
}

func TestIsChangedUsesCache(t *testing.T) {
	t.Parallel()
	p := New(map[string]interface{}{"a": 1})
	prev := p.Snapshot()
	affected := NewAffected()
	Track(prev, affected).Get("a")
	p.Set("a", 2)
	next := p.Snapshot()

	cache := NewCompareCache(8)
	cache.Add(comparePair{prev, next}, false)
	require.False(t, IsChanged(prev, next, affected, cache), "answer comes from the cache")

	cache.Purge()
	require.True(t, IsChanged(prev, next, affected, cache))
	changed, ok := cachedChange(cache, prev, next)
	require.True(t, ok)
	require.True(t, changed)
}
