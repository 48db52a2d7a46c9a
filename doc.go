/*
Package valtio provides a deeply reactive, mutable state container whose
current state can be taken as an immutable, structurally shared snapshot,
and a consumer that only reports a new snapshot when the parts of the old one
that were actually read have changed.

Uses

- Application state that many readers observe but few readers care about in
full

- Cheap "has anything I looked at changed?" checks between versions

- Versioned, diffable views of nested map-shaped data


Proxies

A Proxy wraps a map[string]interface{}. Nested maps become child proxies, so
that

	p := valtio.New(map[string]interface{}{"count": 0, "nested": map[string]interface{}{"x": 1}})
	p.Child("nested").Set("x", 2)

bumps the version of both the nested proxy and p, and notifies listeners of
both. Assigning a structured value always copies it into a new child proxy;
a proxy is owned by exactly one field. Overwriting or deleting a field
detaches the old child, which stops notifying its former parent.

Snapshots

Proxy.Snapshot returns the same *Snapshot until the next mutation. Children
that did not change contribute the same *Snapshot to successive parent
snapshots, which is what lets comparisons skip unchanged subtrees by pointer
identity. Snapshots can be diffed with DiffIter and fingerprinted with Digest.

Consumers

A Consumer is bound to a Source (usually a *Proxy) on behalf of one reader.
Each cycle, Resolve returns a View that records which fields the reader
reads; Commit makes those reads the ones the next Resolve compares. If none of
them changed, Resolve returns a View of the very same snapshot as before, even
if other fields changed in the meantime. Those other changes show up once a
committed cycle has read them.

	c := valtio.Bind(p, nil)
	v := c.Resolve()
	_ = v.Get("count")
	c.Commit()

Concurrency

Mutation and consumption happen on one goroutine. Listeners run synchronously
inside Set and Delete, and may themselves mutate; such nested mutations run
their own notification round before the outer one continues.

Inspiration

https://github.com/pmndrs/valtio and https://github.com/dai-shi/proxy-compare,
which pair mutable proxies with immutable snapshots and usage-tracked
comparison.
*/
package valtio
