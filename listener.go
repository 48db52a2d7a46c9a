package valtio

import "container/list"

// Listener is a registration handle for a zero-argument callback. Two
// registrations of the same *Listener are one registration.
type Listener struct {
	f func()
}

// NewListener wraps f so it can be added to and removed from a Proxy.
func NewListener(f func()) *Listener {
	return &Listener{f: f}
}

// Notify invokes the callback.
func (l *Listener) Notify() {
	l.f()
}

type listenerSet struct {
	order *list.List
	index map[*Listener]*list.Element
}

func newListenerSet() *listenerSet {
	return &listenerSet{
		order: list.New(),
		index: map[*Listener]*list.Element{},
	}
}

func (s *listenerSet) add(l *Listener) {
	if _, ok := s.index[l]; ok {
		return
	}
	s.index[l] = s.order.PushBack(l)
}

func (s *listenerSet) remove(l *Listener) {
	e, ok := s.index[l]
	if !ok {
		return
	}
	s.order.Remove(e)
	delete(s.index, l)
}

func (s *listenerSet) len() int {
	return len(s.index)
}

// fanOut invokes every listener registered when it starts, once each, in
// insertion order. Listeners added or removed by a callback take effect for
// the next fan-out.
func (s *listenerSet) fanOut() {
	if s.order.Len() == 0 {
		return
	}
	present := make([]*Listener, 0, s.order.Len())
	for e := s.order.Front(); e != nil; e = e.Next() {
		present = append(present, e.Value.(*Listener))
	}
	for _, l := range present {
		l.Notify()
	}
}
