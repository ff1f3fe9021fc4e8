package rx

import (
	"slices"
	"sync"
)

// merger fans several upstreams into one downstream emitter. Every downstream
// request is forwarded to each upstream; values beyond the downstream demand
// wait in the emitter queue in arrival order.
type merger[T any, E error] struct {
	mu        sync.Mutex
	down      *emitter[T, E]
	upstreams []Subscription
	requested Demand
	remaining int
	done      bool
}

func (m *merger[T, E]) request(d Demand) {
	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return
	}
	m.requested = m.requested.Add(d)
	ups := slices.Clone(m.upstreams)
	m.mu.Unlock()

	for _, s := range ups {
		if s != nil {
			s.Request(d)
		}
	}
}

// stop marks the merge done and cancels every upstream except skip.
func (m *merger[T, E]) stop(skip int) {
	m.mu.Lock()
	m.done = true
	ups := slices.Clone(m.upstreams)
	m.mu.Unlock()

	for i, s := range ups {
		if s != nil && i != skip {
			s.Cancel()
		}
	}
}

type mergeInner[T any, E error] struct {
	m     *merger[T, E]
	index int
}

func (in mergeInner[T, E]) ReceiveSubscription(s Subscription) {
	m := in.m
	m.mu.Lock()
	if m.done || m.upstreams[in.index] != nil {
		m.mu.Unlock()
		s.Cancel()
		return
	}
	m.upstreams[in.index] = s
	d := m.requested
	m.mu.Unlock()

	if d > None {
		s.Request(d)
	}
}

func (in mergeInner[T, E]) Receive(v T) Demand {
	m := in.m
	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return None
	}
	drain := m.down.enqueue(v)
	m.mu.Unlock()

	if drain {
		m.down.drain()
	}
	return None
}

func (in mergeInner[T, E]) ReceiveCompletion(c Completion[E]) {
	m := in.m
	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return
	}
	if c.IsFinished() {
		m.upstreams[in.index] = nil
		m.remaining--
		last := m.remaining == 0
		if last {
			m.done = true
		}
		m.mu.Unlock()
		if last {
			m.down.finish(c)
		}
		return
	}
	m.mu.Unlock()

	m.stop(in.index)
	m.down.abort(c)
}

// Merge publishes the values of all pubs as they arrive. It finishes once every
// upstream finished and fails as soon as one of them fails, cancelling the rest.
func Merge[T any, E error](pubs ...Publisher[T, E]) Publisher[T, E] {
	return PublisherFunc[T, E](func(sub Subscriber[T, E]) {
		m := &merger[T, E]{
			upstreams: make([]Subscription, len(pubs)),
			remaining: len(pubs),
		}
		m.down = newEmitter(sub, overflowBuffer)
		m.down.onRequest = m.request
		m.down.onCancel = func() { m.stop(-1) }
		if len(pubs) == 0 {
			m.done = true
			m.down.done = &Completion[E]{}
		}
		m.down.start()

		for i, pub := range pubs {
			if m.down.isTerminated() {
				return
			}
			pub.Subscribe(mergeInner[T, E]{m: m, index: i})
		}
	})
}
