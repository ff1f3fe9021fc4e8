package rx

import (
	"slices"
	"sync"

	"github.com/samber/lo"
)

// latestCombiner remembers the newest value of each upstream and publishes a
// snapshot of all of them whenever one changes, once every upstream produced
// at least one value.
type latestCombiner[T any, E error] struct {
	mu        sync.Mutex
	down      *emitter[[]T, E]
	upstreams []Subscription
	latest    []T
	seen      []bool
	remaining int
	done      bool
}

func (c *latestCombiner[T, E]) stop(skip int) {
	c.mu.Lock()
	c.done = true
	ups := slices.Clone(c.upstreams)
	c.mu.Unlock()

	for i, s := range ups {
		if s != nil && i != skip {
			s.Cancel()
		}
	}
}

type latestInner[T any, E error] struct {
	c     *latestCombiner[T, E]
	index int
}

func (in latestInner[T, E]) ReceiveSubscription(s Subscription) {
	c := in.c
	c.mu.Lock()
	if c.done || c.upstreams[in.index] != nil {
		c.mu.Unlock()
		s.Cancel()
		return
	}
	c.upstreams[in.index] = s
	c.mu.Unlock()

	s.Request(Unlimited)
}

func (in latestInner[T, E]) Receive(v T) Demand {
	c := in.c
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return None
	}
	c.latest[in.index] = v
	c.seen[in.index] = true
	if lo.Contains(c.seen, false) {
		c.mu.Unlock()
		return None
	}
	drain := c.down.enqueue(slices.Clone(c.latest))
	c.mu.Unlock()

	if drain {
		c.down.drain()
	}
	return None
}

func (in latestInner[T, E]) ReceiveCompletion(cmp Completion[E]) {
	c := in.c
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	if cmp.IsFinished() {
		c.upstreams[in.index] = nil
		c.remaining--
		last := c.remaining == 0
		if last {
			c.done = true
		}
		c.mu.Unlock()
		if last {
			c.down.finish(cmp)
		}
		return
	}
	c.mu.Unlock()

	c.stop(in.index)
	c.down.abort(cmp)
}

// CombineLatestAll publishes the latest value of every upstream, in upstream
// order, each time any of them produces a value. Nothing is published before
// all upstreams produced a value. It finishes when all upstreams finished and
// fails on the first failure. While downstream has no demand only the newest
// combination is kept.
func CombineLatestAll[T any, E error](pubs ...Publisher[T, E]) Publisher[[]T, E] {
	return PublisherFunc[[]T, E](func(sub Subscriber[[]T, E]) {
		n := len(pubs)
		c := &latestCombiner[T, E]{
			upstreams: make([]Subscription, n),
			latest:    make([]T, n),
			seen:      make([]bool, n),
			remaining: n,
		}
		c.down = newEmitter(sub, overflowLatest)
		c.down.onCancel = func() { c.stop(-1) }
		if n == 0 {
			c.done = true
			c.down.done = &Completion[E]{}
		}
		c.down.start()

		for i, pub := range pubs {
			if c.down.isTerminated() {
				return
			}
			pub.Subscribe(latestInner[T, E]{c: c, index: i})
		}
	})
}

// CombineLatest combines the latest values of a and b with combiner whenever
// either of them produces a value.
func CombineLatest[A, B, R any, E error](a Publisher[A, E], b Publisher[B, E], combiner func(A, B) R) Publisher[R, E] {
	all := CombineLatestAll(
		Map(a, func(v A) any { return v }),
		Map(b, func(v B) any { return v }),
	)
	return Map(all, func(vs []any) R {
		// a nil interface value comes back as a nil any
		x, _ := vs[0].(A)
		y, _ := vs[1].(B)
		return combiner(x, y)
	})
}

// CombineLatest3 is CombineLatest over three upstreams.
func CombineLatest3[A, B, C, R any, E error](a Publisher[A, E], b Publisher[B, E], c Publisher[C, E], combiner func(A, B, C) R) Publisher[R, E] {
	all := CombineLatestAll(
		Map(a, func(v A) any { return v }),
		Map(b, func(v B) any { return v }),
		Map(c, func(v C) any { return v }),
	)
	return Map(all, func(vs []any) R {
		x, _ := vs[0].(A)
		y, _ := vs[1].(B)
		z, _ := vs[2].(C)
		return combiner(x, y, z)
	})
}
