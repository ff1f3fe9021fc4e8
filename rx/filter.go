package rx

import "sync/atomic"

type filterSubscriber[T any, E error] struct {
	downstream Subscriber[T, E]
	predicate  func(T) bool
}

func (f *filterSubscriber[T, E]) ReceiveSubscription(s Subscription) {
	f.downstream.ReceiveSubscription(s)
}

// Receive asks upstream for a replacement of every dropped value, so the
// demand downstream sees does not shrink by filtering.
func (f *filterSubscriber[T, E]) Receive(v T) Demand {
	if f.predicate(v) {
		return f.downstream.Receive(v)
	}
	return Max(1)
}

func (f *filterSubscriber[T, E]) ReceiveCompletion(c Completion[E]) {
	f.downstream.ReceiveCompletion(c)
}

// Filter passes on the values that satisfy predicate.
func Filter[T any, E error](pub Publisher[T, E], predicate func(T) bool) Publisher[T, E] {
	return PublisherFunc[T, E](func(sub Subscriber[T, E]) {
		pub.Subscribe(&filterSubscriber[T, E]{
			downstream: sub,
			predicate:  predicate,
		})
	})
}

// DropFirst skips the first n values.
func DropFirst[T any, E error](pub Publisher[T, E], n int) Publisher[T, E] {
	return PublisherFunc[T, E](func(sub Subscriber[T, E]) {
		var seen atomic.Int64
		pub.Subscribe(&filterSubscriber[T, E]{
			downstream: sub,
			predicate: func(T) bool {
				return seen.Add(1) > int64(n)
			},
		})
	})
}

type prefixSubscriber[T any, E error] struct {
	downstream Subscriber[T, E]
	upstream   Subscription
	remaining  int
	done       atomic.Bool
}

func (p *prefixSubscriber[T, E]) ReceiveSubscription(s Subscription) {
	p.upstream = s
	p.downstream.ReceiveSubscription(s)
	if p.remaining <= 0 && p.done.CompareAndSwap(false, true) {
		s.Cancel()
		p.downstream.ReceiveCompletion(Finished[E]())
	}
}

func (p *prefixSubscriber[T, E]) Receive(v T) Demand {
	if p.done.Load() {
		return None
	}
	p.remaining--
	more := p.downstream.Receive(v)
	if p.remaining <= 0 && p.done.CompareAndSwap(false, true) {
		p.upstream.Cancel()
		p.downstream.ReceiveCompletion(Finished[E]())
		return None
	}
	return more
}

func (p *prefixSubscriber[T, E]) ReceiveCompletion(c Completion[E]) {
	if p.done.CompareAndSwap(false, true) {
		p.downstream.ReceiveCompletion(c)
	}
}

// Prefix publishes at most the first n values, then finishes and cancels pub.
func Prefix[T any, E error](pub Publisher[T, E], n int) Publisher[T, E] {
	return PublisherFunc[T, E](func(sub Subscriber[T, E]) {
		pub.Subscribe(&prefixSubscriber[T, E]{
			downstream: sub,
			remaining:  n,
		})
	})
}
