package rx

import (
	"sync"
	"sync/atomic"
)

// reduceSubscriber drains its upstream with unlimited demand and publishes a
// single accumulated value once upstream finishes, or earlier when step asks
// to stop.
type reduceSubscriber[T, K any, E error] struct {
	mu       sync.Mutex
	upstream Subscription
	acc      K
	step     func(K, T) (K, bool)
	down     *emitter[K, E]
	stopped  atomic.Bool
}

func (r *reduceSubscriber[T, K, E]) ReceiveSubscription(s Subscription) {
	r.mu.Lock()
	if r.upstream != nil || r.stopped.Load() {
		r.mu.Unlock()
		s.Cancel()
		return
	}
	r.upstream = s
	r.mu.Unlock()

	s.Request(Unlimited)
}

func (r *reduceSubscriber[T, K, E]) Receive(v T) Demand {
	if r.stopped.Load() {
		return None
	}
	r.mu.Lock()
	acc, more := r.step(r.acc, v)
	r.acc = acc
	r.mu.Unlock()

	if !more && r.stopped.CompareAndSwap(false, true) {
		r.cancelUpstream()
		r.down.push(acc)
		r.down.finish(Finished[E]())
	}
	return None
}

func (r *reduceSubscriber[T, K, E]) ReceiveCompletion(c Completion[E]) {
	if !r.stopped.CompareAndSwap(false, true) {
		return
	}
	if !c.IsFinished() {
		r.down.abort(c)
		return
	}
	r.mu.Lock()
	acc := r.acc
	r.mu.Unlock()
	r.down.push(acc)
	r.down.finish(c)
}

func (r *reduceSubscriber[T, K, E]) cancelUpstream() {
	r.mu.Lock()
	s := r.upstream
	r.mu.Unlock()
	if s != nil {
		s.Cancel()
	}
}

func reduceWith[T, K any, E error](pub Publisher[T, E], initial K, step func(K, T) (K, bool)) Publisher[K, E] {
	return PublisherFunc[K, E](func(sub Subscriber[K, E]) {
		r := &reduceSubscriber[T, K, E]{
			acc:  initial,
			step: step,
		}
		r.down = newEmitter(sub, overflowBuffer)
		r.down.onCancel = func() {
			r.stopped.Store(true)
			r.cancelUpstream()
		}
		r.down.start()
		if r.down.isTerminated() {
			return
		}
		pub.Subscribe(r)
	})
}

// Reduce folds every value of pub into an accumulator and publishes the result
// when pub finishes.
func Reduce[T, K any, E error](pub Publisher[T, E], initial K, f func(K, T) K) Publisher[K, E] {
	return reduceWith(pub, initial, func(acc K, v T) (K, bool) {
		return f(acc, v), true
	})
}

// Count publishes the number of values pub produced once it finishes.
func Count[T any, E error](pub Publisher[T, E]) Publisher[int, E] {
	return Reduce(pub, 0, func(n int, _ T) int {
		return n + 1
	})
}

// AllSatisfy publishes true if every value of pub satisfies predicate. On the
// first value that does not, it cancels pub and publishes false.
func AllSatisfy[T any, E error](pub Publisher[T, E], predicate func(T) bool) Publisher[bool, E] {
	return reduceWith(pub, true, func(_ bool, v T) (bool, bool) {
		if predicate(v) {
			return true, true
		}
		return false, false
	})
}

// Collect publishes all values of pub as one slice when pub finishes.
func Collect[T any, E error](pub Publisher[T, E]) Publisher[[]T, E] {
	return Reduce(pub, []T{}, func(acc []T, v T) []T {
		return append(acc, v)
	})
}
