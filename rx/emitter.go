package rx

import "sync"

// overflow decides what an emitter does with a value pushed while the
// subscriber has no outstanding demand for it.
type overflow int

const (
	// overflowBuffer keeps every value until it is demanded.
	overflowBuffer overflow = iota
	// overflowDrop discards the value.
	overflowDrop
	// overflowLatest keeps only the newest undelivered value.
	overflowLatest
)

// iterator is a lazy value source consulted when the queue is empty.
type iterator[T any] interface {
	Next() (T, bool)
	Done() bool
}

// emitter is the demand-gated conduit between one producer and one
// subscriber. Producers push values and a completion; the emitter hands them
// to the subscriber only while demand is outstanding, never concurrently and
// never after Cancel.
//
// Nothing is delivered before start, which runs after ReceiveSubscription
// returned.
type emitter[T any, E error] struct {
	mu sync.Mutex

	sub    Subscriber[T, E]
	policy overflow

	demand Demand
	queue  []T
	src    iterator[T]
	done   *Completion[E]

	started    bool
	draining   bool
	terminated bool
	cancelled  bool

	onRequest func(Demand)
	onCancel  func()
}

func newEmitter[T any, E error](sub Subscriber[T, E], policy overflow) *emitter[T, E] {
	return &emitter[T, E]{
		sub:    sub,
		policy: policy,
	}
}

// start hands the emitter to its subscriber and begins delivery.
func (e *emitter[T, E]) start() {
	e.sub.ReceiveSubscription(e)
	e.mu.Lock()
	e.started = true
	e.mu.Unlock()
	e.drain()
}

func (e *emitter[T, E]) Request(d Demand) {
	if d == None {
		return
	}
	e.mu.Lock()
	if e.terminated {
		e.mu.Unlock()
		return
	}
	e.demand = e.demand.Add(d)
	hook := e.onRequest
	e.mu.Unlock()

	if hook != nil {
		hook(d)
	}
	e.drain()
}

func (e *emitter[T, E]) Cancel() {
	e.mu.Lock()
	if e.terminated {
		e.mu.Unlock()
		return
	}
	e.terminated = true
	e.cancelled = true
	e.queue = nil
	e.src = nil
	hook := e.onCancel
	e.onCancel = nil
	e.onRequest = nil
	e.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (e *emitter[T, E]) push(v T) {
	if e.enqueue(v) {
		e.drain()
	}
}

// enqueue queues v without delivering it, so that callers can fix the order of
// values under their own lock and drain after releasing it. It reports
// whether a drain is needed.
func (e *emitter[T, E]) enqueue(v T) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.terminated || e.done != nil {
		return false
	}
	if e.policy != overflowBuffer && e.demand != Unlimited && Demand(len(e.queue)) >= e.demand {
		if e.policy == overflowDrop {
			return false
		}
		if n := len(e.queue); n > 0 {
			e.queue[n-1] = v
			return true
		}
	}
	e.queue = append(e.queue, v)
	return true
}

// finish delivers c once every pending value has been delivered.
func (e *emitter[T, E]) finish(c Completion[E]) {
	e.mu.Lock()
	if e.terminated || e.done != nil {
		e.mu.Unlock()
		return
	}
	e.done = &c
	e.mu.Unlock()
	e.drain()
}

// abort discards pending values and delivers c right away.
func (e *emitter[T, E]) abort(c Completion[E]) {
	e.mu.Lock()
	if e.terminated {
		e.mu.Unlock()
		return
	}
	e.queue = nil
	e.src = nil
	e.done = &c
	e.mu.Unlock()
	e.drain()
}

func (e *emitter[T, E]) isTerminated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.terminated
}

func (e *emitter[T, E]) pending() bool {
	return len(e.queue) > 0 || (e.src != nil && !e.src.Done())
}

// next must be called with mu held.
func (e *emitter[T, E]) next() (T, bool) {
	if len(e.queue) > 0 {
		v := e.queue[0]
		var zero T
		e.queue[0] = zero
		e.queue = e.queue[1:]
		return v, true
	}
	if e.src != nil {
		return e.src.Next()
	}
	var zero T
	return zero, false
}

func (e *emitter[T, E]) drain() {
	e.mu.Lock()
	if e.draining || !e.started {
		e.mu.Unlock()
		return
	}
	e.draining = true

	for !e.terminated {
		if e.demand > None {
			if v, ok := e.next(); ok {
				e.demand = e.demand.Sub(1)
				e.mu.Unlock()
				more := e.sub.Receive(v)
				e.mu.Lock()
				if !e.terminated && more > None {
					e.demand = e.demand.Add(more)
					if hook := e.onRequest; hook != nil {
						e.mu.Unlock()
						hook(more)
						e.mu.Lock()
					}
				}
				continue
			}
		}
		if e.done != nil && !e.pending() {
			c := *e.done
			e.terminated = true
			e.onCancel = nil
			e.onRequest = nil
			e.mu.Unlock()
			e.sub.ReceiveCompletion(c)
			e.mu.Lock()
		}
		break
	}

	e.draining = false
	e.mu.Unlock()
}

type sliceIterator[T any] struct {
	values []T
	index  int
}

func (it *sliceIterator[T]) Next() (T, bool) {
	if it.index >= len(it.values) {
		var zero T
		return zero, false
	}
	v := it.values[it.index]
	it.index++
	return v, true
}

func (it *sliceIterator[T]) Done() bool {
	return it.index >= len(it.values)
}
