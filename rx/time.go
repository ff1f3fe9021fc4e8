package rx

import (
	"sync"
	"time"
)

// timedSubscriber is the shared state of Debounce and Throttle: an upstream
// drained with unlimited demand, one pending value, one armed timer, and a
// downstream emitter that drops what arrives without demand.
type timedSubscriber[T any, E error] struct {
	mu        sync.Mutex
	scheduler Scheduler
	interval  time.Duration
	upstream  Subscription
	down      *emitter[T, E]

	pending    T
	hasPending bool
	timer      Cancellable
	generation uint64
	stopped    bool
}

func (t *timedSubscriber[T, E]) ReceiveSubscription(s Subscription) {
	t.mu.Lock()
	if t.upstream != nil || t.stopped {
		t.mu.Unlock()
		s.Cancel()
		return
	}
	t.upstream = s
	t.mu.Unlock()

	s.Request(Unlimited)
}

// arm schedules fire after d. Must be called without mu held; generation
// discards timers that were superseded in the meantime.
func (t *timedSubscriber[T, E]) arm(d time.Duration, gen uint64, fire func(uint64)) {
	handle := t.scheduler.ScheduleAfter(d, func() { fire(gen) })

	t.mu.Lock()
	if t.stopped || t.generation != gen {
		t.mu.Unlock()
		handle.Cancel()
		return
	}
	t.timer = handle
	t.mu.Unlock()
}

// stop disarms the timer and returns the pending value, if any.
func (t *timedSubscriber[T, E]) stop() (T, bool) {
	t.mu.Lock()
	t.stopped = true
	t.generation++
	timer := t.timer
	t.timer = nil
	v, ok := t.pending, t.hasPending
	var zero T
	t.pending, t.hasPending = zero, false
	t.mu.Unlock()

	if timer != nil {
		timer.Cancel()
	}
	return v, ok
}

func (t *timedSubscriber[T, E]) cancel() {
	t.stop()
	t.mu.Lock()
	up := t.upstream
	t.mu.Unlock()
	if up != nil {
		up.Cancel()
	}
}

// complete flushes a pending value on a finished upstream and forwards c.
func (t *timedSubscriber[T, E]) complete(c Completion[E]) {
	v, ok := t.stop()
	if !c.IsFinished() {
		t.down.abort(c)
		return
	}
	if ok {
		t.down.push(v)
	}
	t.down.finish(c)
}

func (t *timedSubscriber[T, E]) ReceiveCompletion(c Completion[E]) {
	t.complete(c)
}

func timed[T any, E error](pub Publisher[T, E], sub Subscriber[T, E], build func(*timedSubscriber[T, E]) Subscriber[T, E], scheduler Scheduler, interval time.Duration) {
	t := &timedSubscriber[T, E]{
		scheduler: scheduler,
		interval:  interval,
	}
	t.down = newEmitter(sub, overflowDrop)
	t.down.onCancel = t.cancel
	t.down.start()
	if t.down.isTerminated() {
		return
	}
	pub.Subscribe(build(t))
}

type debounceSubscriber[T any, E error] struct {
	*timedSubscriber[T, E]
}

func (d debounceSubscriber[T, E]) Receive(v T) Demand {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return None
	}
	d.pending, d.hasPending = v, true
	d.generation++
	gen := d.generation
	timer := d.timer
	d.timer = nil
	d.mu.Unlock()

	if timer != nil {
		timer.Cancel()
	}
	d.arm(d.interval, gen, d.fire)
	return None
}

func (d debounceSubscriber[T, E]) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || d.generation != gen || !d.hasPending {
		d.mu.Unlock()
		return
	}
	v := d.pending
	var zero T
	d.pending, d.hasPending = zero, false
	d.timer = nil
	d.mu.Unlock()

	d.down.push(v)
}

// Debounce publishes a value only once interval has passed without a newer
// one. A burst collapses into its last value. A value still waiting when pub
// finishes is published before the completion.
func Debounce[T any, E error](pub Publisher[T, E], interval time.Duration, scheduler Scheduler) Publisher[T, E] {
	return PublisherFunc[T, E](func(sub Subscriber[T, E]) {
		timed(pub, sub, func(t *timedSubscriber[T, E]) Subscriber[T, E] {
			return debounceSubscriber[T, E]{t}
		}, scheduler, interval)
	})
}

type throttleSubscriber[T any, E error] struct {
	*timedSubscriber[T, E]
	latest   bool
	lastEmit time.Time
	emitted  bool
	armed    bool
}

func (th *throttleSubscriber[T, E]) Receive(v T) Demand {
	th.mu.Lock()
	if th.stopped {
		th.mu.Unlock()
		return None
	}
	now := th.scheduler.Now()
	if !th.armed && (!th.emitted || now.Sub(th.lastEmit) >= th.interval) {
		th.emitted = true
		th.lastEmit = now
		th.mu.Unlock()
		th.down.push(v)
		return None
	}
	if th.latest || !th.hasPending {
		th.pending, th.hasPending = v, true
	}
	if th.armed {
		th.mu.Unlock()
		return None
	}
	th.armed = true
	th.generation++
	gen := th.generation
	wait := th.interval - now.Sub(th.lastEmit)
	th.mu.Unlock()

	th.arm(wait, gen, th.fire)
	return None
}

func (th *throttleSubscriber[T, E]) fire(gen uint64) {
	th.mu.Lock()
	if th.stopped || th.generation != gen {
		th.mu.Unlock()
		return
	}
	th.armed = false
	th.timer = nil
	if !th.hasPending {
		th.mu.Unlock()
		return
	}
	v := th.pending
	var zero T
	th.pending, th.hasPending = zero, false
	th.emitted = true
	th.lastEmit = th.scheduler.Now()
	th.mu.Unlock()

	th.down.push(v)
}

// Throttle publishes at most one value per interval. The first value after a
// quiet interval goes out at once; values arriving inside the window are held
// back and, when the window closes, either the first of them (latest false) or
// the most recent one (latest true) is published.
func Throttle[T any, E error](pub Publisher[T, E], interval time.Duration, scheduler Scheduler, latest bool) Publisher[T, E] {
	return PublisherFunc[T, E](func(sub Subscriber[T, E]) {
		timed(pub, sub, func(t *timedSubscriber[T, E]) Subscriber[T, E] {
			return &throttleSubscriber[T, E]{timedSubscriber: t, latest: latest}
		}, scheduler, interval)
	})
}
