package rx

import "sync"

// Result is the outcome a Future resolves to.
type Result[T any, E error] struct {
	Value  T
	Err    E
	failed bool
}

func Success[T any, E error](v T) Result[T, E] {
	return Result[T, E]{Value: v}
}

func Failed[T any, E error](err E) Result[T, E] {
	return Result[T, E]{Err: err, failed: true}
}

func (r Result[T, E]) IsSuccess() bool {
	return !r.failed
}

// Promise resolves a Future. Only the first call has an effect.
type Promise[T any, E error] func(Result[T, E])

// Future resolves once to a value or a failure and replays that outcome to
// every subscriber, including those that attach after resolution.
//
// The resolver runs inside NewFuture, not on Subscribe.
type Future[T any, E error] struct {
	mu      sync.Mutex
	result  *Result[T, E]
	waiting map[*emitter[T, E]]struct{}
	order   []*emitter[T, E]
}

func NewFuture[T any, E error](resolver func(promise Promise[T, E])) *Future[T, E] {
	f := &Future[T, E]{
		waiting: make(map[*emitter[T, E]]struct{}),
	}
	resolver(f.resolve)
	return f
}

// GoFuture runs fn on its own goroutine and resolves with its outcome.
func GoFuture[T any](fn func() (T, error)) *Future[T, error] {
	return NewFuture(func(promise Promise[T, error]) {
		go func() {
			v, err := fn()
			if err != nil {
				promise(Failed[T](err))
				return
			}
			promise(Success[T, error](v))
		}()
	})
}

func (f *Future[T, E]) resolve(r Result[T, E]) {
	f.mu.Lock()
	if f.result != nil {
		f.mu.Unlock()
		return
	}
	f.result = &r
	waiting := make([]*emitter[T, E], 0, len(f.waiting))
	for _, e := range f.order {
		if _, ok := f.waiting[e]; ok {
			waiting = append(waiting, e)
		}
	}
	f.waiting = nil
	f.order = nil
	f.mu.Unlock()

	for _, e := range waiting {
		deliverResult(e, r)
	}
}

// Resolved reports whether the promise has been called.
func (f *Future[T, E]) Resolved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result != nil
}

func (f *Future[T, E]) Subscribe(sub Subscriber[T, E]) {
	e := newEmitter(sub, overflowBuffer)

	f.mu.Lock()
	if f.result != nil {
		r := *f.result
		f.mu.Unlock()
		deliverResult(e, r)
		e.start()
		return
	}
	e.onCancel = func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.waiting, e)
	}
	f.waiting[e] = struct{}{}
	f.order = append(f.order, e)
	f.mu.Unlock()

	e.start()
}

func deliverResult[T any, E error](e *emitter[T, E], r Result[T, E]) {
	if !r.IsSuccess() {
		e.finish(Failure(r.Err))
		return
	}
	e.push(r.Value)
	e.finish(Finished[E]())
}
