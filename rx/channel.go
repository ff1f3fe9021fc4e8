package rx

import (
	"context"
	"sync"
)

// channelSource reads ch only while the subscriber has outstanding demand.
type channelSource[T any] struct {
	mu     sync.Mutex
	credit Demand
	wake   chan struct{}
	stop   chan struct{}
	once   sync.Once
}

func (c *channelSource[T]) request(d Demand) {
	c.mu.Lock()
	c.credit = c.credit.Add(d)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *channelSource[T]) take() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.credit == None {
		return false
	}
	c.credit = c.credit.Sub(1)
	return true
}

func (c *channelSource[T]) cancel() {
	c.once.Do(func() {
		close(c.stop)
	})
}

func (c *channelSource[T]) run(ctx context.Context, ch <-chan T, down *emitter[T, error]) {
	for {
		for !c.take() {
			select {
			case <-c.wake:
			case <-c.stop:
				return
			case <-ctx.Done():
				down.abort(Failure(ctx.Err()))
				return
			}
		}

		select {
		case v, ok := <-ch:
			if !ok {
				down.finish(Finished[error]())
				return
			}
			down.push(v)
		case <-c.stop:
			return
		case <-ctx.Done():
			down.abort(Failure(ctx.Err()))
			return
		}
	}
}

// FromChannel publishes the values received from ch. Each subscriber starts
// its own reader goroutine, which only receives from ch while demand is
// outstanding. The stream finishes when ch is closed and fails with the
// context error when ctx ends first.
func FromChannel[T any](ctx context.Context, ch <-chan T) Publisher[T, error] {
	return PublisherFunc[T, error](func(sub Subscriber[T, error]) {
		src := &channelSource[T]{
			wake: make(chan struct{}, 1),
			stop: make(chan struct{}),
		}
		down := newEmitter(sub, overflowBuffer)
		down.onRequest = src.request
		down.onCancel = src.cancel
		down.start()

		if down.isTerminated() {
			return
		}
		go src.run(ctx, ch, down)
	})
}
