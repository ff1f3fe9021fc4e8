package rx

import (
	"context"
	"sync"
)

// Await subscribes to pub and blocks until it completes or ctx ends. It returns
// the values received so far together with the failure, or with the context
// error after cancelling the subscription.
func Await[T any, E error](ctx context.Context, pub Publisher[T, E]) ([]T, error) {
	var (
		mu     sync.Mutex
		values []T
		result error
	)
	done := make(chan struct{})

	c := Sink(pub, func(cmp Completion[E]) {
		if !cmp.IsFinished() {
			mu.Lock()
			result = toError(cmp.Err())
			mu.Unlock()
		}
		close(done)
	}, func(v T) {
		mu.Lock()
		values = append(values, v)
		mu.Unlock()
	})

	select {
	case <-done:
	case <-ctx.Done():
		c.Cancel()
		mu.Lock()
		defer mu.Unlock()
		return values, ctx.Err()
	}

	mu.Lock()
	defer mu.Unlock()
	return values, result
}

// AwaitOne waits for the first value of pub and cancels the rest of the
// stream. It returns ErrNoValue when pub finishes without a value.
func AwaitOne[T any, E error](ctx context.Context, pub Publisher[T, E]) (T, error) {
	values, err := Await(ctx, Prefix(pub, 1))
	if len(values) > 0 {
		return values[0], nil
	}
	var zero T
	if err != nil {
		return zero, err
	}
	return zero, ErrNoValue
}

// channelSubscriber forwards values into a channel one at a time. A value is
// only requested after the previous one was taken by the reader.
type channelSubscriber[T any, E error] struct {
	ctx context.Context
	out chan T

	mu           sync.Mutex
	subscription Subscription
	closed       bool
	finished     chan struct{}
}

func (c *channelSubscriber[T, E]) ReceiveSubscription(s Subscription) {
	c.mu.Lock()
	if c.subscription != nil || c.closed {
		c.mu.Unlock()
		s.Cancel()
		return
	}
	c.subscription = s
	c.mu.Unlock()

	s.Request(Max(1))
}

func (c *channelSubscriber[T, E]) Receive(v T) Demand {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return None
	}
	select {
	case c.out <- v:
		return Max(1)
	case <-c.ctx.Done():
		return None
	}
}

func (c *channelSubscriber[T, E]) ReceiveCompletion(Completion[E]) {
	c.close()
}

func (c *channelSubscriber[T, E]) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.out)
	close(c.finished)
}

func (c *channelSubscriber[T, E]) watch() {
	select {
	case <-c.finished:
	case <-c.ctx.Done():
		c.mu.Lock()
		s := c.subscription
		c.mu.Unlock()
		if s != nil {
			s.Cancel()
		}
		c.close()
	}
}

// Values returns a channel carrying the values of pub. The channel is closed
// when pub completes or ctx ends; a failure only closes it, use Await to
// observe it.
func Values[T any, E error](ctx context.Context, pub Publisher[T, E]) <-chan T {
	c := &channelSubscriber[T, E]{
		ctx:      ctx,
		out:      make(chan T),
		finished: make(chan struct{}),
	}
	go c.watch()
	go pub.Subscribe(c)
	return c.out
}
