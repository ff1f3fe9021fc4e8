package rx

import "sync"

// catchSubscription stands between the downstream subscriber and whichever
// publisher currently feeds it: first the source upstream, then the
// replacement returned by the handler. Outstanding demand is carried over.
type catchSubscription[T any, E, F error] struct {
	mu         sync.Mutex
	downstream Subscriber[T, F]
	handler    func(E) Publisher[T, F]
	upstream   Subscription
	demand     Demand
	cancelled  bool
}

func (c *catchSubscription[T, E, F]) Request(d Demand) {
	if d == None {
		return
	}
	c.mu.Lock()
	if c.cancelled {
		c.mu.Unlock()
		return
	}
	c.demand = c.demand.Add(d)
	up := c.upstream
	c.mu.Unlock()

	if up != nil {
		up.Request(d)
	}
}

func (c *catchSubscription[T, E, F]) Cancel() {
	c.mu.Lock()
	if c.cancelled {
		c.mu.Unlock()
		return
	}
	c.cancelled = true
	up := c.upstream
	c.upstream = nil
	c.mu.Unlock()

	if up != nil {
		up.Cancel()
	}
}

func (c *catchSubscription[T, E, F]) isCancelled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelled
}

func (c *catchSubscription[T, E, F]) receive(v T) Demand {
	c.mu.Lock()
	c.demand = c.demand.Sub(1)
	c.mu.Unlock()

	more := c.downstream.Receive(v)
	if more > None {
		c.mu.Lock()
		c.demand = c.demand.Add(more)
		c.mu.Unlock()
	}
	return more
}

type catchUpstream[T any, E, F error] struct {
	c *catchSubscription[T, E, F]
}

func (u catchUpstream[T, E, F]) ReceiveSubscription(s Subscription) {
	u.c.mu.Lock()
	u.c.upstream = s
	u.c.mu.Unlock()
	u.c.downstream.ReceiveSubscription(u.c)
}

func (u catchUpstream[T, E, F]) Receive(v T) Demand {
	return u.c.receive(v)
}

func (u catchUpstream[T, E, F]) ReceiveCompletion(cmp Completion[E]) {
	if u.c.isCancelled() {
		return
	}
	if cmp.IsFinished() {
		u.c.downstream.ReceiveCompletion(Finished[F]())
		return
	}
	u.c.mu.Lock()
	u.c.upstream = nil
	u.c.mu.Unlock()

	u.c.handler(cmp.Err()).Subscribe(catchReplacement[T, E, F]{c: u.c})
}

type catchReplacement[T any, E, F error] struct {
	c *catchSubscription[T, E, F]
}

func (r catchReplacement[T, E, F]) ReceiveSubscription(s Subscription) {
	r.c.mu.Lock()
	if r.c.cancelled {
		r.c.mu.Unlock()
		s.Cancel()
		return
	}
	r.c.upstream = s
	d := r.c.demand
	r.c.mu.Unlock()

	if d > None {
		s.Request(d)
	}
}

func (r catchReplacement[T, E, F]) Receive(v T) Demand {
	return r.c.receive(v)
}

func (r catchReplacement[T, E, F]) ReceiveCompletion(cmp Completion[F]) {
	if r.c.isCancelled() {
		return
	}
	r.c.downstream.ReceiveCompletion(cmp)
}

// Catch replaces a failing pub with the publisher handler returns for its
// error. Downstream then follows the replacement, including its completion.
func Catch[T any, E, F error](pub Publisher[T, E], handler func(E) Publisher[T, F]) Publisher[T, F] {
	return PublisherFunc[T, F](func(sub Subscriber[T, F]) {
		pub.Subscribe(catchUpstream[T, E, F]{
			c: &catchSubscription[T, E, F]{
				downstream: sub,
				handler:    handler,
			},
		})
	})
}

// ReplaceError recovers from any failure of pub by publishing v and finishing.
func ReplaceError[T any, E error](pub Publisher[T, E], v T) Publisher[T, Never] {
	return Catch(pub, func(E) Publisher[T, Never] {
		return Just(v)
	})
}
