package rx

import "sync"

// shared multicasts one upstream subscription through a passthrough subject.
// The upstream is connected when the first subscriber attaches and cancelled
// when the last attached subscriber cancels. It is never reconnected.
type shared[T any, E error] struct {
	source  Publisher[T, E]
	subject *PassthroughSubject[T, E]

	mu        sync.Mutex
	conn      Cancellable
	members   int
	connected bool
	released  bool
}

func (s *shared[T, E]) Subscribe(sub Subscriber[T, E]) {
	s.subject.Subscribe(shareMember[T, E]{sub: sub, share: s})

	s.mu.Lock()
	if s.connected {
		s.mu.Unlock()
		return
	}
	s.connected = true
	s.mu.Unlock()

	conn := Sink(s.source, s.subject.SendCompletion, s.subject.Send)

	s.mu.Lock()
	s.conn = conn
	release := s.released
	s.mu.Unlock()
	if release {
		conn.Cancel()
	}
}

func (s *shared[T, E]) join() {
	s.mu.Lock()
	s.members++
	s.mu.Unlock()
}

// leave drops one member and cancels the upstream once none is left. A
// connection still being established is cancelled when it is in place.
func (s *shared[T, E]) leave() {
	s.mu.Lock()
	s.members--
	if s.members > 0 || !s.connected || s.released {
		s.mu.Unlock()
		return
	}
	s.released = true
	conn := s.conn
	s.mu.Unlock()

	if conn != nil {
		conn.Cancel()
	}
}

type shareMember[T any, E error] struct {
	sub   Subscriber[T, E]
	share *shared[T, E]
}

func (m shareMember[T, E]) ReceiveSubscription(s Subscription) {
	m.share.join()
	m.sub.ReceiveSubscription(&shareSubscription{Subscription: s, share: m.share.leave})
}

func (m shareMember[T, E]) Receive(v T) Demand {
	return m.sub.Receive(v)
}

func (m shareMember[T, E]) ReceiveCompletion(c Completion[E]) {
	m.sub.ReceiveCompletion(c)
}

type shareSubscription struct {
	Subscription
	once  sync.Once
	share func()
}

func (s *shareSubscription) Cancel() {
	s.Subscription.Cancel()
	s.once.Do(s.share)
}

// Share subscribes to pub once and broadcasts its events to every subscriber
// of the returned publisher. Subscribers attaching later only see later
// values; after the upstream completed they receive the completion. When every
// subscriber cancelled, the upstream subscription is cancelled too.
func Share[T any, E error](pub Publisher[T, E]) Publisher[T, E] {
	return &shared[T, E]{
		source:  pub,
		subject: NewPassthroughSubject[T, E](),
	}
}
