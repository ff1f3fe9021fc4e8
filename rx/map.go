package rx

import (
	"sync/atomic"

	"github.com/7vars/combine"
)

type mapSubscriber[T, K any, E error] struct {
	downstream Subscriber[K, E]
	transform  func(T) K
}

func (m *mapSubscriber[T, K, E]) ReceiveSubscription(s Subscription) {
	m.downstream.ReceiveSubscription(s)
}

func (m *mapSubscriber[T, K, E]) Receive(v T) Demand {
	return m.downstream.Receive(m.transform(v))
}

func (m *mapSubscriber[T, K, E]) ReceiveCompletion(c Completion[E]) {
	m.downstream.ReceiveCompletion(c)
}

// Map applies f to every value. Completions pass through unchanged.
func Map[T, K any, E error](pub Publisher[T, E], f func(T) K) Publisher[K, E] {
	return PublisherFunc[K, E](func(sub Subscriber[K, E]) {
		pub.Subscribe(&mapSubscriber[T, K, E]{
			downstream: sub,
			transform:  f,
		})
	})
}

type mapErrorSubscriber[T any, E, F error] struct {
	downstream Subscriber[T, F]
	transform  func(E) F
}

func (m *mapErrorSubscriber[T, E, F]) ReceiveSubscription(s Subscription) {
	m.downstream.ReceiveSubscription(s)
}

func (m *mapErrorSubscriber[T, E, F]) Receive(v T) Demand {
	return m.downstream.Receive(v)
}

func (m *mapErrorSubscriber[T, E, F]) ReceiveCompletion(c Completion[E]) {
	m.downstream.ReceiveCompletion(mapCompletion(c, m.transform))
}

// MapError converts the failure of pub with f.
func MapError[T any, E, F error](pub Publisher[T, E], f func(E) F) Publisher[T, F] {
	return PublisherFunc[T, F](func(sub Subscriber[T, F]) {
		pub.Subscribe(&mapErrorSubscriber[T, E, F]{
			downstream: sub,
			transform:  f,
		})
	})
}

// AsError widens the failure type of pub to error.
func AsError[T any, E error](pub Publisher[T, E]) Publisher[T, error] {
	return MapError(pub, toError[E])
}

type tryMapSubscriber[T, K any, E error] struct {
	downstream Subscriber[K, error]
	transform  func(T) (K, error)
	upstream   Subscription
	done       atomic.Bool
}

func (m *tryMapSubscriber[T, K, E]) ReceiveSubscription(s Subscription) {
	m.upstream = s
	m.downstream.ReceiveSubscription(s)
}

func (m *tryMapSubscriber[T, K, E]) Receive(v T) Demand {
	if m.done.Load() {
		return None
	}
	k, err := m.apply(v)
	if err != nil {
		if m.done.CompareAndSwap(false, true) {
			m.upstream.Cancel()
			m.downstream.ReceiveCompletion(Failure(err))
		}
		return None
	}
	return m.downstream.Receive(k)
}

func (m *tryMapSubscriber[T, K, E]) apply(v T) (k K, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = combine.Recovered(r)
		}
	}()
	return m.transform(v)
}

func (m *tryMapSubscriber[T, K, E]) ReceiveCompletion(c Completion[E]) {
	if m.done.CompareAndSwap(false, true) {
		m.downstream.ReceiveCompletion(mapCompletion(c, toError[E]))
	}
}

// TryMap applies f to every value. An error returned by f, or a panic inside
// it, cancels pub and fails the stream with that error.
func TryMap[T, K any, E error](pub Publisher[T, E], f func(T) (K, error)) Publisher[K, error] {
	return PublisherFunc[K, error](func(sub Subscriber[K, error]) {
		pub.Subscribe(&tryMapSubscriber[T, K, E]{
			downstream: sub,
			transform:  f,
		})
	})
}

type scanSubscriber[T, K any, E error] struct {
	downstream Subscriber[K, E]
	acc        K
	step       func(K, T) K
}

func (s *scanSubscriber[T, K, E]) ReceiveSubscription(sub Subscription) {
	s.downstream.ReceiveSubscription(sub)
}

func (s *scanSubscriber[T, K, E]) Receive(v T) Demand {
	s.acc = s.step(s.acc, v)
	return s.downstream.Receive(s.acc)
}

func (s *scanSubscriber[T, K, E]) ReceiveCompletion(c Completion[E]) {
	s.downstream.ReceiveCompletion(c)
}

// Scan publishes every intermediate accumulation of step, starting from initial.
func Scan[T, K any, E error](pub Publisher[T, E], initial K, step func(K, T) K) Publisher[K, E] {
	return PublisherFunc[K, E](func(sub Subscriber[K, E]) {
		pub.Subscribe(&scanSubscriber[T, K, E]{
			downstream: sub,
			acc:        initial,
			step:       step,
		})
	})
}
