package rx

import (
	"sync"

	"github.com/7vars/combine"
)

// sinkSubscriber requests unlimited demand and hands every event to optional
// callbacks. A panicking callback is logged and cancels the subscription.
//
// Once Cancel returned no callback starts. Cancel called from another
// goroutine waits for a callback in progress; called from within a callback
// it returns right away.
type sinkSubscriber[T any, E error] struct {
	mu           sync.Mutex
	idle         sync.Cond
	subscription Subscription
	cancelled    bool
	completed    bool
	running      int
	owner        uint64

	onValue      func(T)
	onCompletion func(Completion[E])
}

func newSinkSubscriber[T any, E error](onCompletion func(Completion[E]), onValue func(T)) *sinkSubscriber[T, E] {
	s := &sinkSubscriber[T, E]{
		onValue:      onValue,
		onCompletion: onCompletion,
	}
	s.idle.L = &s.mu
	return s
}

func (s *sinkSubscriber[T, E]) ReceiveSubscription(sub Subscription) {
	s.mu.Lock()
	if s.subscription != nil || s.cancelled {
		s.mu.Unlock()
		sub.Cancel()
		return
	}
	s.subscription = sub
	s.mu.Unlock()

	sub.Request(Unlimited)
}

// enter claims the right to run a callback. last marks the completion.
func (s *sinkSubscriber[T, E]) enter(last bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled || s.completed {
		return false
	}
	if last {
		s.completed = true
		s.subscription = nil
	}
	if s.running == 0 {
		s.owner = goroutineID()
	}
	s.running++
	return true
}

func (s *sinkSubscriber[T, E]) leave() {
	s.mu.Lock()
	s.running--
	if s.running == 0 {
		s.owner = 0
		s.idle.Broadcast()
	}
	s.mu.Unlock()
}

func (s *sinkSubscriber[T, E]) Receive(v T) Demand {
	if !s.enter(false) {
		return None
	}
	defer s.leave()
	if s.onValue != nil {
		s.guard(func() { s.onValue(v) })
	}
	return None
}

func (s *sinkSubscriber[T, E]) ReceiveCompletion(c Completion[E]) {
	if !s.enter(true) {
		return
	}
	defer s.leave()
	if s.onCompletion != nil {
		s.guard(func() { s.onCompletion(c) })
	}
}

func (s *sinkSubscriber[T, E]) Cancel() {
	s.mu.Lock()
	sub := s.subscription
	s.subscription = nil
	s.cancelled = true
	s.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}

	s.mu.Lock()
	if s.running > 0 && s.owner != goroutineID() {
		for s.running > 0 {
			s.idle.Wait()
		}
	}
	s.mu.Unlock()
}

func (s *sinkSubscriber[T, E]) guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("sink callback panicked, cancelling: %v", combine.Recovered(r))
			s.Cancel()
		}
	}()
	fn()
}

// Sink subscribes to pub with unlimited demand. Either callback may be nil.
// The returned cancellable stops the subscription; a cancelled sink receives
// no completion.
func Sink[T any, E error](pub Publisher[T, E], onCompletion func(Completion[E]), onValue func(T)) *AnyCancellable {
	s := newSinkSubscriber(onCompletion, onValue)
	pub.Subscribe(s)
	return NewAnyCancellable(CancelFunc(s.Cancel))
}

// SinkValue subscribes to a publisher that cannot fail, observing values only.
func SinkValue[T any](pub Publisher[T, Never], onValue func(T)) *AnyCancellable {
	return Sink(pub, nil, onValue)
}

// Assign writes every value of pub into target. Only publishers that cannot
// fail are accepted; recover from failures upstream, e.g. with Catch.
func Assign[T any](pub Publisher[T, Never], target *T) *AnyCancellable {
	return AssignFunc(pub, func(v T) {
		*target = v
	})
}

// AssignFunc passes every value of pub to set, for targets with setter logic
// such as Published.Set.
func AssignFunc[T any](pub Publisher[T, Never], set func(T)) *AnyCancellable {
	return Sink(pub, nil, set)
}

// AnySubscriber erases the concrete type of a subscriber.
type AnySubscriber[T any, E error] struct {
	OnSubscription func(Subscription)
	OnValue        func(T) Demand
	OnCompletion   func(Completion[E])
}

// EraseToAnySubscriber hides the concrete type of sub behind AnySubscriber.
func EraseToAnySubscriber[T any, E error](sub Subscriber[T, E]) AnySubscriber[T, E] {
	if erased, ok := sub.(AnySubscriber[T, E]); ok {
		return erased
	}
	return AnySubscriber[T, E]{
		OnSubscription: sub.ReceiveSubscription,
		OnValue:        sub.Receive,
		OnCompletion:   sub.ReceiveCompletion,
	}
}

func (s AnySubscriber[T, E]) ReceiveSubscription(sub Subscription) {
	if s.OnSubscription != nil {
		s.OnSubscription(sub)
		return
	}
	sub.Request(Unlimited)
}

func (s AnySubscriber[T, E]) Receive(v T) Demand {
	if s.OnValue != nil {
		return s.OnValue(v)
	}
	return None
}

func (s AnySubscriber[T, E]) ReceiveCompletion(c Completion[E]) {
	if s.OnCompletion != nil {
		s.OnCompletion(c)
	}
}
