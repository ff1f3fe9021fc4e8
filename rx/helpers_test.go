package rx

import (
	"errors"
	"sync"
)

var errBoom = errors.New("boom")

// probe is a subscriber whose demand is driven by the test.
type probe[T any, E error] struct {
	mu           sync.Mutex
	initial      Demand
	perValue     Demand
	subscription Subscription
	values       []T
	completions  []Completion[E]
	onValue      func(T)
}

func newProbe[T any, E error](initial, perValue Demand) *probe[T, E] {
	return &probe[T, E]{
		initial:  initial,
		perValue: perValue,
	}
}

func (p *probe[T, E]) ReceiveSubscription(s Subscription) {
	p.mu.Lock()
	p.subscription = s
	p.mu.Unlock()
	if p.initial > None {
		s.Request(p.initial)
	}
}

func (p *probe[T, E]) Receive(v T) Demand {
	p.mu.Lock()
	p.values = append(p.values, v)
	hook := p.onValue
	p.mu.Unlock()
	if hook != nil {
		hook(v)
	}
	return p.perValue
}

func (p *probe[T, E]) ReceiveCompletion(c Completion[E]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completions = append(p.completions, c)
}

func (p *probe[T, E]) Request(d Demand) {
	p.mu.Lock()
	s := p.subscription
	p.mu.Unlock()
	s.Request(d)
}

func (p *probe[T, E]) Cancel() {
	p.mu.Lock()
	s := p.subscription
	p.mu.Unlock()
	s.Cancel()
}

func (p *probe[T, E]) Values() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.values))
	copy(out, p.values)
	return out
}

func (p *probe[T, E]) Completions() []Completion[E] {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Completion[E], len(p.completions))
	copy(out, p.completions)
	return out
}

func (p *probe[T, E]) Subscribed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.subscription != nil
}

// spySubscription records what flows upstream.
type spySubscription struct {
	mu        sync.Mutex
	requested []Demand
	cancels   int
}

func (s *spySubscription) Request(d Demand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requested = append(s.requested, d)
}

func (s *spySubscription) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels++
}

func (s *spySubscription) Cancels() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancels
}
