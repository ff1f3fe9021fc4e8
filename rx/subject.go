package rx

import (
	"slices"
	"sync"
)

// Subject is a publisher that also accepts values pushed from imperative code.
type Subject[T any, E error] interface {
	Publisher[T, E]
	Send(T)
	SendCompletion(Completion[E])
}

// subjectBase owns the conduits of one subject. Attach, detach and the
// snapshot taken by a broadcast are serialized by mu; delivery happens outside
// of it, so a subscriber may send or cancel from within its own callbacks.
type subjectBase[T any, E error] struct {
	mu         sync.Mutex
	policy     overflow
	conduits   []*emitter[T, E]
	completion *Completion[E]
}

// attach wires sub to the subject. prime runs under the lock before the
// conduit becomes visible to broadcasts.
func (b *subjectBase[T, E]) attach(sub Subscriber[T, E], prime func(*emitter[T, E])) {
	e := newEmitter(sub, b.policy)

	b.mu.Lock()
	if b.completion != nil {
		c := *b.completion
		b.mu.Unlock()
		e.done = &c
		e.start()
		return
	}
	if prime != nil {
		prime(e)
	}
	e.onCancel = func() {
		b.detach(e)
	}
	b.conduits = append(b.conduits, e)
	b.mu.Unlock()

	e.start()
}

func (b *subjectBase[T, E]) detach(e *emitter[T, E]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := slices.Index(b.conduits, e); i >= 0 {
		b.conduits = slices.Delete(b.conduits, i, i+1)
	}
}

// broadcast pushes v to every attached conduit in attachment order. update
// runs under the lock, atomically with the snapshot.
func (b *subjectBase[T, E]) broadcast(v T, update func()) {
	b.mu.Lock()
	if b.completion != nil {
		b.mu.Unlock()
		return
	}
	if update != nil {
		update()
	}
	conduits := slices.Clone(b.conduits)
	b.mu.Unlock()

	for _, e := range conduits {
		e.push(v)
	}
}

func (b *subjectBase[T, E]) complete(c Completion[E]) {
	b.mu.Lock()
	if b.completion != nil {
		b.mu.Unlock()
		return
	}
	b.completion = &c
	conduits := b.conduits
	b.conduits = nil
	b.mu.Unlock()

	for _, e := range conduits {
		e.finish(c)
	}
}

func (b *subjectBase[T, E]) subscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.conduits)
}

// PassthroughSubject broadcasts values to the subscribers attached at the time
// of Send. It keeps no value: late subscribers miss earlier sends, and a
// subscriber without demand misses the values sent meanwhile.
type PassthroughSubject[T any, E error] struct {
	base subjectBase[T, E]
}

func NewPassthroughSubject[T any, E error]() *PassthroughSubject[T, E] {
	return &PassthroughSubject[T, E]{
		base: subjectBase[T, E]{policy: overflowDrop},
	}
}

func (s *PassthroughSubject[T, E]) Subscribe(sub Subscriber[T, E]) {
	s.base.attach(sub, nil)
}

func (s *PassthroughSubject[T, E]) Send(v T) {
	s.base.broadcast(v, nil)
}

// SendCompletion terminates the subject. Later sends are ignored.
func (s *PassthroughSubject[T, E]) SendCompletion(c Completion[E]) {
	s.base.complete(c)
}

func (s *PassthroughSubject[T, E]) SubscriberCount() int {
	return s.base.subscriberCount()
}

// CurrentValueSubject remembers the latest value. Every new subscription
// starts with it.
type CurrentValueSubject[T any, E error] struct {
	base  subjectBase[T, E]
	value T
}

func NewCurrentValueSubject[T any, E error](initial T) *CurrentValueSubject[T, E] {
	return &CurrentValueSubject[T, E]{
		base:  subjectBase[T, E]{policy: overflowLatest},
		value: initial,
	}
}

func (s *CurrentValueSubject[T, E]) Subscribe(sub Subscriber[T, E]) {
	s.base.attach(sub, func(e *emitter[T, E]) {
		e.queue = append(e.queue, s.value)
	})
}

// Send stores v as the current value and broadcasts it. After completion it
// does nothing, and the current value stays as it was.
func (s *CurrentValueSubject[T, E]) Send(v T) {
	s.base.broadcast(v, func() {
		s.value = v
	})
}

func (s *CurrentValueSubject[T, E]) SendCompletion(c Completion[E]) {
	s.base.complete(c)
}

func (s *CurrentValueSubject[T, E]) Value() T {
	s.base.mu.Lock()
	defer s.base.mu.Unlock()
	return s.value
}

// SetValue is Send.
func (s *CurrentValueSubject[T, E]) SetValue(v T) {
	s.Send(v)
}

func (s *CurrentValueSubject[T, E]) SubscriberCount() int {
	return s.base.subscriberCount()
}

// Published holds a value and publishes every assignment to it.
type Published[T any] struct {
	subject *CurrentValueSubject[T, Never]
}

func NewPublished[T any](initial T) *Published[T] {
	return &Published[T]{
		subject: NewCurrentValueSubject[T, Never](initial),
	}
}

func (p *Published[T]) Get() T {
	return p.subject.Value()
}

func (p *Published[T]) Set(v T) {
	p.subject.Send(v)
}

// Publisher returns the stream of values of p, starting with the current one.
func (p *Published[T]) Publisher() Publisher[T, Never] {
	return p.subject
}
