package rx

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// AnyCancellable erases whatever it cancels. Cancel runs the wrapped function
// at most once; later calls, including concurrent ones, return immediately.
type AnyCancellable struct {
	id     uuid.UUID
	done   atomic.Bool
	cancel func()
}

func NewAnyCancellable(c Cancellable) *AnyCancellable {
	if ac, ok := c.(*AnyCancellable); ok {
		return ac
	}
	return &AnyCancellable{
		id:     uuid.New(),
		cancel: c.Cancel,
	}
}

func (c *AnyCancellable) ID() uuid.UUID {
	return c.id
}

func (c *AnyCancellable) Cancel() {
	if c.done.CompareAndSwap(false, true) && c.cancel != nil {
		c.cancel()
	}
}

// Store hands ownership of c to set.
func (c *AnyCancellable) Store(set *Set) *AnyCancellable {
	set.Add(c)
	return c
}

// Set owns cancellables. Cancel (or Clear) cancels every member, so
//
//	var subs rx.Set
//	defer subs.Cancel()
//
// ties the lifetime of every stored pipeline to the enclosing scope.
// The zero value is ready to use.
type Set struct {
	mu      sync.Mutex
	members map[uuid.UUID]*AnyCancellable
	order   []uuid.UUID
}

func (s *Set) Add(c Cancellable) uuid.UUID {
	ac := NewAnyCancellable(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.members == nil {
		s.members = make(map[uuid.UUID]*AnyCancellable)
	}
	if _, ok := s.members[ac.id]; !ok {
		s.members[ac.id] = ac
		s.order = append(s.order, ac.id)
	}
	return ac.id
}

// Remove cancels and forgets the member with the given id.
func (s *Set) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	ac, ok := s.members[id]
	if ok {
		delete(s.members, id)
		s.order = lo.Without(s.order, id)
	}
	s.mu.Unlock()

	if ok {
		ac.Cancel()
	}
	return ok
}

func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members)
}

// Cancel cancels every member in insertion order and empties the set.
func (s *Set) Cancel() {
	s.mu.Lock()
	members := lo.FilterMap(s.order, func(id uuid.UUID, _ int) (*AnyCancellable, bool) {
		ac, ok := s.members[id]
		return ac, ok
	})
	s.members = nil
	s.order = nil
	s.mu.Unlock()

	for _, ac := range members {
		ac.Cancel()
	}
}

// Clear is Cancel.
func (s *Set) Clear() {
	s.Cancel()
}
