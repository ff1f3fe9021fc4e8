package rx

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// TestScheduler is a Scheduler on virtual time. Nothing runs until the test
// advances the clock; due work then runs in time order, and work due at the
// same instant runs in the order it was scheduled.
type TestScheduler struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	queue []*virtualAction
}

type virtualAction struct {
	due       time.Time
	seq       uint64
	fn        func()
	cancelled atomic.Bool
}

// NewTestScheduler starts the virtual clock at the Unix epoch.
func NewTestScheduler() *TestScheduler {
	return &TestScheduler{
		now: time.Unix(0, 0).UTC(),
	}
}

func (s *TestScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Elapsed is the virtual time passed since the epoch.
func (s *TestScheduler) Elapsed() time.Duration {
	return s.Now().Sub(time.Unix(0, 0))
}

// Schedule queues fn at the current virtual instant.
func (s *TestScheduler) Schedule(fn func()) {
	s.ScheduleAfter(0, fn)
}

func (s *TestScheduler) ScheduleAfter(d time.Duration, fn func()) Cancellable {
	if d < 0 {
		d = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	a := &virtualAction{
		due: s.now.Add(d),
		seq: s.seq,
		fn:  fn,
	}
	i := sort.Search(len(s.queue), func(i int) bool {
		q := s.queue[i]
		return q.due.After(a.due) || (q.due.Equal(a.due) && q.seq > a.seq)
	})
	s.queue = append(s.queue, nil)
	copy(s.queue[i+1:], s.queue[i:])
	s.queue[i] = a

	return CancelFunc(func() {
		a.cancelled.Store(true)
	})
}

// Advance moves the clock forward by d, running everything that falls due.
func (s *TestScheduler) Advance(d time.Duration) {
	s.AdvanceTo(s.Now().Add(d))
}

// AdvanceTo moves the clock to t, running everything due up to t. Work
// scheduled by running actions is picked up if it is due by t.
func (s *TestScheduler) AdvanceTo(t time.Time) {
	for {
		a, ok := s.popDue(t)
		if !ok {
			break
		}
		if !a.cancelled.Load() {
			a.fn()
		}
	}
	s.mu.Lock()
	if t.After(s.now) {
		s.now = t
	}
	s.mu.Unlock()
}

// Run advances the clock until no work is left.
func (s *TestScheduler) Run() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		due := s.queue[0].due
		s.mu.Unlock()
		s.AdvanceTo(due)
	}
}

// Pending counts scheduled work that was not cancelled and has not run.
func (s *TestScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.queue {
		if !a.cancelled.Load() {
			n++
		}
	}
	return n
}

func (s *TestScheduler) popDue(t time.Time) (*virtualAction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 || s.queue[0].due.After(t) {
		return nil, false
	}
	a := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	if a.due.After(s.now) {
		s.now = a.due
	}
	return a, true
}
