package rx

import "time"

// Scheduler runs work now or after a delay. Time-based operators take their
// clock and timers from it.
type Scheduler interface {
	Now() time.Time
	Schedule(func())
	ScheduleAfter(time.Duration, func()) Cancellable
}

// ImmediateScheduler runs work on the calling goroutine. Delayed work runs on
// a runtime timer.
type ImmediateScheduler struct{}

func (ImmediateScheduler) Now() time.Time {
	return time.Now()
}

func (ImmediateScheduler) Schedule(fn func()) {
	fn()
}

func (ImmediateScheduler) ScheduleAfter(d time.Duration, fn func()) Cancellable {
	t := time.AfterFunc(d, fn)
	return CancelFunc(func() {
		t.Stop()
	})
}
