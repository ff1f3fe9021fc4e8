package rx

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/7vars/combine"
)

func TestImmediateScheduler(t *testing.T) {
	var s ImmediateScheduler
	ran := false
	s.Schedule(func() { ran = true })
	assert.True(t, ran)

	fired := make(chan struct{})
	s.ScheduleAfter(time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("delayed work did not run")
	}
}

func TestTestSchedulerOrder(t *testing.T) {
	ts := NewTestScheduler()
	var order []string
	ts.ScheduleAfter(2*time.Second, func() { order = append(order, "c") })
	ts.ScheduleAfter(time.Second, func() { order = append(order, "a") })
	ts.ScheduleAfter(time.Second, func() { order = append(order, "b") })
	ts.Schedule(func() { order = append(order, "now") })

	ts.Advance(time.Second)
	assert.Equal(t, []string{"now", "a", "b"}, order)
	assert.Equal(t, time.Second, ts.Elapsed())
	assert.Equal(t, 1, ts.Pending())

	ts.Run()
	assert.Equal(t, []string{"now", "a", "b", "c"}, order)
	assert.Equal(t, 2*time.Second, ts.Elapsed())
}

func TestTestSchedulerNestedWork(t *testing.T) {
	ts := NewTestScheduler()
	var at []time.Duration
	ts.ScheduleAfter(time.Second, func() {
		at = append(at, ts.Elapsed())
		ts.ScheduleAfter(time.Second, func() {
			at = append(at, ts.Elapsed())
		})
	})

	ts.Advance(5 * time.Second)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, at)
	assert.Equal(t, 5*time.Second, ts.Elapsed())
}

func TestTestSchedulerCancel(t *testing.T) {
	ts := NewTestScheduler()
	ran := false
	c := ts.ScheduleAfter(time.Second, func() { ran = true })
	c.Cancel()
	assert.Equal(t, 0, ts.Pending())

	ts.Run()
	assert.False(t, ran)
}

func TestDispatchQueueRunsInOrder(t *testing.T) {
	q := NewDispatchQueue("ordered")
	defer q.Close()

	var got []int
	for i := 0; i < 100; i++ {
		require.NoError(t, q.Async(func() { got = append(got, i) }))
	}
	require.NoError(t, q.Sync(func() {}))

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestDispatchQueueSerializesConcurrentSubmitters(t *testing.T) {
	q := NewDispatchQueue("", WithQueueBuffer(0))
	defer q.Close()
	assert.NotEmpty(t, q.Label())

	var running, overlaps atomic.Int32
	var total atomic.Int32
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 50; j++ {
				if err := q.Async(func() {
					if running.Add(1) > 1 {
						overlaps.Add(1)
					}
					total.Add(1)
					running.Add(-1)
				}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.NoError(t, q.Sync(func() {}))

	assert.Equal(t, int32(400), total.Load())
	assert.Equal(t, int32(0), overlaps.Load())
}

func TestDispatchQueueSyncReturnsPanic(t *testing.T) {
	q := NewDispatchQueue("panics", WithQueueLogger(combine.Discard()))
	defer q.Close()

	err := q.Sync(func() { panic("boom") })
	var panicErr combine.PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Contains(t, err.Error(), "boom")

	assert.NoError(t, q.Sync(func() {}))
}

func TestDispatchQueueSyncWithContext(t *testing.T) {
	q := NewDispatchQueue("blocked")
	defer q.Close()

	release := make(chan struct{})
	require.NoError(t, q.Async(func() { <-release }))

	err := q.SyncWithTimeout(func() {}, 10*time.Millisecond)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	close(release)
}

func TestDispatchQueueClose(t *testing.T) {
	q := NewDispatchQueue("closing")
	var ran atomic.Bool
	require.NoError(t, q.Async(func() { ran.Store(true) }))
	q.Close()
	q.Close()

	select {
	case <-q.Closed():
	case <-time.After(time.Second):
		t.Fatal("queue did not stop")
	}
	assert.True(t, ran.Load())
	assert.ErrorIs(t, q.Async(func() {}), ErrQueueClosed)
	assert.ErrorIs(t, q.Sync(func() {}), ErrQueueClosed)
}

func TestDispatchQueueScheduleAfter(t *testing.T) {
	q := NewDispatchQueue("timers")
	defer q.Close()

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})
	q.ScheduleAfter(20*time.Millisecond, func() {
		mu.Lock()
		got = append(got, "late")
		mu.Unlock()
		close(done)
	})
	c := q.ScheduleAfter(5*time.Millisecond, func() {
		mu.Lock()
		got = append(got, "cancelled")
		mu.Unlock()
	})
	c.Cancel()
	q.Schedule(func() {
		mu.Lock()
		got = append(got, "now")
		mu.Unlock()
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled work did not run")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"now", "late"}, got)
}

// fill blocks the queue goroutine and returns a func releasing it.
func fill(t *testing.T, q *DispatchQueue) func() {
	t.Helper()
	running := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, q.Async(func() {
		close(running)
		<-release
	}))
	<-running
	return func() { close(release) }
}

func TestDispatchQueueFull(t *testing.T) {
	q := NewDispatchQueue("bounded", WithQueueBuffer(2))
	defer q.Close()
	assert.Equal(t, 2, q.Limit())

	release := fill(t, q)
	var ran atomic.Int32
	require.NoError(t, q.Async(func() { ran.Add(1) }))
	require.NoError(t, q.Async(func() { ran.Add(1) }))
	assert.ErrorIs(t, q.Async(func() { ran.Add(1) }), ErrQueueFull)
	assert.ErrorIs(t, q.Sync(func() { ran.Add(1) }), ErrQueueFull)

	release()
	require.NoError(t, q.Sync(func() {}))
	assert.Equal(t, int32(2), ran.Load())
}

func TestDispatchQueueConfig(t *testing.T) {
	v := viper.New()
	v.Set(combine.KeyQueueBuffer, 1)
	q := NewDispatchQueue("configured", WithQueueConfig(combine.ConfigFrom(v)))
	defer q.Close()
	assert.Equal(t, 1, q.Limit())

	release := fill(t, q)
	defer release()
	require.NoError(t, q.Async(func() {}))
	assert.ErrorIs(t, q.Async(func() {}), ErrQueueFull)
}

func TestDispatchQueueUnbounded(t *testing.T) {
	q := NewDispatchQueue("unbounded", WithQueueBuffer(0))
	defer q.Close()
	assert.Equal(t, 0, q.Limit())

	release := fill(t, q)
	for i := 0; i < 2*defaultQueueBuffer; i++ {
		require.NoError(t, q.Async(func() {}))
	}
	release()
	require.NoError(t, q.Sync(func() {}))
}

func TestJobRepliesOnce(t *testing.T) {
	reply := make(chan error, 2)
	j := syncJob(func() {}, reply)
	assert.NoError(t, j.execute())
	j.respond(errors.New("again"))

	assert.NoError(t, <-reply)
	assert.Empty(t, reply)
}

func TestJobRecoversPanic(t *testing.T) {
	j := asyncJob(func() { panic(errBoom) })
	err := j.execute()
	assert.ErrorIs(t, err, errBoom)
}
