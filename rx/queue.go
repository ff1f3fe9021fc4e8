package rx

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/7vars/combine"
)

const defaultQueueBuffer = 1024

// DispatchQueue runs submitted work one job at a time, in submission order, on
// a dedicated goroutine. It is a Scheduler.
//
// The mailbox holds at most limit waiting jobs. Submitting to a full mailbox
// fails with ErrQueueFull instead of blocking, so a job running on the queue
// may submit to it as well. A limit of zero or less leaves it unbounded.
type DispatchQueue struct {
	combine.Logger

	label string
	limit int

	mu     sync.Mutex
	jobs   []*job
	closed bool
	signal chan struct{}
	done   chan struct{}
}

type QueueOption func(*queueOptions)

type queueOptions struct {
	buffer int
	logger combine.Logger
}

// WithQueueConfig bounds the mailbox by combine.queue.buffer.
func WithQueueConfig(conf combine.Config) QueueOption {
	return func(o *queueOptions) {
		o.buffer = conf.GetIntDefault(combine.KeyQueueBuffer, o.buffer)
	}
}

func WithQueueBuffer(n int) QueueOption {
	return func(o *queueOptions) {
		o.buffer = n
	}
}

func WithQueueLogger(l combine.Logger) QueueOption {
	return func(o *queueOptions) {
		o.logger = l
	}
}

// NewDispatchQueue starts a queue. An empty label is replaced by a random one.
func NewDispatchQueue(label string, opts ...QueueOption) *DispatchQueue {
	o := &queueOptions{
		buffer: defaultQueueBuffer,
		logger: logger,
	}
	WithQueueConfig(combine.GlobalConfig())(o)
	for _, opt := range opts {
		opt(o)
	}
	if label == "" {
		label = uuid.NewString()
	}

	q := &DispatchQueue{
		Logger: o.logger.WithField("queue", label),
		label:  label,
		limit:  o.buffer,
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	q.Debugf("dispatch queue %s started", label)

	go q.run()

	return q
}

func (q *DispatchQueue) Label() string {
	return q.label
}

// Limit is the mailbox bound, zero when unbounded.
func (q *DispatchQueue) Limit() int {
	if q.limit < 0 {
		return 0
	}
	return q.limit
}

func (q *DispatchQueue) enqueue(j *job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	if q.limit > 0 && len(q.jobs) >= q.limit {
		return ErrQueueFull
	}
	q.jobs = append(q.jobs, j)
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return nil
}

func (q *DispatchQueue) dequeue() (*job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return nil, false
	}
	j := q.jobs[0]
	q.jobs[0] = nil
	if len(q.jobs) == 1 {
		q.jobs = q.jobs[:0]
	} else {
		q.jobs = q.jobs[1:]
	}
	return j, true
}

func (q *DispatchQueue) run() {
	defer close(q.done)
	for {
		if j, ok := q.dequeue(); ok {
			if err := j.execute(); err != nil {
				q.Errorf("job panicked: %v", err)
			}
			continue
		}
		if _, open := <-q.signal; !open {
			// closed; run what is left
			for j, ok := q.dequeue(); ok; j, ok = q.dequeue() {
				if err := j.execute(); err != nil {
					q.Errorf("job panicked: %v", err)
				}
			}
			q.Debugf("dispatch queue %s stopped", q.label)
			return
		}
	}
}

// Async submits fn without waiting for it.
func (q *DispatchQueue) Async(fn func()) error {
	return q.enqueue(asyncJob(fn))
}

// Sync submits fn and waits until it ran. Calling Sync from a job on the same
// queue deadlocks.
func (q *DispatchQueue) Sync(fn func()) error {
	return q.SyncWithContext(context.Background(), fn)
}

func (q *DispatchQueue) SyncWithTimeout(fn func(), timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return q.SyncWithContext(ctx, fn)
}

// SyncWithContext submits fn and waits until it ran or ctx is done. A panic
// inside fn is returned as a combine.PanicError.
func (q *DispatchQueue) SyncWithContext(ctx context.Context, fn func()) error {
	reply := make(chan error, 1)
	if err := q.enqueue(syncJob(fn, reply)); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-reply:
		return err
	}
}

// Close stops accepting work. Jobs already submitted still run.
func (q *DispatchQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}

// Closed is closed once the queue goroutine has exited.
func (q *DispatchQueue) Closed() <-chan struct{} {
	return q.done
}

func (q *DispatchQueue) Now() time.Time {
	return time.Now()
}

func (q *DispatchQueue) Schedule(fn func()) {
	switch err := q.Async(fn); {
	case errors.Is(err, ErrQueueFull):
		q.Warnf("dropping scheduled work: %v", err)
	case err != nil:
		q.Debugf("dropping scheduled work: %v", err)
	}
}

func (q *DispatchQueue) ScheduleAfter(d time.Duration, fn func()) Cancellable {
	var mu sync.Mutex
	cancelled := false
	t := time.AfterFunc(d, func() {
		q.Schedule(func() {
			mu.Lock()
			skip := cancelled
			mu.Unlock()
			if !skip {
				fn()
			}
		})
	})
	return CancelFunc(func() {
		mu.Lock()
		cancelled = true
		mu.Unlock()
		t.Stop()
	})
}
