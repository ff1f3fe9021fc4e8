package rx

import (
	"sync"
	"sync/atomic"
)

// receiveOnSubscriber moves values and the completion onto a scheduler.
// Additional demand returned downstream is requested upstream once the value
// has been handled.
type receiveOnSubscriber[T any, E error] struct {
	sub       Subscriber[T, E]
	scheduler Scheduler

	mu        sync.Mutex
	upstream  Subscription
	cancelled atomic.Bool
}

func (r *receiveOnSubscriber[T, E]) ReceiveSubscription(s Subscription) {
	r.mu.Lock()
	if r.upstream != nil {
		r.mu.Unlock()
		s.Cancel()
		return
	}
	r.upstream = s
	r.mu.Unlock()

	r.sub.ReceiveSubscription(r)
}

func (r *receiveOnSubscriber[T, E]) Receive(v T) Demand {
	r.scheduler.Schedule(func() {
		if r.cancelled.Load() {
			return
		}
		if more := r.sub.Receive(v); more > None {
			r.Request(more)
		}
	})
	return None
}

func (r *receiveOnSubscriber[T, E]) ReceiveCompletion(c Completion[E]) {
	r.scheduler.Schedule(func() {
		if r.cancelled.Load() {
			return
		}
		r.sub.ReceiveCompletion(c)
	})
}

func (r *receiveOnSubscriber[T, E]) Request(d Demand) {
	r.mu.Lock()
	s := r.upstream
	r.mu.Unlock()
	if s != nil && !r.cancelled.Load() {
		s.Request(d)
	}
}

func (r *receiveOnSubscriber[T, E]) Cancel() {
	if r.cancelled.Swap(true) {
		return
	}
	r.mu.Lock()
	s := r.upstream
	r.mu.Unlock()
	if s != nil {
		s.Cancel()
	}
}

// ReceiveOn delivers the values and completion of pub on scheduler. With a
// serial scheduler such as DispatchQueue the delivery order is preserved.
func ReceiveOn[T any, E error](pub Publisher[T, E], scheduler Scheduler) Publisher[T, E] {
	return PublisherFunc[T, E](func(sub Subscriber[T, E]) {
		pub.Subscribe(&receiveOnSubscriber[T, E]{
			sub:       sub,
			scheduler: scheduler,
		})
	})
}
