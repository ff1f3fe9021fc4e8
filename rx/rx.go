// Package rx implements demand-driven reactive streams: publishers, subjects,
// subscribers, operators and the cancellables that own their lifetimes.
//
// A Subscriber attaches to a Publisher with Subscribe. The Publisher answers
// synchronously with ReceiveSubscription, and no value flows until the
// Subscriber requests Demand on that Subscription. A Publisher never delivers
// more values than the Subscriber requested in total, and ends with at most one
// Completion. A cancelled Subscription delivers nothing further, not even a
// completion.
package rx

import (
	"errors"
	"math"
)

var (
	ErrQueueClosed = errors.New("dispatch queue closed")
	ErrQueueFull   = errors.New("dispatch queue full")
	ErrNoValue     = errors.New("publisher finished without a value")
)

// Demand is the number of values a subscriber is willing to receive.
type Demand uint64

const (
	None      Demand = 0
	Unlimited Demand = math.MaxUint64
)

func Max(n int) Demand {
	if n <= 0 {
		return None
	}
	return Demand(n)
}

// Add returns d+o, saturating at Unlimited.
func (d Demand) Add(o Demand) Demand {
	if d == Unlimited || o == Unlimited || d > Unlimited-o {
		return Unlimited
	}
	return d + o
}

// Sub returns d-o, floored at None. Unlimited stays Unlimited.
func (d Demand) Sub(o Demand) Demand {
	if d == Unlimited {
		return Unlimited
	}
	if o >= d {
		return None
	}
	return d - o
}

func (d Demand) IsUnlimited() bool {
	return d == Unlimited
}

// Never is the failure type of publishers that cannot fail. No type implements
// it, so the only Never value is nil.
type Never interface {
	error
	never()
}

// Completion is the terminal event of a stream.
type Completion[E error] struct {
	err    E
	failed bool
}

func Finished[E error]() Completion[E] {
	return Completion[E]{}
}

// Failure builds a failed completion. A Never failure cannot exist, so for
// E = Never it returns Finished.
func Failure[E error](err E) Completion[E] {
	if _, never := any(&err).(*Never); never {
		return Completion[E]{}
	}
	return Completion[E]{err: err, failed: true}
}

func (c Completion[E]) IsFinished() bool {
	return !c.failed
}

func (c Completion[E]) Err() E {
	return c.err
}

func (c Completion[E]) String() string {
	if c.failed {
		if err := toError(c.err); err != nil {
			return "failure(" + err.Error() + ")"
		}
		return "failure"
	}
	return "finished"
}

// Cancellable is anything whose activity can be stopped for good.
type Cancellable interface {
	Cancel()
}

type CancelFunc func()

func (f CancelFunc) Cancel() {
	f()
}

type Subscription interface {
	Cancellable
	Request(Demand)
}

type Publisher[T any, E error] interface {
	Subscribe(Subscriber[T, E])
}

type Subscriber[T any, E error] interface {
	ReceiveSubscription(Subscription)
	// Receive returns the demand added on top of what is still outstanding.
	Receive(T) Demand
	ReceiveCompletion(Completion[E])
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc[T any, E error] func(Subscriber[T, E])

func (f PublisherFunc[T, E]) Subscribe(sub Subscriber[T, E]) {
	f(sub)
}

func mapCompletion[E, F error](c Completion[E], f func(E) F) Completion[F] {
	if c.IsFinished() {
		return Finished[F]()
	}
	return Failure(f(c.Err()))
}

func toError[E error](err E) error {
	return err
}
