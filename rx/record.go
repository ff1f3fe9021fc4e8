package rx

// Recording collects the events a Record publisher replays.
type Recording[T any, E error] struct {
	values     []T
	completion *Completion[E]
}

// Receive records a value. Values received after the completion are ignored.
func (r *Recording[T, E]) Receive(v T) {
	if r.completion != nil {
		return
	}
	r.values = append(r.values, v)
}

// ReceiveCompletion records the completion. Only the first one counts.
func (r *Recording[T, E]) ReceiveCompletion(c Completion[E]) {
	if r.completion != nil {
		return
	}
	r.completion = &c
}

// Record replays a fixed list of values followed by a fixed completion to every
// subscriber. It controls order only, never timing. A recording closed without
// a completion finishes.
func Record[T any, E error](record func(*Recording[T, E])) Publisher[T, E] {
	r := &Recording[T, E]{}
	record(r)
	completion := Finished[E]()
	if r.completion != nil {
		completion = *r.completion
	}
	return NewRecord(r.values, completion)
}

func NewRecord[T any, E error](values []T, completion Completion[E]) Publisher[T, E] {
	snapshot := make([]T, len(values))
	copy(snapshot, values)

	return PublisherFunc[T, E](func(sub Subscriber[T, E]) {
		e := newEmitter(sub, overflowBuffer)
		e.src = &sliceIterator[T]{values: snapshot}
		c := completion
		e.done = &c
		e.start()
	})
}
