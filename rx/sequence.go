package rx

// Sequence publishes the elements of values in order, one per unit of demand,
// then finishes. Nil elements are published like any other value.
//
// The slice is copied when the publisher is built.
func Sequence[T any](values []T) Publisher[T, Never] {
	return SequenceOf[T, Never](values)
}

// SequenceOf is Sequence with a failure type chosen by the caller, for chains
// that must match a fallible upstream.
func SequenceOf[T any, E error](values []T) Publisher[T, E] {
	snapshot := make([]T, len(values))
	copy(snapshot, values)

	return PublisherFunc[T, E](func(sub Subscriber[T, E]) {
		e := newEmitter(sub, overflowBuffer)
		e.src = &sliceIterator[T]{values: snapshot}
		e.done = &Completion[E]{}
		e.start()
	})
}

// Range publishes the integers in [from, to].
func Range(from, to int) Publisher[int, Never] {
	return PublisherFunc[int, Never](func(sub Subscriber[int, Never]) {
		e := newEmitter(sub, overflowBuffer)
		e.src = &rangeIterator{next: from, last: to}
		e.done = &Completion[Never]{}
		e.start()
	})
}

type rangeIterator struct {
	next int
	last int
}

func (it *rangeIterator) Next() (int, bool) {
	if it.next > it.last {
		return 0, false
	}
	v := it.next
	it.next++
	return v, true
}

func (it *rangeIterator) Done() bool {
	return it.next > it.last
}
