package rx

// Just publishes v once and finishes. It cannot fail.
func Just[T any](v T) Publisher[T, Never] {
	return PublisherFunc[T, Never](func(sub Subscriber[T, Never]) {
		e := newEmitter(sub, overflowBuffer)
		e.queue = []T{v}
		e.done = &Completion[Never]{}
		e.start()
	})
}
