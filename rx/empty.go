package rx

// Empty publishes no values. When completeImmediately is set it finishes as
// soon as it is subscribed; otherwise it stays silent until cancelled.
func Empty[T any, E error](completeImmediately bool) Publisher[T, E] {
	return PublisherFunc[T, E](func(sub Subscriber[T, E]) {
		e := newEmitter(sub, overflowBuffer)
		if completeImmediately {
			e.done = &Completion[E]{}
		}
		e.start()
	})
}

// EmptyNever is Empty for publishers that cannot fail.
func EmptyNever[T any]() Publisher[T, Never] {
	return Empty[T, Never](true)
}

// Fail publishes no values and fails with err as soon as it is subscribed.
func Fail[T any, E error](err E) Publisher[T, E] {
	return PublisherFunc[T, E](func(sub Subscriber[T, E]) {
		e := newEmitter(sub, overflowBuffer)
		c := Failure(err)
		e.done = &c
		e.start()
	})
}
