package rx

// Deferred calls factory once per Subscribe and attaches the subscriber to the
// publisher it returns. Side effects of building that publisher are postponed
// until someone subscribes.
func Deferred[T any, E error](factory func() Publisher[T, E]) Publisher[T, E] {
	return PublisherFunc[T, E](func(sub Subscriber[T, E]) {
		factory().Subscribe(sub)
	})
}
