package rx

// AnyPublisher hides the concrete type of a publisher chain.
type AnyPublisher[T any, E error] struct {
	subscribe func(Subscriber[T, E])
}

func (p AnyPublisher[T, E]) Subscribe(sub Subscriber[T, E]) {
	p.subscribe(sub)
}

// EraseToAnyPublisher wraps pub so that only its element and failure types
// remain visible.
func EraseToAnyPublisher[T any, E error](pub Publisher[T, E]) AnyPublisher[T, E] {
	if erased, ok := pub.(AnyPublisher[T, E]); ok {
		return erased
	}
	return AnyPublisher[T, E]{subscribe: pub.Subscribe}
}
