package playground

import "github.com/7vars/combine/rx"

func publishers(p *page) {
	p.section("Just")
	rx.Sink(rx.Just(5), events[rx.Never](p), values[int](p))
	p.end()

	p.section("Future")
	p.subsection("Success")
	success := rx.NewFuture(func(promise rx.Promise[int, error]) {
		promise(rx.Success[int, error](5))
	})
	rx.Sink(success, events[error](p), values[int](p))

	p.subsection("Failure")
	failure := rx.NewFuture(func(promise rx.Promise[int, error]) {
		promise(rx.Failed[int](errExample))
	})
	rx.Sink(failure, events[error](p), values[int](p))

	p.subsection("Eager execution")
	eager := rx.NewFuture(func(promise rx.Promise[int, rx.Never]) {
		p.println("Inside the future")
		promise(rx.Success[int, rx.Never](5))
	})
	p.println("Subscribing to the future")
	rx.Sink(eager, events[rx.Never](p), values[int](p))
	p.end()

	p.section("Deferred")
	deferred := rx.Deferred(func() rx.Publisher[int, rx.Never] {
		return rx.NewFuture(func(promise rx.Promise[int, rx.Never]) {
			p.println("Inside the future")
			promise(rx.Success[int, rx.Never](5))
		})
	})
	p.println("Subscribing to the deferred publisher")
	rx.Sink(deferred, events[rx.Never](p), values[int](p))
	p.end()

	p.section("Empty")
	rx.Sink(rx.Empty[any, error](true), events[error](p), values[any](p))
	p.end()

	p.section("Sequence")
	rx.Sink(rx.Sequence([]any{0, 1, nil, 3, 4}), events[rx.Never](p), values[any](p))
	p.end()

	p.section("Fail")
	rx.Sink(rx.Fail[int](errExample), events[error](p), values[int](p))
	p.end()

	p.section("Record")
	record := rx.Record(func(r *rx.Recording[int, rx.Never]) {
		r.Receive(1)
		r.Receive(2)
		r.Receive(3)
		r.ReceiveCompletion(rx.Finished[rx.Never]())
	})
	rx.Sink(record, events[rx.Never](p), values[int](p))
	p.end()

	p.section("Published")
	published := rx.NewPublished(0)
	c := rx.Sink(published.Publisher(), events[rx.Never](p), values[int](p))
	published.Set(1)
	published.Set(2)
	c.Cancel()
	p.end()
}
