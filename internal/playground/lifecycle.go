package playground

import "github.com/7vars/combine/rx"

// lifecycle traces the handshake between a publisher and its subscriber.
func lifecycle(p *page) {
	p.section("Life Cycle")
	rx.Sink(rx.PrintTo(rx.Just(5), p.prefix, p.w), nil, values[int](p))

	p.subsection("Demand")
	var subscription rx.Subscription
	rx.PrintTo(rx.Sequence([]int{1, 2, 3}), p.prefix, p.w).Subscribe(rx.AnySubscriber[int, rx.Never]{
		OnSubscription: func(s rx.Subscription) {
			subscription = s
			s.Request(rx.Max(1))
		},
		OnValue: func(v int) rx.Demand {
			values[int](p)(v)
			if v < 2 {
				return rx.Max(1)
			}
			return rx.None
		},
		OnCompletion: events[rx.Never](p),
	})
	p.note("requesting one more")
	subscription.Request(rx.Max(1))
	p.end()
}
