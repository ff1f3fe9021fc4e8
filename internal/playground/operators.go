package playground

import (
	"fmt"
	"time"

	"github.com/7vars/combine/rx"
)

func even(v int) bool {
	return v%2 == 0
}

func operators(p *page) {
	var set rx.Set
	defer set.Cancel()

	p.section("Basic Operators")
	p.subsection("Filter")
	rx.Sink(rx.Filter(rx.Range(0, 10), even), events[rx.Never](p), values[int](p)).Store(&set)

	p.subsection("Map")
	isEven := rx.Map(rx.Just(2), func(v int) string {
		return fmt.Sprintf("Is an even number? -> %t", even(v))
	})
	rx.Sink(isEven, events[rx.Never](p), values[string](p)).Store(&set)

	p.subsection("AllSatisfy")
	rx.Sink(rx.AllSatisfy(rx.Range(0, 10), even), events[rx.Never](p), values[bool](p)).Store(&set)

	p.subsection("Count")
	rx.Sink(rx.Count(rx.Range(0, 10)), events[rx.Never](p), values[int](p)).Store(&set)
	p.end()

	p.section("Time Operators")
	p.subsection("Throttle")
	clock := rx.NewTestScheduler()
	foo := rx.NewPublished(0)
	throttled := rx.Throttle(foo.Publisher(), 500*time.Millisecond, clock, false)
	rx.Sink(throttled, events[rx.Never](p), stampedValues[int](p, clock)).Store(&set)
	at(clock, 100*time.Millisecond, func() { foo.Set(1) })
	at(clock, 300*time.Millisecond, func() { foo.Set(2) })
	at(clock, 400*time.Millisecond, func() { foo.Set(3) })
	at(clock, 600*time.Millisecond, func() { foo.Set(4) })
	clock.Run()

	p.subsection("Debounce")
	clock = rx.NewTestScheduler()
	notifications := rx.NewPassthroughSubject[int, rx.Never]()
	debounced := rx.Debounce[int, rx.Never](notifications, 500*time.Millisecond, clock)
	rx.Sink(debounced, events[rx.Never](p), stampedValues[int](p, clock)).Store(&set)
	at(clock, 100*time.Millisecond, func() { notifications.Send(0) })
	at(clock, 300*time.Millisecond, func() { notifications.Send(1) })
	at(clock, 400*time.Millisecond, func() { notifications.Send(2) })
	at(clock, 1200*time.Millisecond, func() { notifications.SendCompletion(rx.Finished[rx.Never]()) })
	clock.Run()
	p.end()

	p.section("Combining Operators")
	p.subsection("Merge")
	clock = rx.NewTestScheduler()
	later := rx.NewFuture(func(promise rx.Promise[bool, rx.Never]) {
		at(clock, 100*time.Millisecond, func() { promise(rx.Success[bool, rx.Never](false)) })
	})
	merged := rx.ReceiveOn(rx.Merge[bool, rx.Never](rx.Just(true), later), clock)
	rx.Sink(merged, events[rx.Never](p), stampedValues[bool](p, clock)).Store(&set)
	clock.Run()

	p.subsection("CombineLatest")
	lhs := rx.NewCurrentValueSubject[bool, rx.Never](true)
	rhs := rx.NewCurrentValueSubject[bool, rx.Never](true)
	both := rx.CombineLatest[bool, bool, bool, rx.Never](lhs, rhs, func(l, r bool) bool {
		return l && r
	})
	rx.Sink(both, events[rx.Never](p), values[bool](p)).Store(&set)
	p.note("Sending false on the second subject")
	rhs.Send(false)
	p.note("Sending true on the second subject")
	rhs.Send(true)
	p.end()

	p.section("Error Handling")
	p.subsection("Catch")
	input := rx.NewPassthroughSubject[int, error]()
	checked := rx.TryMap[int, int, error](input, func(v int) (int, error) {
		if v < 0 {
			return 0, errExample
		}
		return v, nil
	})
	recovered := rx.Catch(checked, func(err error) rx.Publisher[int, error] {
		p.note("An error was detected: %v. Send nothing instead.", err)
		return rx.EraseToAnyPublisher(rx.Empty[int, error](true))
	})
	rx.Sink(recovered, events[error](p), values[int](p)).Store(&set)
	for _, v := range []int{3, 10, -1} {
		p.note("Sending value %d", v)
		input.Send(v)
	}
	p.end()
}
