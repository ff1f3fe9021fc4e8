package playground

import "github.com/7vars/combine/rx"

func subjects(p *page) {
	var set rx.Set
	defer set.Cancel()

	p.section("CurrentValueSubject")
	p.note("Setting up the subject with an initial value of %d", 5)
	current := rx.NewCurrentValueSubject[int, rx.Never](5)

	p.note("Adding a subscriber")
	rx.SinkValue(current, func(v int) { p.printf("Subs1 - Output: %d", v) }).Store(&set)

	p.subsection("Setting the value with SetValue")
	current.SetValue(10)

	p.note("Adding another subscriber")
	rx.SinkValue(current, func(v int) { p.printf("Subs2 - Output: %d", v) }).Store(&set)

	p.subsection("Setting the value with Send")
	current.Send(15)

	p.note("Adding another subscriber")
	rx.SinkValue(current, func(v int) { p.printf("Subs3 - Output: %d", v) }).Store(&set)
	p.end()

	p.section("Completing a CurrentValueSubject")
	completable := rx.NewCurrentValueSubject[int, error](0)

	p.note("Adding a subscriber")
	rx.Sink(completable, events[error](p), values[int](p)).Store(&set)

	p.note("Sending value 1")
	completable.Send(1)

	p.note("Sending a failure")
	completable.SendCompletion(rx.Failure(errExample))

	p.note("Sending value 2")
	completable.Send(2)
	p.end()

	p.section("PassthroughSubject")
	passthrough := rx.NewPassthroughSubject[int, rx.Never]()

	p.note("Adding a subscriber")
	rx.Sink(passthrough, func(c rx.Completion[rx.Never]) {
		p.printf("Subs1 - Completion: %v", c)
	}, func(v int) {
		p.printf("Subs1 - Output: %d", v)
	}).Store(&set)

	p.note("Sending value 1")
	passthrough.Send(1)

	p.note("Adding a second subscriber")
	rx.Sink(passthrough, func(c rx.Completion[rx.Never]) {
		p.printf("Subs2 - Completion: %v", c)
	}, func(v int) {
		p.printf("Subs2 - Output: %d", v)
	}).Store(&set)

	p.note("Sending value 2")
	passthrough.Send(2)

	p.note("Sending completion")
	passthrough.SendCompletion(rx.Finished[rx.Never]())

	p.note("Sending value 3")
	passthrough.Send(3)
	p.end()
}
