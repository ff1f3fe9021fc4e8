package playground

import (
	"strconv"

	"github.com/7vars/combine/rx"
)

// observed reports every change of its value, like a property observer.
type observed struct {
	p     *page
	value int
}

func (o *observed) Set(v int) {
	old := o.value
	o.value = v
	o.p.printf("The value of foo changed from %d to %d", old, v)
}

func subscribers(p *page) {
	p.section("Sink")
	p.subsection("Values only")
	rx.SinkValue(rx.Sequence([]int{1, 2, 3}), values[int](p))

	p.subsection("All events")
	rx.Sink(rx.Sequence([]int{1, 2, 3}), func(c rx.Completion[rx.Never]) {
		events[rx.Never](p)(c)
		if c.IsFinished() {
			p.println("The publisher did terminate.")
		}
	}, values[int](p))
	p.end()

	p.section("Assign")
	foo := &observed{p: p}
	p.printf("Initial value of foo: %d", foo.value)
	p.note("Binding the subscription")
	rx.AssignFunc(rx.Sequence([]int{1, 2, 3}), foo.Set)

	p.subsection("Assign to a variable")
	var target string
	rx.Assign(rx.Map(rx.Just(7), strconv.Itoa), &target)
	p.printf("target is %q", target)
	p.end()
}

func cancellables(p *page) {
	p.section("Cancellable")
	subject := rx.NewPassthroughSubject[int, rx.Never]()

	p.subsection("Manual cancelling")
	p.println("Binding the subscription")
	c := rx.SinkValue(subject, values[int](p))
	subject.Send(0)
	subject.Send(1)
	p.println("Cancelling the subscription")
	c.Cancel()
	p.println("The publisher sent another value after the cancellation which was not received.")
	subject.Send(2)

	p.subsection("Automatic cancelling")
	p.println("Binding the subscription")
	var set rx.Set
	rx.SinkValue(subject, values[int](p)).Store(&set)
	subject.Send(0)
	subject.Send(1)
	p.printf("Clearing the set holding %d subscription(s)", set.Len())
	set.Clear()
	p.println("The publisher sent another value after the cancellation which was not received.")
	subject.Send(2)
	p.end()
}
