package playground

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/7vars/combine/rx"
)

var errExample = errors.New("example error")

// page writes one section of annotated demonstrations.
type page struct {
	w      io.Writer
	prefix string
}

func (p *page) println(s string) {
	fmt.Fprintln(p.w, s)
}

func (p *page) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *page) section(title string) {
	rule := strings.Repeat("-", len(title))
	p.println(rule)
	p.println(title)
	p.println(rule)
}

func (p *page) subsection(title string) {
	p.println("")
	p.println("* " + title)
}

func (p *page) note(format string, args ...interface{}) {
	p.printf("- "+format+" -", args...)
}

func (p *page) end() {
	p.println("")
}

func values[T any](p *page) func(T) {
	return func(v T) {
		p.printf("Output: %v", v)
	}
}

func stampedValues[T any](p *page, clock *rx.TestScheduler) func(T) {
	return func(v T) {
		p.printf("[%v] Output: %v", clock.Elapsed(), v)
	}
}

func events[E error](p *page) func(rx.Completion[E]) {
	return func(c rx.Completion[E]) {
		if c.IsFinished() {
			p.println("Completion event: finished")
			return
		}
		p.printf("Completion event: failure (%v)", error(c.Err()))
	}
}

// at schedules fn on the virtual clock, relative to its start.
func at(clock *rx.TestScheduler, d time.Duration, fn func()) {
	clock.ScheduleAfter(d-clock.Elapsed(), fn)
}
