package rx

import (
	"fmt"
	"io"
	"strconv"

	"github.com/7vars/combine"
)

// printer reports every event passing through a stream, from both directions.
type printer[T any, E error] struct {
	sub  Subscriber[T, E]
	line func(string)
}

type printSubscription struct {
	upstream Subscription
	line     func(string)
}

func (p printSubscription) Request(d Demand) {
	p.line("request " + describeDemand(d))
	p.upstream.Request(d)
}

func (p printSubscription) Cancel() {
	p.line("receive cancel")
	p.upstream.Cancel()
}

func (p printer[T, E]) ReceiveSubscription(s Subscription) {
	p.line("receive subscription")
	p.sub.ReceiveSubscription(printSubscription{upstream: s, line: p.line})
}

func (p printer[T, E]) Receive(v T) Demand {
	p.line(fmt.Sprintf("receive value: (%v)", v))
	more := p.sub.Receive(v)
	if more > None {
		p.line("request " + describeDemand(more) + " (synchronous)")
	}
	return more
}

func (p printer[T, E]) ReceiveCompletion(c Completion[E]) {
	if c.IsFinished() {
		p.line("receive finished")
	} else {
		p.line(fmt.Sprintf("receive error: (%v)", toError(c.Err())))
	}
	p.sub.ReceiveCompletion(c)
}

func describeDemand(d Demand) string {
	if d.IsUnlimited() {
		return "unlimited"
	}
	return "max: (" + strconv.FormatUint(uint64(d), 10) + ")"
}

func printWith[T any, E error](pub Publisher[T, E], line func(string)) Publisher[T, E] {
	return PublisherFunc[T, E](func(sub Subscriber[T, E]) {
		pub.Subscribe(printer[T, E]{sub: sub, line: line})
	})
}

// Print logs every subscription, request, value, completion and cancel at
// INFO. An empty prefix falls back to the configured print prefix.
func Print[T any, E error](pub Publisher[T, E], prefix string) Publisher[T, E] {
	if prefix == "" {
		prefix = combine.GlobalConfig().GetStringDefault(combine.KeyPrintPrefix, "")
	}
	log := logger.WithField("prefix", prefix)
	return printWith(pub, func(s string) {
		log.Info(s)
	})
}

// PrintTo writes the events of pub as plain lines to w.
func PrintTo[T any, E error](pub Publisher[T, E], prefix string, w io.Writer) Publisher[T, E] {
	lead := ""
	if prefix != "" {
		lead = prefix + ": "
	}
	return printWith(pub, func(s string) {
		fmt.Fprintln(w, lead+s)
	})
}
