package rx

import "github.com/7vars/combine"

// job is one unit of work in a DispatchQueue mailbox. A job built with a reply
// channel reports its outcome exactly once.
type job struct {
	fn      func()
	reply   chan<- error
	replied bool
}

func asyncJob(fn func()) *job {
	return &job{fn: fn}
}

func syncJob(fn func(), reply chan<- error) *job {
	return &job{fn: fn, reply: reply}
}

// execute runs the job and turns a panic into an error.
func (j *job) execute() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = combine.Recovered(r)
		}
		j.respond(err)
	}()
	j.fn()
	return nil
}

func (j *job) respond(err error) {
	if j.reply == nil || j.replied {
		return
	}
	j.replied = true
	j.reply <- err
}
