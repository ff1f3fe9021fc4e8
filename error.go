package combine

import "fmt"

// PanicError carries a value recovered from a panic so it can travel as an
// ordinary error, e.g. inside a failure completion.
type PanicError struct {
	err error
}

func Recovered(v interface{}) error {
	if err, ok := v.(error); ok {
		return PanicError{err}
	}
	return PanicError{fmt.Errorf("panic: %v", v)}
}

func (e PanicError) Error() string {
	return e.err.Error()
}

func (e PanicError) Unwrap() error {
	return e.err
}
