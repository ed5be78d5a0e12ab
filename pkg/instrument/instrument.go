// Package instrument provides the timing combinator shared by the HTTP
// wrapper and the backend client.
package instrument

import (
	"fmt"
	"time"
)

// Recorder receives the elapsed time and outcome of one wrapped call.
// err is nil on success. For a panicking call err is a *PanicError.
type Recorder func(elapsed time.Duration, err error)

// PanicError carries the value of a panic observed by Call.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Call runs fn and reports its duration and outcome to rec exactly once,
// whether fn returns normally, returns an error or panics. The error from fn
// is returned unchanged; a panic is re-raised after recording.
func Call(rec Recorder, fn func() error) (err error) {
	start := time.Now()
	defer func() {
		if v := recover(); v != nil {
			rec(time.Since(start), &PanicError{Value: v})
			panic(v)
		}
		rec(time.Since(start), err)
	}()

	return fn()
}
