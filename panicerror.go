package task

import (
	"errors"
	"fmt"
)

// ErrGoexit is the fault recorded when a task function exits by calling
// [runtime.Goexit] instead of returning.
var ErrGoexit = errors.New("task: task function called runtime.Goexit")

// A PanicError is the fault recorded when a task function panics. Value is
// the value the function panicked with and Stack is the stack of the
// panicking goroutine, as captured by [runtime/debug.Stack].
//
// Use [errors.As] to retrieve it from the fault of a downstream task:
//
//	var pe *task.PanicError
//	if errors.As(t.Fault(), &pe) {
//		log.Printf("%v\n%s", pe.Value, pe.Stack)
//	}
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task: panic: %v", e.Value)
}

// Unwrap returns Value when the function panicked with an error, and nil
// otherwise.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
