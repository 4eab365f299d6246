package task

import (
	"errors"
	"runtime/debug"
)

var errNilTask = errors.New("task: task function returned a nil task")

// ContinueWith attaches fn to t and returns a task for fn's outcome.
//
// Once t completes, in any terminal state, ex runs fn with t. The returned
// task succeeds with fn's value, fails with fn's error, or faults when fn
// panics. A nil ex means [Default].
func ContinueWith[T, U any](t *Task[T], ex Executor, fn func(*Task[T]) (U, error)) *Task[U] {
	if fn == nil {
		panic("ContinueWith(nil): undefined behavior")
	}
	out := newPending[U]()
	t.attach(ex, 0, func(depth int) {
		completeFrom(out, depth, func() (U, error) { return fn(t) })
	})
	return out
}

// ContinueWithTask is [ContinueWith] for functions that return a task.
// The returned task adopts the outcome of the task fn returns, once that
// one completes. Returning a nil task is a defect and faults the returned
// task.
func ContinueWithTask[T, U any](t *Task[T], ex Executor, fn func(*Task[T]) *Task[U]) *Task[U] {
	if fn == nil {
		panic("ContinueWithTask(nil): undefined behavior")
	}
	out := newPending[U]()
	t.attach(ex, 0, func(depth int) {
		completeFromTask(out, depth, func() *Task[U] { return fn(t) })
	})
	return out
}

// Then attaches fn to t and returns a task for fn's outcome, running fn
// only when t succeeds.
//
// When t fails, faults or is canceled, fn is skipped and the returned task
// completes with t's outcome unchanged, so a chain of Then calls behaves
// like one operation with a single error path at the end. A nil ex means
// [Default].
func Then[T, U any](t *Task[T], ex Executor, fn func(T) (U, error)) *Task[U] {
	if fn == nil {
		panic("Then(nil): undefined behavior")
	}
	out := newPending[U]()
	t.attach(ex, 0, func(depth int) {
		if value, ok := t.succeeded(); ok {
			completeFrom(out, depth, func() (U, error) { return fn(value) })
		} else {
			forward(t, out, depth)
		}
	})
	return out
}

// ThenTask is [Then] for functions that return a task.
// The returned task adopts the outcome of the task fn returns. Returning a
// nil task is a defect and faults the returned task.
func ThenTask[T, U any](t *Task[T], ex Executor, fn func(T) *Task[U]) *Task[U] {
	if fn == nil {
		panic("ThenTask(nil): undefined behavior")
	}
	out := newPending[U]()
	t.attach(ex, 0, func(depth int) {
		if value, ok := t.succeeded(); ok {
			completeFromTask(out, depth, func() *Task[U] { return fn(value) })
		} else {
			forward(t, out, depth)
		}
	})
	return out
}

// Run hands fn to ex and returns a task for its outcome.
// The task succeeds with fn's value, fails with fn's error, or faults when
// fn panics. A nil ex means [Default].
func Run[T any](ex Executor, fn func() (T, error)) *Task[T] {
	if fn == nil {
		panic("Run(nil): undefined behavior")
	}
	out := newPending[T]()
	dispatch(ex, 0, func(depth int) {
		completeFrom(out, depth, fn)
	})
	return out
}

// RunTask is [Run] for functions that return a task.
// The returned task adopts the outcome of the task fn returns.
func RunTask[T any](ex Executor, fn func() *Task[T]) *Task[T] {
	if fn == nil {
		panic("RunTask(nil): undefined behavior")
	}
	out := newPending[T]()
	dispatch(ex, 0, func(depth int) {
		completeFromTask(out, depth, fn)
	})
	return out
}

// completeFrom completes out with the outcome of fn, capturing panics and
// [runtime.Goexit] as faults.
func completeFrom[U any](out *Task[U], depth int, fn func() (U, error)) {
	returned := false
	defer func() {
		if returned {
			return
		}
		if v := recover(); v != nil {
			out.faultAt(depth, &PanicError{Value: v, Stack: debug.Stack()})
		} else {
			out.faultAt(depth, ErrGoexit)
		}
	}()

	value, err := fn()
	returned = true
	if err != nil {
		out.failAt(depth, err)
	} else {
		out.succeedAt(depth, value)
	}
}

// completeFromTask completes out with the outcome of the task returned by
// fn, once that task completes.
func completeFromTask[U any](out *Task[U], depth int, fn func() *Task[U]) {
	returned := false
	defer func() {
		if returned {
			return
		}
		if v := recover(); v != nil {
			out.faultAt(depth, &PanicError{Value: v, Stack: debug.Stack()})
		} else {
			out.faultAt(depth, ErrGoexit)
		}
	}()

	inner := fn()
	returned = true
	if inner == nil {
		out.faultAt(depth, errNilTask)
		return
	}
	inner.attach(immediateExecutor{}, depth, func(depth int) {
		inner.copyTo(out, depth)
	})
}
