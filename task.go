package task

import (
	"context"
	"errors"
	"sync"
)

// ErrCanceled is the error returned by [Task.Await] when the awaited task
// was canceled.
var ErrCanceled = errors.New("task: canceled")

const (
	statePending uint8 = iota
	stateSucceeded
	stateFailed
	stateFaulted
	stateCanceled
)

// closedchan is a reusable closed channel for tasks born completed.
var closedchan = make(chan struct{})

func init() {
	close(closedchan)
}

// A Task is a value that an asynchronous operation will produce, or already
// has produced. A task completes exactly once, in one of four ways:
//
//   - succeeded, with a value of type T;
//   - failed, with an error;
//   - faulted, with a [*PanicError] or another defect;
//   - canceled.
//
// Once completed, a task never changes again.
//
// Tasks come from a [Promise], from [Run] and [RunTask], from the
// constructors [Completed], [Failed], [Faulted] and [Canceled], or from
// combinators like [All] and [Delay]. The zero Task is not ready for use.
//
// The outcome can be observed three ways: polled with [Task.Result],
// [Task.Err], [Task.Fault] and the Is predicates, waited for with
// [Task.Wait], [Task.Await] or [Task.Done], or subscribed to by attaching a
// continuation with [ContinueWith], [Then] and their Task-returning
// variants. Continuations attached after completion still run.
//
// All methods are safe for concurrent use.
type Task[T any] struct {
	mu    sync.Mutex
	state uint8
	value T
	err   error
	conts []continuation
	done  chan struct{}
}

// A continuation is a unit of work attached to a task, waiting for its
// completion. run receives the synchronous completion depth of the
// dispatching goroutine.
type continuation struct {
	ex  Executor
	run func(depth int)
}

func newPending[T any]() *Task[T] {
	return &Task[T]{done: make(chan struct{})}
}

func terminal[T any](state uint8, value T, err error) *Task[T] {
	return &Task[T]{state: state, value: value, err: err, done: closedchan}
}

// Completed returns a task that has already succeeded with value.
func Completed[T any](value T) *Task[T] {
	return terminal(stateSucceeded, value, nil)
}

// Failed returns a task that has already failed with err.
func Failed[T any](err error) *Task[T] {
	if err == nil {
		panic("Failed(nil): undefined behavior")
	}
	var zero T
	return terminal(stateFailed, zero, err)
}

// Faulted returns a task that has already faulted with fault.
//
// Faults normally arise from captured panics. Use [Failed] for ordinary
// errors and Faulted only to re-propagate a fault taken from another task.
func Faulted[T any](fault error) *Task[T] {
	if fault == nil {
		panic("Faulted(nil): undefined behavior")
	}
	var zero T
	return terminal(stateFaulted, zero, fault)
}

// Canceled returns a task that has already been canceled.
func Canceled[T any]() *Task[T] {
	var zero T
	return terminal(stateCanceled, zero, ErrCanceled)
}

// Result returns the value t succeeded with.
// It is the zero value of T while t is pending and in every terminal state
// but succeeded. Result never blocks; to wait for the value, use
// [Task.Await].
func (t *Task[T]) Result() T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// Err returns the error t failed with.
// It is nil while t is pending and in every terminal state but failed; in
// particular it is nil when t was canceled or faulted. [Task.Await] folds
// all non-success outcomes into one error.
func (t *Task[T]) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != stateFailed {
		return nil
	}
	return t.err
}

// Fault returns the defect t faulted with, usually a [*PanicError].
// It is nil while t is pending and in every terminal state but faulted.
func (t *Task[T]) Fault() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != stateFaulted {
		return nil
	}
	return t.err
}

// IsCompleted reports whether t has completed, in any terminal state.
func (t *Task[T]) IsCompleted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state != statePending
}

// IsFaulted reports whether t completed with a fault.
func (t *Task[T]) IsFaulted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == stateFaulted
}

// IsCanceled reports whether t was canceled.
func (t *Task[T]) IsCanceled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == stateCanceled
}

// Done returns a channel that is closed when t completes.
// It is suitable for use in a select statement.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until t completes.
//
// Waiting on a task whose completion depends on the waiting goroutine
// deadlocks, for example waiting from a continuation running on the only
// worker of the [Pool] that must also run the completing work. Prefer
// [Task.Await] with a deadline when unsure.
func (t *Task[T]) Wait() {
	<-t.done
}

// Await blocks until t completes or ctx is done, whichever comes first.
//
// On completion, Await returns the task's value and a nil error when it
// succeeded, its error when it failed or faulted, and [ErrCanceled] when it
// was canceled. When ctx is done first, Await returns the zero value and
// ctx.Err(). A task that has already completed takes priority over a
// context that is already done.
//
// Await does not cancel t; abandoning a task leaves it running. To tie a
// task's lifetime to a context, use [WithContext].
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-t.done:
	default:
		select {
		case <-t.done:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == stateSucceeded {
		return t.value, nil
	}
	var zero T
	return zero, t.err
}

// succeeded returns the value of t and whether t has succeeded.
func (t *Task[T]) succeeded() (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, t.state == stateSucceeded
}

// load snapshots the terminal outcome of t.
func (t *Task[T]) load() (uint8, T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state, t.value, t.err
}

// attach schedules run on ex once t completes.
// If t has already completed, run is dispatched right away at the caller's
// depth. Continuations attached while t is pending are dispatched in
// attachment order when t completes.
func (t *Task[T]) attach(ex Executor, depth int, run func(depth int)) {
	t.mu.Lock()
	if t.state == statePending {
		t.conts = append(t.conts, continuation{ex: ex, run: run})
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()
	dispatch(ex, depth, run)
}

// completeAt moves t from pending to state and hands every attached
// continuation to its executor, in attachment order. depth counts the
// completions the calling goroutine has already run synchronously, letting
// the default executor bound its cascades. It reports whether t was still
// pending.
func (t *Task[T]) completeAt(depth int, state uint8, value T, err error) bool {
	t.mu.Lock()
	if t.state != statePending {
		t.mu.Unlock()
		return false
	}
	t.state = state
	t.value = value
	t.err = err
	conts := t.conts
	t.conts = nil
	close(t.done)
	t.mu.Unlock()

	for _, c := range conts {
		dispatch(c.ex, depth, c.run)
	}
	return true
}

func (t *Task[T]) succeedAt(depth int, value T) bool {
	return t.completeAt(depth, stateSucceeded, value, nil)
}

func (t *Task[T]) failAt(depth int, err error) bool {
	var zero T
	return t.completeAt(depth, stateFailed, zero, err)
}

func (t *Task[T]) faultAt(depth int, fault error) bool {
	var zero T
	return t.completeAt(depth, stateFaulted, zero, fault)
}

func (t *Task[T]) cancelAt(depth int) bool {
	var zero T
	return t.completeAt(depth, stateCanceled, zero, ErrCanceled)
}

// copyTo completes out with the terminal outcome of t.
func (t *Task[T]) copyTo(out *Task[T], depth int) {
	state, value, err := t.load()
	switch state {
	case stateSucceeded:
		out.succeedAt(depth, value)
	case stateFailed:
		out.failAt(depth, err)
	case stateFaulted:
		out.faultAt(depth, err)
	case stateCanceled:
		out.cancelAt(depth)
	default:
		panic("internal error: copy of pending task")
	}
}

// forward completes out with the non-success outcome of t, which may carry
// a different result type.
func forward[T, U any](t *Task[T], out *Task[U], depth int) {
	state, _, err := t.load()
	switch state {
	case stateFailed:
		out.failAt(depth, err)
	case stateFaulted:
		out.faultAt(depth, err)
	case stateCanceled:
		out.cancelAt(depth)
	default:
		panic("internal error: forward of successful task")
	}
}

// An Awaitable is the read side of a task, independent of its result type.
//
// Every [Task] is an Awaitable. Code that cares about completion but not
// the value can mix tasks of different result types, the way [All] does.
// Awaitable is implemented only by types of this package.
type Awaitable interface {
	// Done returns a channel that is closed when the task completes.
	Done() <-chan struct{}
	// Wait blocks until the task completes.
	Wait()
	IsCompleted() bool
	IsFaulted() bool
	IsCanceled() bool
	Err() error
	Fault() error

	attach(ex Executor, depth int, run func(depth int))
}
