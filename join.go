package task

import (
	"sync"

	"github.com/hashicorp/go-multierror"
)

// All returns a task that completes once every task in s has completed.
//
// The returned task succeeds when all of them succeed. If any fail or
// fault, it faults with every collected error; a single error is carried
// as is, several are wrapped in a [*multierror.Error], and [errors.Is] and
// [errors.As] see through the wrapping either way. If nothing failed but
// at least one input was canceled, the result is canceled. A failure
// anywhere beats cancellation elsewhere.
//
// All of no tasks returns a task that has already succeeded.
func All(s ...Awaitable) *Task[struct{}] {
	if len(s) == 0 {
		return Completed(struct{}{})
	}

	p := NewPromise[struct{}]()
	var (
		mu        sync.Mutex
		remaining = len(s)
		canceled  bool
		errs      []error
	)
	for _, t := range s {
		t.attach(immediateExecutor{}, 0, func(depth int) {
			mu.Lock()
			switch {
			case t.IsCanceled():
				canceled = true
			case t.IsFaulted():
				errs = append(errs, t.Fault())
			case t.Err() != nil:
				errs = append(errs, t.Err())
			}
			remaining--
			if remaining > 0 {
				mu.Unlock()
				return
			}
			mu.Unlock()

			switch {
			case len(errs) > 0:
				p.task.faultAt(depth, joinErrors(errs))
			case canceled:
				p.task.cancelAt(depth)
			default:
				p.task.succeedAt(depth, struct{}{})
			}
		})
	}
	return p.Task()
}

// AllResults is [All] for tasks of one result type. On success its task
// carries the results in the order of s, regardless of the order in which
// the tasks completed.
//
// AllResults of no tasks returns a task that has already succeeded with an
// empty slice.
func AllResults[T any](s ...*Task[T]) *Task[[]T] {
	all := make([]Awaitable, len(s))
	for i, t := range s {
		all[i] = t
	}
	return Then(All(all...), Immediate(), func(struct{}) ([]T, error) {
		results := make([]T, len(s))
		for i, t := range s {
			results[i] = t.Result()
		}
		return results, nil
	})
}

// Any returns a task that completes with the first task in s to succeed,
// without waiting for the rest.
//
// If no task succeeds, Any waits for all of them and faults with every
// collected error, aggregated the same way [All] aggregates. If none
// succeeded and none failed, the result is canceled.
//
// Any of no tasks returns a task that has already succeeded with the zero
// value.
func Any[T any](s ...*Task[T]) *Task[T] {
	if len(s) == 0 {
		var zero T
		return Completed(zero)
	}

	p := NewPromise[T]()
	var (
		mu        sync.Mutex
		remaining = len(s)
		canceled  bool
		errs      []error
	)
	for _, t := range s {
		t.attach(immediateExecutor{}, 0, func(depth int) {
			if value, ok := t.succeeded(); ok {
				p.task.succeedAt(depth, value)
				return
			}

			mu.Lock()
			switch {
			case t.IsCanceled():
				canceled = true
			case t.IsFaulted():
				errs = append(errs, t.Fault())
			default:
				errs = append(errs, t.Err())
			}
			remaining--
			if remaining > 0 {
				mu.Unlock()
				return
			}
			mu.Unlock()

			switch {
			case len(errs) > 0:
				p.task.faultAt(depth, joinErrors(errs))
			case canceled:
				p.task.cancelAt(depth)
			}
		})
	}
	return p.Task()
}

// joinErrors carries a lone error as is and wraps several in a
// [*multierror.Error].
func joinErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return multierror.Append(nil, errs...)
}
