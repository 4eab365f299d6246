package task

// A Promise is the write side of a [Task]. The code that performs an
// operation holds the promise and completes it exactly once; everyone else
// holds the task and observes.
//
// The Try methods attempt to complete the task and report whether they won;
// they are safe to race against one another. The panicking variants
// [Promise.Succeed], [Promise.Fail], [Promise.Fault] and [Promise.Cancel]
// are for code paths where a second completion can only be a bug.
//
// The zero Promise is not ready for use; promises come from [NewPromise].
type Promise[T any] struct {
	task Task[T]
}

// NewPromise returns a promise whose task is pending.
func NewPromise[T any]() *Promise[T] {
	p := new(Promise[T])
	p.task.done = make(chan struct{})
	return p
}

// Task returns the task completed by p.
// It returns the same task on every call.
func (p *Promise[T]) Task() *Task[T] {
	return &p.task
}

// TrySucceed completes the task with value.
// It reports false when the task had already completed.
func (p *Promise[T]) TrySucceed(value T) bool {
	return p.task.succeedAt(0, value)
}

// TryFail completes the task with err.
// It reports false when the task had already completed.
func (p *Promise[T]) TryFail(err error) bool {
	if err == nil {
		panic("TryFail(nil): undefined behavior")
	}
	return p.task.failAt(0, err)
}

// TryFault completes the task with a fault.
// It reports false when the task had already completed.
func (p *Promise[T]) TryFault(fault error) bool {
	if fault == nil {
		panic("TryFault(nil): undefined behavior")
	}
	return p.task.faultAt(0, fault)
}

// TryCancel cancels the task.
// It reports false when the task had already completed.
func (p *Promise[T]) TryCancel() bool {
	return p.task.cancelAt(0)
}

// Succeed completes the task with value.
// It panics when the task has already completed.
func (p *Promise[T]) Succeed(value T) {
	if !p.TrySucceed(value) {
		panic("task: already completed")
	}
}

// Fail completes the task with err.
// It panics when the task has already completed.
func (p *Promise[T]) Fail(err error) {
	if err == nil {
		panic("Fail(nil): undefined behavior")
	}
	if !p.TryFail(err) {
		panic("task: already completed")
	}
}

// Fault completes the task with a fault.
// It panics when the task has already completed.
func (p *Promise[T]) Fault(fault error) {
	if fault == nil {
		panic("Fault(nil): undefined behavior")
	}
	if !p.TryFault(fault) {
		panic("task: already completed")
	}
}

// Cancel cancels the task.
// It panics when the task has already completed.
func (p *Promise[T]) Cancel() {
	if !p.TryCancel() {
		panic("task: already completed")
	}
}
