package task

import "context"

// WithContext returns a task that completes like t, except that it is
// canceled right away if ctx is done before t completes. The underlying
// work is not interrupted; t itself still completes on its own terms.
//
// If t has already completed, WithContext returns t unchanged.
func WithContext[T any](ctx context.Context, t *Task[T]) *Task[T] {
	if t.IsCompleted() {
		return t
	}
	p := NewPromise[T]()
	out := p.Task()
	stop := context.AfterFunc(ctx, func() { p.TryCancel() })
	t.attach(immediateExecutor{}, 0, func(depth int) {
		stop()
		t.copyTo(out, depth)
	})
	return out
}
