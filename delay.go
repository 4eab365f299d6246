package task

import (
	"context"
	"time"
)

// Delay returns a task that succeeds once d has elapsed.
// A nonpositive d completes the task almost immediately, from the timer's
// goroutine.
func Delay(d time.Duration) *Task[struct{}] {
	p := NewPromise[struct{}]()
	time.AfterFunc(d, func() { p.TrySucceed(struct{}{}) })
	return p.Task()
}

// DelayContext returns a task that succeeds once d has elapsed, or is
// canceled if ctx is done first. Whichever happens first stops the other
// source, so an abandoned timer does not linger for the full duration.
func DelayContext(ctx context.Context, d time.Duration) *Task[struct{}] {
	p := NewPromise[struct{}]()
	t := p.Task()
	tm := time.AfterFunc(d, func() { p.TrySucceed(struct{}{}) })
	stop := context.AfterFunc(ctx, func() { p.TryCancel() })
	t.attach(immediateExecutor{}, 0, func(int) {
		tm.Stop()
		stop()
	})
	return t
}
