package task_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/asynkit/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestCompleted(t *testing.T) {
	t.Parallel()

	tk := task.Completed(42)

	assert.True(t, tk.IsCompleted())
	assert.False(t, tk.IsFaulted())
	assert.False(t, tk.IsCanceled())
	assert.Equal(t, 42, tk.Result())
	assert.NoError(t, tk.Err())
	assert.NoError(t, tk.Fault())

	v, err := tk.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	select {
	case <-tk.Done():
	default:
		t.Fatal("Done channel of a completed task is not closed")
	}
}

func TestFailed(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	tk := task.Failed[int](errBoom)

	assert.True(t, tk.IsCompleted())
	assert.False(t, tk.IsFaulted())
	assert.False(t, tk.IsCanceled())
	assert.Zero(t, tk.Result())
	assert.Equal(t, errBoom, tk.Err())
	assert.NoError(t, tk.Fault())

	_, err := tk.Await(context.Background())
	assert.ErrorIs(t, err, errBoom)
}

func TestFaulted(t *testing.T) {
	t.Parallel()

	errDefect := errors.New("defect")
	tk := task.Faulted[int](errDefect)

	assert.True(t, tk.IsCompleted())
	assert.True(t, tk.IsFaulted())
	assert.False(t, tk.IsCanceled())
	assert.Equal(t, errDefect, tk.Fault())
	assert.NoError(t, tk.Err(), "a fault is not a failure")

	_, err := tk.Await(context.Background())
	assert.ErrorIs(t, err, errDefect)
}

func TestCanceled(t *testing.T) {
	t.Parallel()

	tk := task.Canceled[int]()

	assert.True(t, tk.IsCompleted())
	assert.True(t, tk.IsCanceled())
	assert.False(t, tk.IsFaulted())
	assert.NoError(t, tk.Err(), "cancellation is not a failure")
	assert.NoError(t, tk.Fault())

	_, err := tk.Await(context.Background())
	assert.ErrorIs(t, err, task.ErrCanceled)
}

func TestConstructorNilGuards(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, "Failed(nil): undefined behavior", func() {
		task.Failed[int](nil)
	})
	assert.PanicsWithValue(t, "Faulted(nil): undefined behavior", func() {
		task.Faulted[int](nil)
	})
}

func TestPromiseOneShot(t *testing.T) {
	t.Parallel()

	p := task.NewPromise[int]()
	tk := p.Task()

	assert.False(t, tk.IsCompleted())
	assert.Zero(t, tk.Result())
	assert.NoError(t, tk.Err())

	assert.True(t, p.TrySucceed(7))
	assert.False(t, p.TrySucceed(8))
	assert.False(t, p.TryFail(errors.New("late")))
	assert.False(t, p.TryFault(errors.New("late")))
	assert.False(t, p.TryCancel())

	assert.Equal(t, 7, tk.Result())
	assert.True(t, tk.IsCompleted())
}

func TestPromiseSameTask(t *testing.T) {
	t.Parallel()

	p := task.NewPromise[int]()
	assert.Same(t, p.Task(), p.Task())
}

func TestPromiseAlreadyCompletedPanics(t *testing.T) {
	t.Parallel()

	p := task.NewPromise[int]()
	p.Succeed(1)

	assert.PanicsWithValue(t, "task: already completed", func() { p.Succeed(2) })
	assert.PanicsWithValue(t, "task: already completed", func() { p.Fail(errors.New("x")) })
	assert.PanicsWithValue(t, "task: already completed", func() { p.Fault(errors.New("x")) })
	assert.PanicsWithValue(t, "task: already completed", func() { p.Cancel() })
}

func TestPromiseNilErrorGuards(t *testing.T) {
	t.Parallel()

	p := task.NewPromise[int]()

	assert.PanicsWithValue(t, "TryFail(nil): undefined behavior", func() { p.TryFail(nil) })
	assert.PanicsWithValue(t, "TryFault(nil): undefined behavior", func() { p.TryFault(nil) })
	assert.PanicsWithValue(t, "Fail(nil): undefined behavior", func() { p.Fail(nil) })
	assert.PanicsWithValue(t, "Fault(nil): undefined behavior", func() { p.Fault(nil) })

	assert.False(t, p.Task().IsCompleted(), "nil-error guards must not complete the task")
}

func TestPromiseConcurrentCompletion(t *testing.T) {
	t.Parallel()

	p := task.NewPromise[int]()
	var wins atomic.Int32

	var g errgroup.Group
	for i := range 64 {
		g.Go(func() error {
			switch i % 3 {
			case 0:
				if p.TrySucceed(i) {
					wins.Add(1)
				}
			case 1:
				if p.TryFail(errors.New("lost the race")) {
					wins.Add(1)
				}
			default:
				if p.TryCancel() {
					wins.Add(1)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), wins.Load(), "exactly one completion wins")
	assert.True(t, p.Task().IsCompleted())
}

func TestWaitBlocksUntilCompletion(t *testing.T) {
	t.Parallel()

	p := task.NewPromise[string]()
	tk := p.Task()

	released := make(chan struct{})
	go func() {
		defer close(released)
		tk.Wait()
	}()

	select {
	case <-released:
		t.Fatal("Wait returned before completion")
	case <-time.After(50 * time.Millisecond):
	}

	p.Succeed("ready")
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after completion")
	}

	tk.Wait() // waiting again returns at once
	assert.Equal(t, "ready", tk.Result())
}

func TestAwait(t *testing.T) {
	t.Parallel()

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := task.NewPromise[int]()
		_, err := p.Task().Await(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, p.Task().IsCompleted(), "Await must not complete the task")
	})

	t.Run("completed task beats canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		v, err := task.Completed(7).Await(ctx)
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})

	t.Run("completion while awaiting", func(t *testing.T) {
		t.Parallel()

		p := task.NewPromise[int]()
		go func() {
			time.Sleep(20 * time.Millisecond)
			p.Succeed(3)
		}()

		v, err := p.Task().Await(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, v)
	})
}

func TestDoneSelectable(t *testing.T) {
	t.Parallel()

	p := task.NewPromise[int]()

	select {
	case <-p.Task().Done():
		t.Fatal("Done channel of a pending task is closed")
	default:
	}

	go p.Succeed(1)

	select {
	case <-p.Task().Done():
	case <-time.After(time.Second):
		t.Fatal("Done channel never closed")
	}
}
