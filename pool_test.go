package task_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/asynkit/task"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsAllWork(t *testing.T) {
	t.Parallel()

	pool := task.NewPool(4, 8)

	var done atomic.Int32
	for range 32 {
		pool.Execute(func() { done.Add(1) })
	}
	pool.Close()

	assert.Equal(t, int32(32), done.Load(), "Close waits for submitted work")
}

func TestPoolCloseIdempotent(t *testing.T) {
	t.Parallel()

	pool := task.NewPool(1, 0)
	pool.Close()
	pool.Close()
}

func TestPoolExecuteAfterClosePanics(t *testing.T) {
	t.Parallel()

	pool := task.NewPool(1, 0)
	pool.Close()

	assert.PanicsWithValue(t, "task: Execute on closed Pool", func() {
		pool.Execute(func() {})
	})
}

func TestPoolConcurrencyBound(t *testing.T) {
	t.Parallel()

	pool := task.NewPool(2, 32)
	defer pool.Close()

	var cur, peak atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		pool.Execute(func() {
			defer wg.Done()
			n := cur.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			cur.Add(-1)
		})
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Positive(t, peak.Load())
}

func TestPoolSingleWorkerPreservesOrder(t *testing.T) {
	t.Parallel()

	pool := task.NewPool(1, 16)

	var got []int
	for i := range 16 {
		pool.Execute(func() { got = append(got, i) })
	}
	pool.Close()

	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("single worker ran out of submission order (-want +got):\n%s", diff)
	}
}

func TestPoolAsContinuationExecutor(t *testing.T) {
	t.Parallel()

	pool := task.NewPool(3, 8)
	defer pool.Close()

	tasks := make([]*task.Task[int], 9)
	for i := range tasks {
		tasks[i] = task.Run(pool, func() (int, error) { return i, nil })
	}

	sum := task.Then(task.AllResults(tasks...), pool, func(vs []int) (int, error) {
		total := 0
		for _, v := range vs {
			total += v
		}
		return total, nil
	})

	v, err := sum.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 36, v)
}

func TestNewPoolGuards(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, "task: NewPool: nonpositive worker count", func() {
		task.NewPool(0, 4)
	})
	assert.PanicsWithValue(t, "task: NewPool: negative queue size", func() {
		task.NewPool(1, -1)
	})
	assert.PanicsWithValue(t, "Execute(nil): undefined behavior", func() {
		pool := task.NewPool(1, 0)
		defer pool.Close()
		pool.Execute(nil)
	})
}
