package task

import (
	"sync"
	"sync/atomic"
)

// A Pool is an [Executor] backed by a fixed number of worker goroutines
// draining a shared queue. Work submitted from a single goroutine starts in
// submission order; with more than one worker it may still finish out of
// order.
type Pool struct {
	queue  chan func()
	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewPool returns a pool of workers goroutines behind a queue holding up to
// queueSize pending functions. Submission blocks while the queue is full.
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		panic("task: NewPool: nonpositive worker count")
	}
	if queueSize < 0 {
		panic("task: NewPool: negative queue size")
	}
	p := &Pool{queue: make(chan func(), queueSize)}
	for range workers {
		p.wg.Go(p.worker)
	}
	return p
}

func (p *Pool) worker() {
	for fn := range p.queue {
		fn()
	}
}

// Execute submits fn to the pool, blocking while the queue is full.
// It panics when the pool is closed. Execute must not be called
// concurrently with [Pool.Close].
func (p *Pool) Execute(fn func()) {
	if fn == nil {
		panic("Execute(nil): undefined behavior")
	}
	if p.closed.Load() {
		panic("task: Execute on closed Pool")
	}
	p.queue <- fn
}

// Close stops the pool and waits for the workers to finish the work already
// submitted. Close is idempotent.
func (p *Pool) Close() {
	if p.closed.Swap(true) {
		return
	}
	close(p.queue)
	p.wg.Wait()
}
