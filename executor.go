package task

// An Executor decides where and when a piece of work runs. Continuations,
// and the functions given to [Run] and [RunTask], are handed to one.
//
// The package provides [Immediate], [Background], [Default] and [NewPool].
// Any other type with a compatible Execute method works too, and
// [ExecutorFunc] adapts a bare function.
type Executor interface {
	// Execute runs fn, on whatever goroutine and at whatever time the
	// executor chooses. Implementations must eventually run every fn they
	// are given.
	Execute(fn func())
}

// ExecutorFunc adapts a function to the [Executor] interface.
type ExecutorFunc func(fn func())

// Execute calls f(fn).
func (f ExecutorFunc) Execute(fn func()) {
	f(fn)
}

// maxSyncDepth bounds how many completions the default executor runs
// synchronously on one goroutine before handing the rest of the cascade to
// a new one.
const maxSyncDepth = 20

type (
	immediateExecutor  struct{}
	backgroundExecutor struct{}
	defaultExecutor    struct{}
)

func (immediateExecutor) Execute(fn func())  { fn() }
func (backgroundExecutor) Execute(fn func()) { go fn() }
func (defaultExecutor) Execute(fn func())    { fn() }

// Immediate returns the executor that runs work inline on the goroutine
// that completed the task, with no depth bound. Long chains of immediate
// continuations can exhaust the stack; when in doubt, use [Default].
func Immediate() Executor {
	return immediateExecutor{}
}

// Background returns the executor that runs each piece of work on a fresh
// goroutine.
func Background() Executor {
	return backgroundExecutor{}
}

// Default returns the executor that runs work inline, like [Immediate],
// until a completion cascade grows [maxSyncDepth] deep on the current
// goroutine, at which point it continues on a fresh goroutine. It is the
// executor of choice for short continuations.
//
// A nil [Executor] is treated as Default throughout the package.
func Default() Executor {
	return defaultExecutor{}
}

// dispatch hands run to ex. depth counts the completions the calling
// goroutine has run synchronously so far; it is threaded through inline
// execution and reset to zero whenever the work moves to another goroutine.
func dispatch(ex Executor, depth int, run func(depth int)) {
	switch ex.(type) {
	case nil, defaultExecutor:
		if depth < maxSyncDepth {
			run(depth + 1)
		} else {
			go run(0)
		}
	case immediateExecutor:
		run(depth)
	case backgroundExecutor:
		go run(0)
	default:
		ex.Execute(func() { run(0) })
	}
}
