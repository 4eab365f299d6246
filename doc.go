// Package task implements one-shot futures for composing asynchronous work.
//
// A [Task] represents an operation that completes exactly once, with a value,
// an error, a captured panic, or by cancellation. Code that produces a result
// holds a [Promise] and completes it; code that consumes a result holds the
// promise's [Task] and either attaches continuations to it or waits on it.
// Once completed, a task never changes again. Late observers see the same
// outcome as early ones.
//
// # Continuations Instead of Callbacks
//
// A continuation is a function that runs after a task completes, and its
// return value becomes a new [Task]. Because attaching returns another task,
// chains compose naturally:
//
//	t := task.Run(task.Background(), fetch)
//	u := task.Then(t, task.Default(), parse)
//	v := task.Then(u, task.Default(), store)
//
// [ContinueWith] observes any outcome. [Then] only runs on success and
// forwards errors, panics and cancellation unchanged, so error handling can
// live at the end of a chain rather than at every step.
//
// A continuation may itself return a task, via [ContinueWithTask] or
// [ThenTask]. The result is flattened. The outer task adopts the outcome of
// the inner one instead of completing with a task-in-a-task.
//
// # Executors
//
// Where a continuation runs is decided by an [Executor]. [Immediate] runs it
// on whichever goroutine completes the task, [Background] gives it a fresh
// goroutine, and [Default] runs it synchronously but hops to a new goroutine
// when completion cascades grow too deep, which keeps long chains from
// overflowing the stack. [NewPool] runs continuations on a fixed set of
// worker goroutines, and any user type with an Execute method can serve as
// well.
//
// # Joining
//
// [All] completes when every input task has completed, [AllResults]
// additionally collects the values in input order, and [Any] completes as
// soon as one input succeeds. Failures are aggregated, not dropped. When
// inputs fail, the joined task faults with all of their errors together.
//
// # Cancellation
//
// Tasks interoperate with [context.Context]. [WithContext] derives a task
// that is canceled when the context is, [DelayContext] is a timer that a
// context can cut short, and [Task.Await] blocks only as long as the caller's
// context allows. Cancellation is an ordinary terminal state, not an error
// path. Continuations attached with [ContinueWith] still run and can observe
// it.
//
// # Panics
//
// A panic inside a continuation or a [Run] function does not crash the
// program. It is captured with its stack as a [*PanicError] and becomes the
// task's fault, which propagates down the chain like any other failure until
// something handles it.
package task
