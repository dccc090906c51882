// Package taskprocessor implements a registry of named, reference-counted,
// serialized task queues with pluggable execution listeners.
//
// A taskprocessor is a named singleton wrapping a task queue that serializes
// work pushed to it by any number of unrelated callers. A taskprocessor is
// created the first time its name is requested via [Get] (or explicitly via
// [CreateWithListener]) and torn down when its reference count reaches zero.
// Every taskprocessor has an associated [Listener] which is notified of
// queue state changes and is responsible for actually driving execution -
// the default listener (installed automatically by [Get]) runs pushed tasks
// sequentially on a single dedicated goroutine, but callers may supply their
// own listener (see the sibling listener/pooled and listener/inline
// packages) to dispatch work differently without changing any caller code.
//
// The package does not persist queued work, does not schedule by priority or
// fairness between processors, cannot cancel a task once pushed, and does
// not coordinate across processes. Producers are never blocked or dropped by
// the core; queues grow unbounded.
package taskprocessor
