// Package inline implements a taskprocessor.Listener that executes tasks
// directly on the pusher's goroutine instead of handing them to a separate
// worker - the "inline" dispatch variant named in the taskprocessor package
// docs alongside the default single-worker and pooled strategies.
//
// Because there is no dedicated worker, TaskPushed itself drains the queue:
// Push's caller pays the cost of running every task it enqueues (and any
// tasks other goroutines raced in ahead of it), which collapses latency to
// zero at the cost of serializing all producers against whichever one
// happens to still be draining.
package inline

import "github.com/TheEntropyCollective/taskprocessor/taskprocessor"

// Listener drains the processor synchronously from within TaskPushed.
type Listener struct {
	taskprocessor.BaseListener
	tp *taskprocessor.TaskProcessor
}

// New returns an inline dispatch Listener.
func New() *Listener {
	return &Listener{}
}

func (l *Listener) Alloc(tp *taskprocessor.TaskProcessor) (any, error) {
	l.tp = tp
	return nil, nil
}

// TaskPushed drains the queue on the pusher's own goroutine. Because Push
// invokes TaskPushed after releasing the processor's internal lock, this
// does not deadlock against a concurrent Push or Execute; it does mean a
// push may block its caller for as long as it takes to run every task
// currently queued, including tasks pushed by other goroutines racing in
// at the same time.
func (l *Listener) TaskPushed(wasEmpty bool) {
	if !wasEmpty {
		return
	}
	for l.tp.Execute() {
	}
}
