package taskprocessor

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// TaskProcessor is a named, reference-counted serial execution context. It
// binds a FIFO task queue to a Listener. Processors are obtained through a
// Registry (see [Get] and [CreateWithListener]) and are never constructed
// directly.
type TaskProcessor struct {
	name     string
	registry *Registry

	mu        sync.Mutex // guards queue, alive, nextSeq, and executing below
	queue     taskQueue
	alive     bool
	nextSeq   uint64
	executing int // tasks dequeued by Execute whose handlers have not returned

	// orderMu/orderCond/orderTurn enforce that TaskPushed invocations fire
	// in the same order as their corresponding enqueues, even across
	// concurrently racing producers - enqueue order alone (established by
	// mu) says nothing about the order in which the separate calls to
	// TaskPushed, made after mu is released, actually reach the listener.
	// orderOwner lets a handler that reenters Push from its own
	// processor's Execute skip
	// waiting on a turn it is already holding one frame up - see
	// invokeTaskPushed.
	orderMu    sync.Mutex
	orderCond  *sync.Cond
	orderTurn  uint64
	orderOwner uint64

	// inflight tracks Push calls that have passed the alive check and
	// enqueued but have not yet returned from TaskPushed. Unreference's
	// shutdown path waits on this before calling Shutdown, so that a push
	// racing the final unreference is permitted to finish - its
	// TaskPushed may be the last listener callback before shutdown,
	// but none may fire after.
	inflight sync.WaitGroup

	listener Listener
	private  any

	refCount atomic.Int64
}

// newTaskProcessor allocates a processor bound to listener and registered
// under registry. The listener's Alloc callback runs here, before the
// processor is returned; a failure aborts creation.
func newTaskProcessor(name string, registry *Registry, listener Listener) (*TaskProcessor, error) {
	tp := &TaskProcessor{
		name:      name,
		registry:  registry,
		listener:  listener,
		alive:     true,
		nextSeq:   1,
		orderTurn: 1,
	}
	tp.orderCond = sync.NewCond(&tp.orderMu)
	tp.refCount.Store(1)

	private, err := listener.Alloc(tp)
	if err != nil {
		return nil, ErrListenerInit
	}
	tp.private = private
	return tp, nil
}

// Name returns the processor's name. It is stable for the processor's
// lifetime.
func (tp *TaskProcessor) Name() string {
	return tp.name
}

// Alive reports whether the processor currently accepts pushes. The result
// is racy by construction - a concurrent Unreference may flip it the
// instant after this returns - and is intended only to let a caller avoid
// an obviously doomed Push, not to gate correctness.
func (tp *TaskProcessor) Alive() bool {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return tp.alive
}

// Len reports the number of tasks currently queued, awaiting Execute.
func (tp *TaskProcessor) Len() int {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return tp.queue.len()
}

// Push appends a task running handler against data to the processor's
// queue and synchronously notifies the listener. It fails with ErrNotAlive
// if the processor has begun shutdown. Push is safe for any number of
// concurrent callers, including a handler that pushes back to its own
// processor from inside Execute; for any
// two pushes, TaskPushed fires for the one enqueued first before the one
// enqueued second, even when both race in from different goroutines.
func (tp *TaskProcessor) Push(handler func(data any) error, data any) error {
	tp.mu.Lock()
	if !tp.alive {
		tp.mu.Unlock()
		return ErrNotAlive
	}
	seq := tp.nextSeq
	tp.nextSeq++
	wasEmpty := tp.queue.enqueue(Task{handler: handler, data: data}) && tp.executing == 0
	tp.inflight.Add(1)
	tp.mu.Unlock()
	defer tp.inflight.Done()

	tp.invokeTaskPushed(seq, wasEmpty)
	return nil
}

// invokeTaskPushed calls the listener's TaskPushed callback in the slot
// reserved for seq, blocking until any lower-numbered push's callback has
// returned first. seq values are handed out under mu in enqueue order, so
// this is what turns "enqueue order" into "TaskPushed invocation order."
//
// A handler that reenters Push from inside this very callback (a listener
// such as listener/inline that drives Execute synchronously, or a test
// driver doing the same) would deadlock waiting for its own turn, since
// Go's sync.Mutex is not reentrant and the ancestor frame holding the turn
// has not returned yet. goroutineID lets that specific, explicitly
// supported case be recognized and let through immediately instead: the
// reentrant call is, by construction, already correctly ordered after its
// ancestor by plain program order, so nothing is lost by skipping the
// wait.
func (tp *TaskProcessor) invokeTaskPushed(seq uint64, wasEmpty bool) {
	gid := goroutineID()
	if gid == 0 {
		// Could not determine the calling goroutine; fall back to
		// running the callback un-ordered rather than risk a
		// self-deadlock against an ancestor frame we can't detect.
		tp.listener.TaskPushed(wasEmpty)
		return
	}

	tp.orderMu.Lock()
	reentrant := tp.orderOwner == gid
	if !reentrant {
		for tp.orderTurn != seq {
			tp.orderCond.Wait()
		}
	}
	prevOwner := tp.orderOwner
	tp.orderOwner = gid
	tp.orderMu.Unlock()

	tp.listener.TaskPushed(wasEmpty)

	tp.orderMu.Lock()
	tp.orderOwner = prevOwner
	if !reentrant {
		tp.orderTurn++
		tp.orderCond.Broadcast()
	}
	tp.orderMu.Unlock()
}

// goroutineID returns the calling goroutine's runtime-assigned ID, or 0 if
// it could not be parsed from a stack trace. It exists solely to support
// invokeTaskPushed's reentrancy detection; it is deliberately not exposed
// or used anywhere else in the package.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(b, []byte(prefix)) {
		return 0
	}
	b = b[len(prefix):]
	if idx := bytes.IndexByte(b, ' '); idx >= 0 {
		b = b[:idx]
	}

	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Execute dequeues at most one task and, if there was one, runs its
// handler to completion. It reports whether further tasks remain queued
// (true) or the queue is now empty (false); when a task ran and left the
// queue empty, the listener's Emptied callback fires before Execute
// returns, and when nothing was queued it does not fire. Execute does
// not recover from a handler panic - per the handler contract, a handler
// must not raise through the processor boundary.
//
// hasMore alone cannot distinguish "nothing was queued" from "the one
// queued task just ran and emptied the queue" - both report false. A
// caller that needs to know whether a task actually ran (for example, to
// count dispatched work) should use TryExecute instead.
func (tp *TaskProcessor) Execute() (hasMore bool) {
	_, hasMore = tp.TryExecute()
	return hasMore
}

// TryExecute is like Execute but additionally reports whether a task was
// actually dequeued and run.
func (tp *TaskProcessor) TryExecute() (ran, hasMore bool) {
	tp.mu.Lock()
	task, ok := tp.queue.dequeue()
	if ok {
		tp.executing++
	}
	tp.mu.Unlock()
	if !ok {
		return false, false
	}

	task.run()

	tp.mu.Lock()
	tp.executing--
	empty := tp.queue.isEmpty()
	tp.mu.Unlock()

	if empty {
		tp.listener.Emptied()
		return true, false
	}
	return true, true
}

// Reference increments the processor's reference count and returns tp, for
// chaining at call sites that hand out a fresh handle to an existing
// caller. It must only be called by a holder of an existing reference.
func (tp *TaskProcessor) Reference() *TaskProcessor {
	tp.refCount.Add(1)
	return tp
}

// Unreference decrements the processor's reference count. On the
// transition to zero it removes the processor from its Registry, runs the
// listener's Shutdown and Destroy callbacks in order, and discards any
// tasks still queued without running their handlers.
func (tp *TaskProcessor) Unreference() {
	tp.registry.unreference(tp)
}
