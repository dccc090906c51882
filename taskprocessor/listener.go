package taskprocessor

// Listener is a strategy object bound to exactly one TaskProcessor. It is
// notified of queue state changes and is responsible for actually driving
// execution - the core never calls Execute on its own behalf. Implementors
// may dispatch to a single worker goroutine, a shared pool, or run inline
// on the pusher's goroutine; see the sibling listener/pooled and
// listener/inline packages for two such strategies.
//
// Exactly-once guarantees: Alloc fires once per listener instance, before
// the listener is bound to its processor. Shutdown fires exactly once, from
// the processor's final Unreference, and must block until the listener has
// fully quiesced (e.g. joined any worker goroutines it started) - after
// Shutdown returns, no further callback on this Listener is permitted, and
// the TaskProcessor passed to Alloc must no longer be touched. Destroy
// fires exactly once, after Shutdown returns, and is responsible for
// releasing private.
type Listener interface {
	// Alloc is called once, before the listener is bound to tp. A non-nil
	// error aborts creation of the processor; the returned private value
	// is stored on the processor and handed back to Destroy. Returning
	// (nil, nil) is valid for listeners that need no private state.
	Alloc(tp *TaskProcessor) (private any, err error)

	// TaskPushed is called synchronously from within Push, after the task
	// has been enqueued and is visible to Execute. wasEmpty reports
	// whether, immediately before this push, the queue was empty and no
	// task was in the middle of running inside Execute; listeners
	// typically treat wasEmpty=true as the signal to wake or spawn a
	// worker and treat wasEmpty=false as a no-op.
	TaskPushed(wasEmpty bool)

	// Emptied is called synchronously from within Execute, after a
	// dequeued task's handler has returned and the queue is then found
	// empty. It is not called while
	// holding any lock that would block a concurrent Push, so a push
	// racing with Emptied may cause it to fire immediately before the new
	// task becomes visible; listeners that need to detect "is there more
	// work" should recheck via Execute's own return value rather than
	// relying solely on Emptied.
	Emptied()

	// Shutdown is called exactly once, from the processor's final
	// Unreference, and must block until the listener has quiesced. After
	// it returns, the processor passed to Alloc is no longer safe to use.
	Shutdown()

	// Destroy releases private and any resources it owns. It runs after
	// Shutdown has returned.
	Destroy(private any)
}

// BaseListener supplies no-op implementations of every Listener callback.
// Embed it in a listener type that only cares about some of the callbacks
// to avoid writing boilerplate for the rest.
type BaseListener struct{}

// Alloc returns (nil, nil): no private data, no failure.
func (BaseListener) Alloc(*TaskProcessor) (any, error) { return nil, nil }

// TaskPushed is a no-op.
func (BaseListener) TaskPushed(bool) {}

// Emptied is a no-op.
func (BaseListener) Emptied() {}

// Shutdown is a no-op.
func (BaseListener) Shutdown() {}

// Destroy is a no-op.
func (BaseListener) Destroy(any) {}
