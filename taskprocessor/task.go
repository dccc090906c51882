package taskprocessor

// Task is an immutable unit of work: a handler and the opaque data it
// operates on. A Task is constructed by Push and discarded by the
// processor after the handler returns. The core never dereferences data
// itself and places no ownership requirements on it beyond "valid until
// the handler returns" - that contract is between the caller and handler.
type Task struct {
	handler func(data any) error
	data    any
}

// run invokes the handler and discards whatever it returns. The core
// ignores the handler's return value by design; it
// exists purely for the caller's own error handling inside the handler.
func (t Task) run() {
	_ = t.handler(t.data)
}
