package taskprocessor

import "errors"

// Sentinel errors returned by package operations. Callers should compare
// against these with errors.Is, since operations may wrap them with
// additional context.
var (
	// ErrNotAlive is returned by Push when the processor has begun
	// shutdown.
	ErrNotAlive = errors.New("taskprocessor: not alive")

	// ErrNotFound is returned by Get when RefIfExists is set and no
	// processor exists under the requested name.
	ErrNotFound = errors.New("taskprocessor: not found")

	// ErrNameInUse is returned by CreateWithListener when the requested
	// name already has a processor registered.
	ErrNameInUse = errors.New("taskprocessor: name in use")

	// ErrListenerInit is returned when a Listener's Alloc callback fails
	// during processor creation.
	ErrListenerInit = errors.New("taskprocessor: listener init failed")

	// ErrInvalidName is returned for an empty processor name.
	ErrInvalidName = errors.New("taskprocessor: invalid name")
)
