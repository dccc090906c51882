package taskprocessor

import "sync"

// Registry is a process-wide mapping from name to TaskProcessor, enforcing
// at most one processor per name. The zero value is not usable; construct
// one with NewRegistry, or use the package-level default registry via the
// package functions Get and CreateWithListener.
type Registry struct {
	mu         sync.RWMutex
	processors map[string]*TaskProcessor
}

// NewRegistry returns an empty, independent Registry. Most callers should
// prefer the package-level default registry (via the package functions Get
// and CreateWithListener); NewRegistry exists for callers that want
// isolation, such as tests that must not leak processors into the shared
// namespace.
func NewRegistry() *Registry {
	return &Registry{processors: make(map[string]*TaskProcessor)}
}

var defaultRegistry = NewRegistry()

// Get returns a reference to the default registry's processor named name,
// creating it with the default listener if it does not already exist. See
// [Registry.Get] for full semantics.
func Get(name string, opts ...Option) (*TaskProcessor, error) {
	return defaultRegistry.Get(name, opts...)
}

// CreateWithListener creates a processor named name bound to listener in
// the default registry. See [Registry.CreateWithListener] for full
// semantics.
func CreateWithListener(name string, listener Listener) (*TaskProcessor, error) {
	return defaultRegistry.CreateWithListener(name, listener)
}

// Stats is a point-in-time snapshot of a registry's occupancy.
type Stats struct {
	// Processors is the number of live processors.
	Processors int
	// QueuedTasks is the sum of Len() across every live processor.
	QueuedTasks int
}

// DefaultStats returns a snapshot of the default registry. See [Registry.Stats].
func DefaultStats() Stats {
	return defaultRegistry.Stats()
}

// Get returns a reference to the processor named name, incrementing its
// reference count, creating it with the default listener if it does not
// already exist. Passing RefIfExists() suppresses creation: if name is not
// already registered, Get returns ErrNotFound instead. An empty name is
// rejected with ErrInvalidName.
//
// Concurrent Get calls for the same name are atomic with respect to each
// other and with respect to a concurrent Unreference dropping that
// processor to zero: no caller can observe a processor that is in the
// process of being torn down, and no two callers observe different
// processors for the same name.
func (r *Registry) Get(name string, opts ...Option) (*TaskProcessor, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	r.mu.Lock()
	if tp, ok := r.processors[name]; ok {
		tp.refCount.Add(1)
		r.mu.Unlock()
		return tp, nil
	}
	if cfg.refIfExists {
		r.mu.Unlock()
		return nil, ErrNotFound
	}

	tp, err := newTaskProcessor(name, r, NewDefaultListener())
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.processors[name] = tp
	r.mu.Unlock()
	return tp, nil
}

// CreateWithListener creates a processor named name bound to listener and
// registers it. It fails with ErrNameInUse if name is already registered,
// and with ErrInvalidName for an empty name. On success, listener's Alloc
// callback has already run and the processor holds the one reference
// returned to the caller.
func (r *Registry) CreateWithListener(name string, listener Listener) (*TaskProcessor, error) {
	if name == "" {
		return nil, ErrInvalidName
	}

	// The registry lock is held across listener.Alloc so that a
	// concurrent Get or CreateWithListener for the same name cannot
	// observe a half-initialized entry, or race in underneath us and
	// insert a second processor under the same name. This mirrors how a
	// process-wide name table would be locked across a find-or-create in
	// the originating implementation; it assumes (as that implementation
	// does) that Alloc does not itself call back into the registry.
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.processors[name]; ok {
		return nil, ErrNameInUse
	}

	tp, err := newTaskProcessor(name, r, listener)
	if err != nil {
		return nil, err
	}
	r.processors[name] = tp
	return tp, nil
}

// unreference implements TaskProcessor.Unreference: it decrements tp's
// reference count and, on the transition to zero, removes tp from the
// registry and runs its shutdown sequence. Removal from the map and the
// zero-transition are performed under the same registry lock that guards
// Get's lookup-and-increment, so a Get racing the final Unreference either
// observes the processor (and the decrement-to-zero cannot have happened
// yet, since refCount was incremented first) or does not observe it at all.
func (r *Registry) unreference(tp *TaskProcessor) {
	r.mu.Lock()
	zero := tp.refCount.Add(-1) == 0
	if zero {
		delete(r.processors, tp.name)
	}
	r.mu.Unlock()
	if !zero {
		return
	}

	tp.mu.Lock()
	tp.alive = false
	tp.queue.discard()
	tp.mu.Unlock()

	// A push that read alive==true just before the line above flipped it
	// has already enqueued and is on its way to calling TaskPushed; wait
	// for it to finish before Shutdown runs, so that such a push's
	// TaskPushed may be the last listener callback before shutdown, but
	// never later than it.
	tp.inflight.Wait()

	tp.listener.Shutdown()
	tp.listener.Destroy(tp.private)
}

// Stats returns a point-in-time snapshot of r's occupancy.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{Processors: len(r.processors)}
	for _, tp := range r.processors {
		stats.QueuedTasks += tp.Len()
	}
	return stats
}

// QueueDepths returns a point-in-time snapshot of every live processor's
// queue length, keyed by name. It exists for consumers (such as the
// sibling metrics package) that need per-processor visibility rather than
// the aggregate Stats.
func (r *Registry) QueueDepths() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	depths := make(map[string]int, len(r.processors))
	for name, tp := range r.processors {
		depths[name] = tp.Len()
	}
	return depths
}
