// Package pooled implements a taskprocessor.Listener that dispatches
// dequeued tasks across a bounded worker pool instead of a single thread,
// trading strict single-goroutine serialization for higher throughput on
// bursty or CPU-bound workloads.
//
// It is adapted from the worker-pool machinery in NoiseFS's
// pkg/common/workers package: a fixed number of worker goroutines draining
// a buffered channel, atomic counters for basic stats, and a context-bounded
// graceful shutdown that falls back to a hard deadline. Here the channel
// carries "drain the processor" signals rather than task values directly -
// the processor itself remains the single source of truth for the queue,
// so any of the pool's idle workers may dequeue the next task.
package pooled

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/TheEntropyCollective/taskprocessor/taskprocessor"
)

// Config controls the pooled listener's worker count and shutdown
// behavior.
type Config struct {
	// WorkerCount is the number of goroutines concurrently draining the
	// processor. If 0, defaults to 4.
	WorkerCount int

	// ShutdownTimeout bounds how long Shutdown waits for in-flight
	// handlers to finish before returning anyway. If 0, defaults to 30
	// seconds. Workers are not forcibly killed when this elapses - Go has
	// no handler preemption - but Shutdown stops waiting and returns.
	ShutdownTimeout time.Duration
}

// Listener is a taskprocessor.Listener that dispatches to a bounded pool of
// worker goroutines. Construct with New and pass to
// taskprocessor.CreateWithListener; do not reuse a Listener value across
// more than one processor.
type Listener struct {
	cfg Config

	tp *taskprocessor.TaskProcessor

	wake chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup

	// dispatched counts how many times a worker successfully executed a
	// task; exposed for diagnostics.
	dispatched atomic.Int64
}

// New returns a Listener configured per cfg.
func New(cfg Config) *Listener {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	return &Listener{cfg: cfg}
}

// Dispatched reports how many tasks this listener's workers have executed.
func (l *Listener) Dispatched() int64 {
	return l.dispatched.Load()
}

func (l *Listener) Alloc(tp *taskprocessor.TaskProcessor) (any, error) {
	l.tp = tp
	l.wake = make(chan struct{}, l.cfg.WorkerCount)
	l.stop = make(chan struct{})

	l.wg.Add(l.cfg.WorkerCount)
	for i := 0; i < l.cfg.WorkerCount; i++ {
		go l.worker()
	}
	return nil, nil
}

func (l *Listener) worker() {
	defer l.wg.Done()
	for {
		select {
		case <-l.stop:
			return
		case <-l.wake:
		}
		for {
			ran, hasMore := l.tp.TryExecute()
			if ran {
				l.dispatched.Add(1)
			}
			if !hasMore {
				break
			}
			select {
			case <-l.stop:
				return
			default:
			}
		}
	}
}

// TaskPushed wakes one idle worker whenever the queue transitions from
// empty to non-empty. Unlike the single-worker default listener, a pooled
// listener also re-broadcasts a wake on every push up to WorkerCount
// outstanding wakes, since more than one worker may be idle and able to
// pick up new work concurrently.
func (l *Listener) TaskPushed(wasEmpty bool) {
	select {
	case l.wake <- struct{}{}:
	default:
	}
	_ = wasEmpty
}

// Emptied is a no-op: like the default listener, this listener rediscovers
// emptiness through Execute's own return value.
func (l *Listener) Emptied() {}

// Shutdown signals every worker to stop and waits for them to join, up to
// ShutdownTimeout.
func (l *Listener) Shutdown() {
	close(l.stop)
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), l.cfg.ShutdownTimeout)
	defer cancel()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (l *Listener) Destroy(any) {}
