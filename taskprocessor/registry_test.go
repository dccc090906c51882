package taskprocessor

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryIsolation(t *testing.T) {
	r1 := NewRegistry()
	r2 := NewRegistry()

	p1, err := r1.Get("shared-name")
	require.NoError(t, err)
	defer p1.Unreference()

	p2, err := r2.Get("shared-name")
	require.NoError(t, err)
	defer p2.Unreference()

	assert.NotSame(t, p1, p2, "registries do not share namespaces")
}

func TestRegistryConcurrentGetSameIdentity(t *testing.T) {
	r := NewRegistry()
	const n = 64
	results := make([]*TaskProcessor, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			tp, err := r.Get("concurrent")
			assert.NoError(t, err)
			results[i] = tp
		}()
	}
	wg.Wait()

	first := results[0]
	for _, tp := range results {
		assert.Same(t, first, tp)
	}
	for range results {
		first.Unreference()
	}

	_, err := r.Get("concurrent", RefIfExists())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryStats(t *testing.T) {
	r := NewRegistry()
	stats := r.Stats()
	assert.Equal(t, 0, stats.Processors)
	assert.Equal(t, 0, stats.QueuedTasks)

	tp, err := r.Get("stats")
	require.NoError(t, err)
	defer tp.Unreference()

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, tp.Push(func(any) error {
		close(started)
		<-release
		return nil
	}, nil))
	<-started

	for i := 0; i < 3; i++ {
		require.NoError(t, tp.Push(func(any) error { return nil }, nil))
	}

	stats = r.Stats()
	assert.Equal(t, 1, stats.Processors)
	assert.Equal(t, 3, stats.QueuedTasks)

	close(release)
	require.Eventually(t, func() bool { return r.Stats().QueuedTasks == 0 }, time.Second, time.Millisecond)
}

func TestRefIfExistsDoesNotCreate(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nope", RefIfExists())
	assert.ErrorIs(t, err, ErrNotFound)

	stats := r.Stats()
	assert.Equal(t, 0, stats.Processors)
}

func TestPackageLevelDefaultRegistry(t *testing.T) {
	name := "package-level-default-registry-test"
	tp, err := Get(name)
	require.NoError(t, err)
	defer tp.Unreference()

	tp2, err := Get(name)
	require.NoError(t, err)
	defer tp2.Unreference()

	assert.Same(t, tp, tp2)
}
