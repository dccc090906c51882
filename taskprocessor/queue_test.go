package taskprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskQueueFIFO(t *testing.T) {
	var q taskQueue
	assert.True(t, q.isEmpty())

	for i := 0; i < 5; i++ {
		i := i
		wasEmpty := q.enqueue(Task{handler: func(any) error { return nil }, data: i})
		assert.Equal(t, i == 0, wasEmpty)
	}
	assert.Equal(t, 5, q.len())

	for i := 0; i < 5; i++ {
		task, ok := q.dequeue()
		assert.True(t, ok)
		assert.Equal(t, i, task.data)
	}
	assert.True(t, q.isEmpty())
	_, ok := q.dequeue()
	assert.False(t, ok)
}

func TestTaskQueueEnqueueAfterDrain(t *testing.T) {
	var q taskQueue
	q.enqueue(Task{data: 1})
	q.dequeue()
	wasEmpty := q.enqueue(Task{data: 2})
	assert.True(t, wasEmpty)
}

func TestTaskQueueDiscard(t *testing.T) {
	var q taskQueue
	for i := 0; i < 3; i++ {
		q.enqueue(Task{data: i})
	}
	ran := false
	q.tasks[0] = Task{handler: func(any) error { ran = true; return nil }}
	n := q.discard()
	assert.Equal(t, 3, n)
	assert.True(t, q.isEmpty())
	assert.False(t, ran, "discard must not run handlers")
}

func TestTaskQueueCompaction(t *testing.T) {
	var q taskQueue
	total := compactThreshold * 4
	for i := 0; i < total; i++ {
		q.enqueue(Task{data: i})
	}
	for i := 0; i < total; i++ {
		task, ok := q.dequeue()
		assert.True(t, ok)
		assert.Equal(t, i, task.data, "FIFO order must survive mid-stream compaction")
	}
	assert.True(t, q.isEmpty())
	assert.Equal(t, 0, q.head, "head resets once fully drained")
}
