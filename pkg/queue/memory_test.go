package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue(t *testing.T) {
	q := NewInMemoryQueue[int](2)

	require.NoError(t, q.Enqueue(1))
	require.NoError(t, q.Enqueue(2))
	assert.ErrorIs(t, q.Enqueue(3), ErrQueueFull)
	assert.Equal(t, 2, q.Size())

	item, ok := q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, 1, item)

	messages, err := q.ReadAllMessages()
	require.NoError(t, err)
	assert.Equal(t, []int{2}, messages)

	_, ok = q.Dequeue()
	assert.False(t, ok)

	messages, err = q.ReadAllMessages()
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestInMemoryQueue_ClearQueue(t *testing.T) {
	q := NewInMemoryQueue[string](0)
	require.NoError(t, q.Enqueue("a"))
	require.NoError(t, q.Enqueue("b"))
	q.ClearQueue()
	assert.Zero(t, q.Size())
}

func TestInMemoryQueue_concurrentProducers(t *testing.T) {
	q := NewInMemoryQueue[int](1000)
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				assert.NoError(t, q.Enqueue(i))
			}
		}()
	}
	wg.Wait()

	messages, err := q.ReadAllMessages()
	require.NoError(t, err)
	assert.Len(t, messages, 400)
}
