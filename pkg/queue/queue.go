package queue

import "errors"

// ErrQueueFull is returned by Enqueue when the buffer has no room left.
var ErrQueueFull = errors.New("queue is full")

// Queue hands items from producers to a loop that drains them once per tick.
type Queue[T any] interface {
	Enqueue(item T) error
	ReadAllMessages() ([]T, error)
}
