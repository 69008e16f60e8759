// Package ringbuffer provides a fixed-capacity FIFO buffer that drops the
// oldest element when full.
package ringbuffer

import "sync"

type RingBuffer[T any] struct {
	values []T
	head   int // index of the oldest element
	count  int
	mu     sync.Mutex
}

// New creates a buffer holding at most capacity elements. Capacity must be
// at least 1.
func New[T any](capacity int) *RingBuffer[T] {
	return &RingBuffer[T]{
		values: make([]T, capacity),
	}
}

// Push appends an element, evicting the oldest one if the buffer is full.
func (rb *RingBuffer[T]) Push(element T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.count < len(rb.values) {
		rb.values[(rb.head+rb.count)%len(rb.values)] = element
		rb.count++
		return
	}

	rb.values[rb.head] = element
	rb.head = (rb.head + 1) % len(rb.values)
}

// Snapshot returns a copy of the contents in insertion order, oldest first.
func (rb *RingBuffer[T]) Snapshot() []T {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	out := make([]T, rb.count)
	for i := 0; i < rb.count; i++ {
		out[i] = rb.values[(rb.head+i)%len(rb.values)]
	}
	return out
}

// Len reports how many elements are currently buffered.
func (rb *RingBuffer[T]) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	return rb.count
}
