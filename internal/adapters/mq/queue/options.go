package queue

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the total number of triggers the buffer can hold.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithPerBoard sets how many triggers one board may have pending.
func WithPerBoard(n int) Option {
	return func(q *InMemoryQueue) {
		if n > 0 {
			q.perBoard = n
		}
	}
}
