package kernel

import "iter"

// Queue is a double-buffered, unbounded FIFO of messages.
//
// Systems read the current buffer through All or AllMutable and write the
// next buffer through Push. NextTick is the only way a pushed message
// becomes readable.
//
// The zero value is an empty queue ready to use. A Queue must not be copied
// after first use.
type Queue[T any] struct {
	current []T
	next    []T
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends msg to the next buffer.
// It never affects iteration over the current buffer.
func (q *Queue[T]) Push(msg T) {
	q.next = append(q.next, msg)
}

// All returns the current buffer's messages in insertion order.
// Each call starts a fresh traversal.
func (q *Queue[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, msg := range q.current {
			if !yield(msg) {
				return
			}
		}
	}
}

// AllMutable is like All but yields pointers into the current buffer so
// messages can be edited in place. Messages cannot be added or removed
// through it.
func (q *Queue[T]) AllMutable() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for i := range q.current {
			if !yield(&q.current[i]) {
				return
			}
		}
	}
}

// NextTick makes the next buffer current and starts an empty next buffer.
// Calling it on an empty queue is a no-op beyond the swap.
func (q *Queue[T]) NextTick() {
	// Zero the retiring slots so payload pointers can be collected, then
	// reuse its backing array for the new next buffer.
	clear(q.current)
	q.current, q.next = q.next, q.current[:0]
}

// Len returns the number of messages in the current buffer.
func (q *Queue[T]) Len() int {
	return len(q.current)
}

// Pending returns the number of messages waiting for the next tick.
func (q *Queue[T]) Pending() int {
	return len(q.next)
}

// Upcoming returns the next buffer's messages in push order.
//
// It exists for observers and tests. Systems must not depend on it: a
// message pushed this tick is not part of this tick.
func (q *Queue[T]) Upcoming() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, msg := range q.next {
			if !yield(msg) {
				return
			}
		}
	}
}

// Collect returns a copy of the current buffer.
func (q *Queue[T]) Collect() []T {
	out := make([]T, len(q.current))
	copy(out, q.current)
	return out
}
