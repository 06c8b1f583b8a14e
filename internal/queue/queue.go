// Package queue provides the unbounded FIFO behind user action emission.
// Push never blocks and never drops; consumers select on Ready() and pop.
package queue

import "sync"

// Unbounded is a mutex-guarded FIFO with a readiness signal.
// Invariant: while items is non-empty, ready holds a token or a TryPop
// caller is about to re-arm it.
type Unbounded[T any] struct {
	mu    sync.Mutex
	items []T
	head  int
	ready chan struct{}
}

// New creates an empty queue.
func New[T any]() *Unbounded[T] {
	return &Unbounded[T]{
		ready: make(chan struct{}, 1),
	}
}

// Push appends v. Safe for concurrent use.
func (q *Unbounded[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
	q.signal()
}

// PushFront puts v back at the head, ahead of every queued item.
func (q *Unbounded[T]) PushFront(v T) {
	q.mu.Lock()
	if q.head > 0 {
		q.head--
		q.items[q.head] = v
	} else {
		q.items = append([]T{v}, q.items...)
	}
	q.mu.Unlock()
	q.signal()
}

// TryPop removes the oldest item. ok is false when the queue is empty.
func (q *Unbounded[T]) TryPop() (v T, ok bool) {
	q.mu.Lock()
	if q.head == len(q.items) {
		q.mu.Unlock()
		return v, false
	}
	v = q.items[q.head]
	var zero T
	q.items[q.head] = zero
	q.head++
	remaining := len(q.items) - q.head
	if remaining == 0 {
		// Reuse the backing array once drained.
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 64 && q.head*2 > len(q.items) {
		q.items = append([]T(nil), q.items[q.head:]...)
		q.head = 0
	}
	q.mu.Unlock()

	if remaining > 0 {
		q.signal()
	}
	return v, true
}

// Ready is signalled whenever the queue may be non-empty.
// Spurious wakeups are possible; TryPop reports the truth.
func (q *Unbounded[T]) Ready() <-chan struct{} {
	return q.ready
}

// Len returns the number of queued items.
func (q *Unbounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

func (q *Unbounded[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
