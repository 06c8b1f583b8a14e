// Package stateflow provides a replay-latest observable value.
// Subscribers receive the current value immediately and then every update,
// conflated: a slow subscriber only ever sees the newest value.
package stateflow

import (
	"context"
	"sync"
)

// Flow holds one value with a single writer and any number of readers.
type Flow[T any] struct {
	mu        sync.Mutex
	value     T
	subs      map[*subscription[T]]struct{}
	holds     int
	closed    bool
	done      chan struct{}
	onObserve func()
}

type subscription[T any] struct {
	ch chan T
}

// New creates a Flow holding initial. onObserve, if non-nil, is called
// (outside the lock) every time the observer count changes.
func New[T any](initial T, onObserve func()) *Flow[T] {
	return &Flow[T]{
		value:     initial,
		subs:      make(map[*subscription[T]]struct{}),
		done:      make(chan struct{}),
		onObserve: onObserve,
	}
}

// Value returns the current value.
func (f *Flow[T]) Value() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Set replaces the value and notifies subscribers.
func (f *Flow[T]) Set(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = v
	for s := range f.subs {
		// Conflate: drop the stale pending value, then deliver v.
		select {
		case <-s.ch:
		default:
		}
		s.ch <- v
	}
}

// Subscribe returns a channel replaying the current value and then every
// update until ctx is done or the Flow is closed, when the channel closes.
func (f *Flow[T]) Subscribe(ctx context.Context) <-chan T {
	s := &subscription[T]{ch: make(chan T, 1)}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(s.ch)
		return s.ch
	}
	s.ch <- f.value
	f.subs[s] = struct{}{}
	f.mu.Unlock()
	f.notify()

	go func() {
		select {
		case <-ctx.Done():
		case <-f.done:
		}
		f.mu.Lock()
		if _, ok := f.subs[s]; !ok {
			// Closed by Close().
			f.mu.Unlock()
			return
		}
		delete(f.subs, s)
		close(s.ch)
		f.mu.Unlock()
		f.notify()
	}()
	return s.ch
}

// Hold registers an observer without a channel. The returned release func
// must be called exactly once.
func (f *Flow[T]) Hold() (release func()) {
	f.mu.Lock()
	f.holds++
	f.mu.Unlock()
	f.notify()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.holds--
			f.mu.Unlock()
			f.notify()
		})
	}
}

// Observers returns the number of live subscriptions and holds.
func (f *Flow[T]) Observers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0
	}
	return len(f.subs) + f.holds
}

// Close ends every subscription. Later Subscribe calls get a closed channel.
// Idempotent.
func (f *Flow[T]) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	close(f.done)
	for s := range f.subs {
		delete(f.subs, s)
		close(s.ch)
	}
	f.mu.Unlock()
}

func (f *Flow[T]) notify() {
	if f.onObserve != nil {
		f.onObserve()
	}
}
