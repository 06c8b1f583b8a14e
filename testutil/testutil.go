// Package testutil provides helpers for presenter tests.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"
)

// StateSource is the observable half of a presenter.
type StateSource[S any] interface {
	Subscribe(ctx context.Context) <-chan S
	State() S
}

// WaitForState observes src until pred accepts a state and returns it.
// Fails the test after timeout. Observing keeps a WhileSubscribed
// presenter's driver running.
func WaitForState[S any](t testing.TB, src StateSource[S], timeout time.Duration, pred func(S) bool) S {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var last S
	seen := false
	for s := range src.Subscribe(ctx) {
		last, seen = s, true
		if pred(s) {
			return s
		}
	}
	if !seen {
		last = src.State()
	}
	t.Fatalf("state not reached within %s; last state %+v", timeout, last)
	return last
}

// RecordingNav records navigation calls. It satisfies navigation scopes
// with Back and Open methods.
type RecordingNav struct {
	mu    sync.Mutex
	calls []string
}

func (n *RecordingNav) Back() {
	n.record("back")
}

func (n *RecordingNav) Open(screen string) {
	n.record("open " + screen)
}

// Calls returns the recorded calls in order.
func (n *RecordingNav) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

func (n *RecordingNav) record(call string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, call)
}
