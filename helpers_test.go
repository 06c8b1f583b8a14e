package presenterx_test

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/comalice/presenterx"
)

const waitTimeout = 2 * time.Second

// inc adds N to a counter state.
type inc struct{ N int }

// backNav counts back navigations.
type backNav struct{ backs atomic.Int32 }

func (n *backNav) Back() { n.backs.Add(1) }

func addReducer() Reducer[int, *backNav, inc] {
	return SingleReducer[int, *backNav, inc](func(_ context.Context, s int, a inc, _ Navigate[*backNav]) (ReduceResult[int, inc], error) {
		return Result[inc](s + a.N), nil
	})
}

// harness runs a Driver whose published states are recorded in order.
type harness[A any] struct {
	d      *Driver[int, *backNav, A]
	mu     sync.Mutex
	state  int
	states []int
	cancel context.CancelFunc
	done   chan error
}

func newHarness[A any](r Reducer[int, *backNav, A], sources ...Source[A]) *harness[A] {
	h := &harness[A]{d: NewDriver(r), done: make(chan error, 1)}
	h.d.Sources = sources
	h.d.Current = func() int {
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.state
	}
	h.d.Publish = func(_ A, next int) (Reducer[int, *backNav, A], error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.state = next
		h.states = append(h.states, next)
		return nil, nil
	}
	return h
}

func (h *harness[A]) start(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- h.d.Run(ctx) }()
	t.Cleanup(cancel)
}

// stop cancels the run and returns Run's result.
func (h *harness[A]) stop(t *testing.T) error {
	t.Helper()
	h.cancel()
	select {
	case err := <-h.done:
		return err
	case <-time.After(waitTimeout):
		t.Fatal("driver did not stop")
		return nil
	}
}

func (h *harness[A]) published() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]int(nil), h.states...)
}

func (h *harness[A]) current() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// countingHandler counts every record it receives.
type countingHandler struct{ n *atomic.Int32 }

func newCountingLogger(n *atomic.Int32) *slog.Logger {
	return slog.New(countingHandler{n: n})
}

func (h countingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h countingHandler) Handle(context.Context, slog.Record) error {
	h.n.Add(1)
	return nil
}

func (h countingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h countingHandler) WithGroup(string) slog.Handler      { return h }
