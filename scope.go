package presenterx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Scope is a supervised task group. Tasks share one cancellable context;
// a failing task is reported to the error handler and never cancels its
// siblings or the scope.
type Scope struct {
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	closed  bool
	wg      sync.WaitGroup
	onError func(error)
	logger  *slog.Logger
}

// ScopeOption configures a Scope.
type ScopeOption func(*Scope)

// WithErrorHandler receives task errors and recovered panics.
func WithErrorHandler(h func(error)) ScopeOption {
	return func(s *Scope) {
		s.onError = h
	}
}

// WithScopeLogger sets the logger used by the default error handler.
func WithScopeLogger(l *slog.Logger) ScopeOption {
	return func(s *Scope) {
		s.logger = l
	}
}

// NewScope creates a Scope that ends when parent is done or Cancel is called.
func NewScope(parent context.Context, opts ...ScopeOption) *Scope {
	ctx, cancel := context.WithCancel(parent)
	s := &Scope{
		ctx:    ctx,
		cancel: cancel,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.onError == nil {
		s.onError = func(err error) {
			s.logger.Error("side effect failed", "err", err)
		}
	}
	return s
}

// Launch runs task on its own goroutine. Returns false if the scope is
// already cancelled, in which case task never runs.
func (s *Scope) Launch(task func(ctx context.Context) error) bool {
	s.mu.Lock()
	if s.closed || s.ctx.Err() != nil {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		if err := s.run(task); err != nil {
			// Cancellation after the scope ends is not a failure.
			if s.ctx.Err() != nil && errors.Is(err, context.Canceled) {
				return
			}
			s.onError(err)
		}
	}()
	return true
}

func (s *Scope) run(task func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrEffectPanic, r)
		}
	}()
	return task(s.ctx)
}

// Context returns the scope's context.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Done is closed once the scope is cancelled.
func (s *Scope) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Cancel cancels every running task. Safe to call multiple times.
func (s *Scope) Cancel() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Wait blocks until every launched task has returned.
func (s *Scope) Wait() {
	s.wg.Wait()
}
