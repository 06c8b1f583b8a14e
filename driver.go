package presenterx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/comalice/presenterx/internal/queue"
)

// Driver merges action sources and applies the active reducer to each
// action, one at a time, against the latest state.
//
// Sources run on their own goroutines and race into one unbuffered channel;
// the driver's inbox (fed by Emit and by side effects) competes first-ready
// with them. Reduce is awaited before the next action is taken.
type Driver[S, N, A any] struct {
	// Sources are merged with the inbox on every Run.
	Sources []Source[A]
	// Current returns the latest published state. Required.
	Current func() S
	// Publish receives every reduced state before the next action is taken.
	// It returns the reducer for the next action; nil keeps the active one.
	Publish func(action A, next S) (Reducer[S, N, A], error)
	// Navigate is handed to every Reduce call.
	Navigate Navigate[N]
	// Effects runs side effects of reducers that are not EffectScopers.
	// When nil, each Run uses a scope derived from its context.
	Effects *Scope
	Logger  *slog.Logger
	Verbose bool

	mu      sync.Mutex
	active  Reducer[S, N, A]
	inbox   *queue.Unbounded[A]
	running atomic.Bool

	// Set by Run; only the Run goroutine reads them.
	effects  *Scope
	navigate Navigate[N]
}

// NewDriver creates a Driver whose first active reducer is reducer.
func NewDriver[S, N, A any](reducer Reducer[S, N, A]) *Driver[S, N, A] {
	return &Driver[S, N, A]{
		active: reducer,
		inbox:  queue.New[A](),
	}
}

// Emit queues action for reduction. Never blocks, never drops.
func (d *Driver[S, N, A]) Emit(action A) {
	d.inbox.Push(action)
}

// Pending returns the number of queued, not yet reduced, emitted actions.
func (d *Driver[S, N, A]) Pending() int {
	return d.inbox.Len()
}

// Active returns the reducer that will handle the next action.
func (d *Driver[S, N, A]) Active() Reducer[S, N, A] {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Run collects actions until ctx is done (returns nil) or a reducer or
// source fails (returns the error). Run may be called again after it
// returns; the active reducer and queued actions carry over.
//
// A reduction that returns context.Canceled because ctx ended is not a
// failure. An emitted action interrupted that way is queued again at the
// front and is reduced first by the next Run.
func (d *Driver[S, N, A]) Run(ctx context.Context) error {
	if d.Current == nil {
		return errors.New("driver: Current is required")
	}
	if !d.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer d.running.Store(false)

	d.effects = d.Effects
	if d.effects == nil {
		d.effects = NewScope(ctx, WithScopeLogger(d.logger()))
		defer d.effects.Cancel()
	}
	d.navigate = d.Navigate
	if d.navigate == nil {
		d.navigate = func(func(N)) {}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	merged := make(chan A)
	g, gctx := errgroup.WithContext(runCtx)
	emit := func(action A) error {
		select {
		case merged <- action:
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	}
	for i, src := range d.Sources {
		g.Go(func() error {
			err := runSource(gctx, src, emit)
			if err == nil || gctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%w (source %d): %w", ErrSource, i, err)
		})
	}

	var reduceErr error
	for reduceErr == nil {
		select {
		case <-gctx.Done():
		case action := <-merged:
			// Sources start over on the next Run, so an interrupted source
			// action is not kept.
			if reduceErr = d.apply(gctx, action); interrupted(gctx, reduceErr) {
				d.debug("reduction interrupted", "action", action)
				reduceErr = nil
			}
			continue
		case <-d.inbox.Ready():
			if action, ok := d.inbox.TryPop(); ok {
				if reduceErr = d.apply(gctx, action); interrupted(gctx, reduceErr) {
					d.debug("reduction interrupted, action queued again", "action", action)
					d.inbox.PushFront(action)
					reduceErr = nil
				}
			}
			continue
		}
		break
	}

	cancel()
	srcErr := g.Wait()
	d.debug("reducer completed", "err", errors.Join(reduceErr, srcErr))

	if reduceErr != nil {
		return reduceErr
	}
	return srcErr
}

// interrupted reports whether err is the reducer giving up because the run
// was stopped, rather than a failure.
func interrupted(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled)
}

func runSource[A any](ctx context.Context, src Source[A], emit Emit[A]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return src.Run(ctx, emit)
}

// apply runs one reduction step. Only the Run goroutine calls it.
func (d *Driver[S, N, A]) apply(ctx context.Context, action A) error {
	r := d.Active()
	state := d.Current()
	if !r.FilterAction(action) || !r.FilterUiState(state) {
		return nil
	}

	d.debug("reducing", "state", state, "action", action)
	res, err := d.reduce(ctx, r, state, action)
	if err != nil {
		return err
	}
	d.debug("reduced", "state", res.State)

	if d.Publish != nil {
		next, err := d.Publish(action, res.State)
		if err != nil {
			return err
		}
		if next != nil {
			d.mu.Lock()
			d.active = next
			d.mu.Unlock()
		}
	}

	if res.SideEffect != nil {
		d.launch(r, res.SideEffect)
	}
	return nil
}

func (d *Driver[S, N, A]) reduce(ctx context.Context, r Reducer[S, N, A], state S, action A) (res ReduceResult[S, A], err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrReducerPanic, p)
		}
	}()
	res, err = r.Reduce(ctx, state, action, d.navigate)
	if err != nil {
		return res, fmt.Errorf("%w: action %T: %w", ErrReduce, action, err)
	}
	return res, nil
}

// launch starts fx on the scope bound to r, falling back to the run's scope.
func (d *Driver[S, N, A]) launch(r Reducer[S, N, A], fx SideEffect[A]) {
	scope := d.effects
	if s, ok := r.(EffectScoper); ok && s.EffectScope() != nil {
		scope = s.EffectScope()
	}
	if !scope.Launch(func(ctx context.Context) error {
		return fx(ctx, d.Emit)
	}) {
		d.debug("side effect skipped: scope cancelled")
	}
}

func (d *Driver[S, N, A]) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func (d *Driver[S, N, A]) debug(msg string, args ...any) {
	if d.Verbose {
		d.logger().Debug(msg, args...)
	}
}
