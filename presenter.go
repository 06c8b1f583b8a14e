package presenterx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/comalice/presenterx/internal/stateflow"
)

// Config is the construction-time wiring of a Presenter.
type Config[S, N, A any] struct {
	// Sources are background action streams, merged with user actions.
	Sources []Source[A]
	// Initial produces the first state. Required.
	Initial func() S
	// Reducers picks the active reducer per state variant. Required.
	Reducers Selector[S, N, A]
	// Content renders a state. nil renders "".
	Content func(state S) string
}

type navRequest[N any] struct {
	id  uuid.UUID
	run func(N)
}

type renderLease struct {
	timer   *time.Timer
	release func()
}

// Presenter owns the current state, its driver and pending navigation.
// Lifecycle: Constructed -> Active -> Disposed.
// Thread-safe.
type Presenter[S, N, A any] struct {
	id       uuid.UUID
	opts     options
	logger   *slog.Logger
	selector Selector[S, N, A]
	content  func(S) string
	scope    *Scope
	driver   *Driver[S, N, A]
	state    *stateflow.Flow[S]
	seq      atomic.Uint64

	// pubMu serializes publication with Dispose; closed is set under it.
	pubMu  sync.Mutex
	closed bool

	nav      atomic.Pointer[navRequest[N]]
	navReady chan struct{}

	mu        sync.Mutex
	runCancel context.CancelFunc
	runDone   chan struct{}
	stopTimer *time.Timer
	lease     *renderLease
	disposed  bool
	err       error
	done      chan struct{}
}

// NewPresenter creates a presenter whose scope is derived from ctx.
// Cancelling ctx disposes the presenter.
func NewPresenter[S, N, A any](ctx context.Context, cfg Config[S, N, A], opts ...Option) (*Presenter[S, N, A], error) {
	if cfg.Initial == nil {
		return nil, errors.New("presenter: Initial is required")
	}
	if cfg.Reducers == nil {
		return nil, errors.New("presenter: Reducers is required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Presenter[S, N, A]{
		id:       uuid.New(),
		opts:     o,
		selector: cfg.Reducers,
		content:  cfg.Content,
		navReady: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	p.logger = o.logger.With("presenter", p.id.String())

	initial := cfg.Initial()
	reducer, err := p.selectReducer(initial)
	if err != nil {
		return nil, err
	}

	scopeOpts := []ScopeOption{WithScopeLogger(p.logger)}
	if o.onEffectError != nil {
		scopeOpts = append(scopeOpts, WithErrorHandler(o.onEffectError))
	}
	p.scope = NewScope(ctx, scopeOpts...)

	p.state = stateflow.New(initial, p.reconcile)

	p.driver = NewDriver(reducer)
	p.driver.Sources = cfg.Sources
	p.driver.Current = p.state.Value
	p.driver.Publish = p.publish
	p.driver.Navigate = p.performNavigation
	p.driver.Effects = p.scope
	p.driver.Logger = p.logger
	p.driver.Verbose = o.verbose

	go func() {
		select {
		case <-p.scope.Done():
			p.Dispose()
		case <-p.done:
		}
	}()

	if o.sharing.mode == eagerly {
		p.mu.Lock()
		p.startLocked()
		p.mu.Unlock()
	}
	p.debug("presenter created", "sharing", o.sharing.String())
	return p, nil
}

// ID identifies the presenter instance in logs and journals.
func (p *Presenter[S, N, A]) ID() uuid.UUID {
	return p.id
}

// EmitUserAction queues action for reduction. Never blocks; never drops
// while the presenter is alive.
func (p *Presenter[S, N, A]) EmitUserAction(action A) {
	if err := p.TryEmitUserAction(action); err != nil {
		p.debug("user action dropped", "action", action, "err", err)
	}
}

// TryEmitUserAction is EmitUserAction reporting ErrDisposed once the
// presenter is disposed.
func (p *Presenter[S, N, A]) TryEmitUserAction(action A) error {
	p.mu.Lock()
	disposed := p.disposed
	p.mu.Unlock()
	if disposed {
		return ErrDisposed
	}
	p.driver.Emit(action)
	return nil
}

// State returns the current state.
func (p *Presenter[S, N, A]) State() S {
	return p.state.Value()
}

// Subscribe replays the current state and then every published state until
// ctx is done or the presenter is disposed. Subscribing counts as observing
// for the sharing policy.
func (p *Presenter[S, N, A]) Subscribe(ctx context.Context) <-chan S {
	return p.state.Subscribe(ctx)
}

// Navigation is signalled whenever a navigation request becomes pending.
func (p *Presenter[S, N, A]) Navigation() <-chan struct{} {
	return p.navReady
}

// Reducer returns the active reducer.
func (p *Presenter[S, N, A]) Reducer() Reducer[S, N, A] {
	return p.driver.Active()
}

// Invoke is the render entry point. It runs the pending navigation request,
// if any, exactly once against nav, then renders the current state.
// Each call holds the driver alive for the sharing linger.
func (p *Presenter[S, N, A]) Invoke(nav N) string {
	p.touchRender()

	if req := p.nav.Swap(nil); req != nil {
		p.debug("running navigation", "request", req.id.String())
		req.run(nav)
	}

	state := p.state.Value()
	if p.content == nil {
		return ""
	}
	return p.content(state)
}

// Done is closed once the presenter is disposed.
func (p *Presenter[S, N, A]) Done() <-chan struct{} {
	return p.done
}

// Err returns the fatal error that ended the presenter, if any.
func (p *Presenter[S, N, A]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Dispose cancels the driver, every side effect and every source, and ends
// all subscriptions. Once it returns the state no longer changes and
// observers receive no further transitions; a reduction still in flight is
// discarded. Safe to call multiple times. Returns Err().
func (p *Presenter[S, N, A]) Dispose() error {
	p.mu.Lock()
	if p.disposed {
		err := p.err
		p.mu.Unlock()
		return err
	}
	p.disposed = true
	if p.stopTimer != nil {
		p.stopTimer.Stop()
		p.stopTimer = nil
	}
	var release func()
	if p.lease != nil {
		p.lease.timer.Stop()
		release = p.lease.release
		p.lease = nil
	}
	cancel := p.runCancel
	p.runCancel = nil
	err := p.err
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.scope.Cancel()
	if release != nil {
		release()
	}
	p.pubMu.Lock()
	p.closed = true
	p.state.Close()
	p.pubMu.Unlock()
	close(p.done)
	p.debug("presenter disposed", "err", err)
	return err
}

// publish is the driver's single writer hook.
func (p *Presenter[S, N, A]) publish(action A, next S) (Reducer[S, N, A], error) {
	p.pubMu.Lock()
	defer p.pubMu.Unlock()
	if p.closed {
		p.debug("state dropped after dispose", "state", next)
		return nil, nil
	}

	prev := p.state.Value()
	fromVariant, toVariant := p.selector.Variant(prev), p.selector.Variant(next)

	var swapped Reducer[S, N, A]
	if fromVariant != toVariant {
		r, err := p.selectReducer(next)
		if err != nil {
			return nil, err
		}
		swapped = r
		p.debug("reducer swapped", "from", fromVariant, "to", toVariant, "reducer", fmt.Sprintf("%T", r))
	}

	p.debug("update state", "from", prev, "to", next)
	p.state.Set(next)

	if len(p.opts.observers) > 0 {
		t := newTransition(p.id, p.seq.Add(1), action, prev, next, fromVariant, toVariant, swapped != nil)
		for _, obs := range p.opts.observers {
			obs.Observe(t)
		}
	}
	return swapped, nil
}

func (p *Presenter[S, N, A]) selectReducer(state S) (Reducer[S, N, A], error) {
	r, err := p.selector.Reducer(state)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: %T", ErrNoReducer, state)
	}
	if !r.FilterUiState(state) {
		return nil, fmt.Errorf("%w: %T rejects state %T", ErrNoReducer, r, state)
	}
	return r, nil
}

func (p *Presenter[S, N, A]) performNavigation(navigation func(N)) {
	req := &navRequest[N]{id: uuid.New(), run: navigation}
	if old := p.nav.Swap(req); old != nil {
		p.debug("navigation replaced", "request", old.id.String())
	}
	p.debug("navigation requested", "request", req.id.String())
	select {
	case p.navReady <- struct{}{}:
	default:
	}
}

// reconcile applies the sharing policy to the current observer count.
func (p *Presenter[S, N, A]) reconcile() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return
	}
	observers := p.state.Observers()

	switch p.opts.sharing.mode {
	case eagerly:
	case lazily:
		if observers > 0 {
			p.startLocked()
		}
	default:
		if observers > 0 {
			if p.stopTimer != nil {
				p.stopTimer.Stop()
				p.stopTimer = nil
			}
			p.startLocked()
		} else if p.runCancel != nil && p.stopTimer == nil {
			p.stopTimer = time.AfterFunc(p.opts.sharing.linger, p.lingerExpired)
		}
	}
}

func (p *Presenter[S, N, A]) lingerExpired() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopTimer = nil
	if p.disposed || p.state.Observers() > 0 {
		return
	}
	p.stopLocked()
}

func (p *Presenter[S, N, A]) startLocked() {
	if p.runCancel != nil || p.disposed {
		return
	}
	ctx, cancel := context.WithCancel(p.scope.Context())
	done := make(chan struct{})
	prev := p.runDone
	p.runCancel, p.runDone = cancel, done
	p.debug("state stream started")

	go func() {
		defer close(done)
		if prev != nil {
			<-prev
		}
		if err := p.driver.Run(ctx); err != nil {
			p.fail(err)
		}
	}()
}

func (p *Presenter[S, N, A]) stopLocked() {
	if p.runCancel == nil {
		return
	}
	p.runCancel()
	p.runCancel = nil
	p.debug("state stream stopped")
}

func (p *Presenter[S, N, A]) fail(err error) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		p.debug("state stream ended after dispose", "err", err)
		return
	}
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
	p.logger.Error("state stream failed", "err", err)
	p.Dispose()
}

// touchRender holds the driver alive for one linger period per render.
func (p *Presenter[S, N, A]) touchRender() {
	if p.opts.sharing.mode == eagerly {
		return
	}
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	if p.lease != nil {
		p.lease.timer.Reset(p.renderLinger())
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	// Hold() re-enters reconcile, so it must run without p.mu.
	release := p.state.Hold()

	p.mu.Lock()
	if p.lease != nil || p.disposed {
		p.mu.Unlock()
		release()
		return
	}
	l := &renderLease{release: release}
	l.timer = time.AfterFunc(p.renderLinger(), func() { p.leaseExpired(l) })
	p.lease = l
	p.mu.Unlock()
}

func (p *Presenter[S, N, A]) leaseExpired(l *renderLease) {
	p.mu.Lock()
	if p.lease != l {
		p.mu.Unlock()
		return
	}
	p.lease = nil
	p.mu.Unlock()
	l.release()
}

func (p *Presenter[S, N, A]) renderLinger() time.Duration {
	if p.opts.sharing.linger > 0 {
		return p.opts.sharing.linger
	}
	return DefaultLinger
}

func (p *Presenter[S, N, A]) debug(msg string, args ...any) {
	if p.opts.verbose {
		p.logger.Debug(msg, args...)
	}
}
