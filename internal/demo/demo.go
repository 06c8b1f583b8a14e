// Package demo holds small presenters that exercise the runtime end to end:
// a background ticker, a refresh side effect, per-variant reducers,
// chained side effects and navigation.
package demo

import (
	"context"
	"time"

	"github.com/comalice/presenterx"
)

// Navigator is the navigation scope demo screens receive at render time.
type Navigator interface {
	Back()
	Open(screen string)
}

// Screen is a presenter bound to key handlers, as seen by a host.
type Screen interface {
	Name() string
	Help() string
	// Render runs pending navigation against nav and renders the state.
	Render(nav Navigator) string
	// HandleKey emits the action bound to key. Reports whether one exists.
	HandleKey(key string) bool
	// Changes signals every published state until ctx is done.
	Changes(ctx context.Context) <-chan struct{}
	ID() string
	Err() error
	Dispose() error
}

// Options are shared by the demo constructors.
type Options struct {
	// Tick is the timer period and the base delay of side effects.
	Tick time.Duration
	// Presenter options applied to every screen.
	Presenter []presenterx.Option
}

func (o Options) tick() time.Duration {
	if o.Tick > 0 {
		return o.Tick
	}
	return time.Second
}

type screen[S, A any] struct {
	name string
	help string
	p    *presenterx.Presenter[S, Navigator, A]
	keys map[string]func() A
}

func newScreen[S, A any](name, help string, p *presenterx.Presenter[S, Navigator, A], keys map[string]func() A) *screen[S, A] {
	return &screen[S, A]{name: name, help: help, p: p, keys: keys}
}

func (s *screen[S, A]) Name() string { return s.name }
func (s *screen[S, A]) Help() string { return s.help }
func (s *screen[S, A]) ID() string   { return s.p.ID().String() }
func (s *screen[S, A]) Err() error   { return s.p.Err() }

func (s *screen[S, A]) Render(nav Navigator) string {
	return s.p.Invoke(nav)
}

func (s *screen[S, A]) HandleKey(key string) bool {
	action, ok := s.keys[key]
	if !ok {
		return false
	}
	s.p.EmitUserAction(action())
	return true
}

func (s *screen[S, A]) Changes(ctx context.Context) <-chan struct{} {
	states := s.p.Subscribe(ctx)
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range states {
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out
}

func (s *screen[S, A]) Dispose() error {
	return s.p.Dispose()
}

// All builds every demo screen in menu order.
func All(ctx context.Context, opts Options) ([]Screen, error) {
	builders := []func(context.Context, Options) (Screen, error){
		TimerScreen,
		RefreshScreen,
		MultiStateScreen,
		ToastScreen,
		FinishScreen,
	}
	screens := make([]Screen, 0, len(builders))
	for _, build := range builders {
		s, err := build(ctx, opts)
		if err != nil {
			for _, built := range screens {
				_ = built.Dispose()
			}
			return nil, err
		}
		screens = append(screens, s)
	}
	return screens, nil
}
