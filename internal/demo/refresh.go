package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/comalice/presenterx"
)

// RefreshState is a pull-to-refresh screen.
type RefreshState struct {
	Refreshing bool
	Refreshes  int
}

// RefreshAction is implemented by Refresh and StopRefresh.
type RefreshAction interface{ refreshAction() }

// Refresh starts a refresh unless one is running.
type Refresh struct{}

// StopRefresh ends the running refresh. Emitted by the refresh side effect.
type StopRefresh struct{}

func (Refresh) refreshAction()     {}
func (StopRefresh) refreshAction() {}

// RefreshReducer holds the simulated refresh duration.
type RefreshReducer struct {
	Delay time.Duration
}

func (r RefreshReducer) Reduce(_ context.Context, s RefreshState, a RefreshAction, _ presenterx.Navigate[Navigator]) (presenterx.ReduceResult[RefreshState, RefreshAction], error) {
	switch a.(type) {
	case Refresh:
		if s.Refreshing {
			return presenterx.Result[RefreshAction](s), nil
		}
		s.Refreshing = true
		return presenterx.WithSideEffect(s, presenterx.SideEffect[RefreshAction](func(ctx context.Context, emit func(RefreshAction)) error {
			t := time.NewTimer(r.Delay)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
			}
			emit(StopRefresh{})
			return nil
		})), nil
	case StopRefresh:
		if s.Refreshing {
			s.Refreshing = false
			s.Refreshes++
		}
	}
	return presenterx.Result[RefreshAction](s), nil
}

func (RefreshReducer) FilterAction(RefreshAction) bool { return true }

func (RefreshReducer) FilterUiState(RefreshState) bool { return true }

// NewRefresh creates the pull-to-refresh presenter.
func NewRefresh(ctx context.Context, opts Options) (*presenterx.Presenter[RefreshState, Navigator, RefreshAction], error) {
	return presenterx.NewSinglePresenter(ctx, presenterx.SingleConfig[RefreshState, Navigator, RefreshAction]{
		Initial: func() RefreshState { return RefreshState{} },
		Reducer: RefreshReducer{Delay: opts.tick()},
		Content: func(s RefreshState) string {
			status := "idle"
			if s.Refreshing {
				status = "refreshing..."
			}
			return fmt.Sprintf("Status: %s\nRefreshed %d times", status, s.Refreshes)
		},
	}, opts.Presenter...)
}

// RefreshScreen binds space and f to Refresh.
func RefreshScreen(ctx context.Context, opts Options) (Screen, error) {
	p, err := NewRefresh(ctx, opts)
	if err != nil {
		return nil, err
	}
	refresh := func() RefreshAction { return Refresh{} }
	return newScreen("pull to refresh", "f: refresh", p, map[string]func() RefreshAction{
		"f": refresh,
		" ": refresh,
	}), nil
}
