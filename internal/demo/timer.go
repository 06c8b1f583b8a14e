package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/comalice/presenterx"
	"github.com/comalice/presenterx/sources"
)

// TimerState counts ticks of a background source.
type TimerState struct {
	Ticks  int
	Period time.Duration
}

// TimerAction is implemented by Tick and ResetTimer.
type TimerAction interface{ timerAction() }

// Tick is emitted by the background ticker.
type Tick struct{ N int }

// ResetTimer is a user action that zeroes the count.
type ResetTimer struct{}

func (Tick) timerAction()       {}
func (ResetTimer) timerAction() {}

// ReduceTimer is the timer reducer.
func ReduceTimer(_ context.Context, s TimerState, a TimerAction, _ presenterx.Navigate[Navigator]) (presenterx.ReduceResult[TimerState, TimerAction], error) {
	switch a.(type) {
	case Tick:
		s.Ticks++
	case ResetTimer:
		s.Ticks = 0
	}
	return presenterx.Result[TimerAction](s), nil
}

// NewTimer creates the timer presenter. Ticks only flow while observed.
func NewTimer(ctx context.Context, opts Options) (*presenterx.Presenter[TimerState, Navigator, TimerAction], error) {
	period := opts.tick()
	return presenterx.NewSinglePresenter(ctx, presenterx.SingleConfig[TimerState, Navigator, TimerAction]{
		Sources: []presenterx.Source[TimerAction]{
			sources.Ticker(period, func(n int) TimerAction { return Tick{N: n} }),
		},
		Initial: func() TimerState { return TimerState{Period: period} },
		Reducer: presenterx.SingleReducer[TimerState, Navigator, TimerAction](ReduceTimer),
		Content: func(s TimerState) string {
			return fmt.Sprintf("Elapsed: %s (%d ticks)", time.Duration(s.Ticks)*s.Period, s.Ticks)
		},
	}, opts.Presenter...)
}

// TimerScreen binds r to ResetTimer.
func TimerScreen(ctx context.Context, opts Options) (Screen, error) {
	p, err := NewTimer(ctx, opts)
	if err != nil {
		return nil, err
	}
	return newScreen("timer", "r: reset", p, map[string]func() TimerAction{
		"r": func() TimerAction { return ResetTimer{} },
	}), nil
}
