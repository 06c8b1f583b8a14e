package demo

import (
	"context"
	"fmt"

	"github.com/comalice/presenterx"
)

// FinishState counts finish requests.
type FinishState struct {
	Finished int
}

// FinishAction is implemented by Finish and OpenScreen.
type FinishAction interface{ finishAction() }

// Finish navigates back to the previous screen.
type Finish struct{}

// OpenScreen navigates to another screen by name.
type OpenScreen struct{ Name string }

func (Finish) finishAction()     {}
func (OpenScreen) finishAction() {}

// ReduceFinish requests navigation; the host runs it on the next render.
func ReduceFinish(_ context.Context, s FinishState, a FinishAction, navigate presenterx.Navigate[Navigator]) (presenterx.ReduceResult[FinishState, FinishAction], error) {
	switch a := a.(type) {
	case Finish:
		s.Finished++
		navigate(func(n Navigator) { n.Back() })
	case OpenScreen:
		name := a.Name
		navigate(func(n Navigator) { n.Open(name) })
	}
	return presenterx.Result[FinishAction](s), nil
}

// NewFinish creates the navigation presenter.
func NewFinish(ctx context.Context, opts Options) (*presenterx.Presenter[FinishState, Navigator, FinishAction], error) {
	return presenterx.NewSinglePresenter(ctx, presenterx.SingleConfig[FinishState, Navigator, FinishAction]{
		Initial: func() FinishState { return FinishState{} },
		Reducer: presenterx.SingleReducer[FinishState, Navigator, FinishAction](ReduceFinish),
		Content: func(s FinishState) string {
			return fmt.Sprintf("Finished %d times", s.Finished)
		},
	}, opts.Presenter...)
}

// FinishScreen binds b to Finish and m to opening the multi-state screen.
func FinishScreen(ctx context.Context, opts Options) (Screen, error) {
	p, err := NewFinish(ctx, opts)
	if err != nil {
		return nil, err
	}
	return newScreen("finish", "b: navigate back  m: open multi state", p, map[string]func() FinishAction{
		"b": func() FinishAction { return Finish{} },
		"m": func() FinishAction { return OpenScreen{Name: "multi state"} },
	}), nil
}
