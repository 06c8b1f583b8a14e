package demo

import (
	"context"
	"errors"
	"fmt"

	"github.com/comalice/presenterx"
)

// MultiState is either DataState or ErrorState.
type MultiState interface {
	Variant() string
}

// DataState shows a counter.
type DataState struct {
	Count int
}

// ErrorState shows a failure and offers a retry. Count is restored on retry.
type ErrorState struct {
	Message string
	Count   int
}

func (DataState) Variant() string  { return "data" }
func (ErrorState) Variant() string { return "error" }

// MultiAction is the action family of the multi-state screen.
type MultiAction interface{ multiAction() }

// DataAction is handled while in DataState.
type DataAction interface {
	MultiAction
	dataAction()
}

// ErrorAction is handled while in ErrorState.
type ErrorAction interface {
	MultiAction
	errorAction()
}

// Increment bumps the counter.
type Increment struct{}

// Fail moves to ErrorState.
type Fail struct{ Message string }

// Retry moves back to DataState.
type Retry struct{}

// ResetAll is accepted by every variant; it moves to an empty DataState.
type ResetAll struct{}

func (Increment) multiAction() {}
func (Increment) dataAction()  {}
func (Fail) multiAction()      {}
func (Fail) dataAction()       {}
func (Retry) multiAction()     {}
func (Retry) errorAction()     {}
func (ResetAll) multiAction()  {}
func (ResetAll) dataAction()   {}
func (ResetAll) errorAction()  {}

var errUnhandled = errors.New("demo: unhandled action")

type multiResult = presenterx.ReduceResult[MultiState, MultiAction]

func reduceData(_ context.Context, s DataState, a DataAction, _ presenterx.Navigate[Navigator]) (multiResult, error) {
	switch a := a.(type) {
	case Increment:
		return presenterx.Result[MultiAction, MultiState](DataState{Count: s.Count + 1}), nil
	case Fail:
		return presenterx.Result[MultiAction, MultiState](ErrorState{Message: a.Message, Count: s.Count}), nil
	case ResetAll:
		return presenterx.Result[MultiAction, MultiState](DataState{}), nil
	}
	return multiResult{}, fmt.Errorf("%w: %T in data", errUnhandled, a)
}

func reduceError(_ context.Context, s ErrorState, a ErrorAction, _ presenterx.Navigate[Navigator]) (multiResult, error) {
	switch a.(type) {
	case Retry:
		return presenterx.Result[MultiAction, MultiState](DataState{Count: s.Count}), nil
	case ResetAll:
		return presenterx.Result[MultiAction, MultiState](DataState{}), nil
	}
	return multiResult{}, fmt.Errorf("%w: %T in error", errUnhandled, a)
}

// MultiStateReducers maps each variant to its reducer.
func MultiStateReducers() presenterx.Selector[MultiState, Navigator, MultiAction] {
	data := presenterx.NewVariantReducer[MultiState, Navigator, MultiAction, DataState, DataAction](reduceData)
	failed := presenterx.NewVariantReducer[MultiState, Navigator, MultiAction, ErrorState, ErrorAction](reduceError)
	return presenterx.ByVariant(MultiState.Variant, presenterx.VariantTable[MultiState, Navigator, MultiAction]{
		"data":  func(MultiState) presenterx.Reducer[MultiState, Navigator, MultiAction] { return data },
		"error": func(MultiState) presenterx.Reducer[MultiState, Navigator, MultiAction] { return failed },
	})
}

// NewMultiState creates the multi-state presenter, starting in DataState.
func NewMultiState(ctx context.Context, opts Options) (*presenterx.Presenter[MultiState, Navigator, MultiAction], error) {
	return presenterx.NewPresenter(ctx, presenterx.Config[MultiState, Navigator, MultiAction]{
		Initial:  func() MultiState { return DataState{} },
		Reducers: MultiStateReducers(),
		Content: func(s MultiState) string {
			switch s := s.(type) {
			case DataState:
				return fmt.Sprintf("Data: count %d", s.Count)
			case ErrorState:
				return fmt.Sprintf("Error: %s", s.Message)
			}
			return ""
		},
	}, opts.Presenter...)
}

// MultiStateScreen binds i, e, r and x to the multi-state actions.
func MultiStateScreen(ctx context.Context, opts Options) (Screen, error) {
	p, err := NewMultiState(ctx, opts)
	if err != nil {
		return nil, err
	}
	return newScreen("multi state", "i: increment  e: fail  r: retry  x: reset", p, map[string]func() MultiAction{
		"i": func() MultiAction { return Increment{} },
		"e": func() MultiAction { return Fail{Message: "something went wrong"} },
		"r": func() MultiAction { return Retry{} },
		"x": func() MultiAction { return ResetAll{} },
	}), nil
}
