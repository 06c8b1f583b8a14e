package demo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/comalice/presenterx"
)

// maxToasts bounds the visible toast list.
const maxToasts = 5

// ToastState lists the most recent toasts, newest last.
type ToastState struct {
	Toasts []string
}

// ToastAction is implemented by ShowToast and ClearToasts.
type ToastAction interface{ toastAction() }

// ShowToast appends Text. With Remaining > 0, a side effect emits the next
// toast of the cascade after a delay.
type ShowToast struct {
	Text      string
	Remaining int
}

// ClearToasts empties the list.
type ClearToasts struct{}

func (ShowToast) toastAction()   {}
func (ClearToasts) toastAction() {}

// NewToastReducer returns a reducer whose cascades wait delay between toasts.
func NewToastReducer(delay time.Duration) presenterx.Reducer[ToastState, Navigator, ToastAction] {
	return presenterx.SingleReducer[ToastState, Navigator, ToastAction](
		func(_ context.Context, s ToastState, a ToastAction, _ presenterx.Navigate[Navigator]) (presenterx.ReduceResult[ToastState, ToastAction], error) {
			switch a := a.(type) {
			case ClearToasts:
				return presenterx.Result[ToastAction](ToastState{}), nil
			case ShowToast:
				toasts := append(append([]string(nil), s.Toasts...), a.Text)
				if len(toasts) > maxToasts {
					toasts = toasts[len(toasts)-maxToasts:]
				}
				next := ToastState{Toasts: toasts}
				if a.Remaining <= 0 {
					return presenterx.Result[ToastAction](next), nil
				}
				follow := ShowToast{Text: fmt.Sprintf("toast %d", a.Remaining), Remaining: a.Remaining - 1}
				return presenterx.WithSideEffect(next, presenterx.SideEffect[ToastAction](func(ctx context.Context, emit func(ToastAction)) error {
					select {
					case <-ctx.Done():
						return ctx.Err()
					case <-time.After(delay):
					}
					emit(follow)
					return nil
				})), nil
			}
			return presenterx.Result[ToastAction](s), nil
		},
	)
}

// NewToasts creates the cascade toast presenter.
func NewToasts(ctx context.Context, opts Options) (*presenterx.Presenter[ToastState, Navigator, ToastAction], error) {
	return presenterx.NewSinglePresenter(ctx, presenterx.SingleConfig[ToastState, Navigator, ToastAction]{
		Initial: func() ToastState { return ToastState{} },
		Reducer: NewToastReducer(opts.tick() / 2),
		Content: func(s ToastState) string {
			if len(s.Toasts) == 0 {
				return "No toasts"
			}
			return strings.Join(s.Toasts, "\n")
		},
	}, opts.Presenter...)
}

// ToastScreen binds t to a three toast cascade and c to ClearToasts.
func ToastScreen(ctx context.Context, opts Options) (Screen, error) {
	p, err := NewToasts(ctx, opts)
	if err != nil {
		return nil, err
	}
	return newScreen("cascade toasts", "t: cascade  c: clear", p, map[string]func() ToastAction{
		"t": func() ToastAction { return ShowToast{Text: "toast 3", Remaining: 2} },
		"c": func() ToastAction { return ClearToasts{} },
	}), nil
}
