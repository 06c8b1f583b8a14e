package presenterx

import "context"

// SingleConfig wires a presenter that keeps one state type and one reducer
// for its whole lifetime.
type SingleConfig[S, N, A any] struct {
	Sources []Source[A]
	Initial func() S
	Reducer Reducer[S, N, A]
	Content func(state S) string
}

// NewSinglePresenter creates a single-state presenter.
func NewSinglePresenter[S, N, A any](ctx context.Context, cfg SingleConfig[S, N, A], opts ...Option) (*Presenter[S, N, A], error) {
	return NewPresenter(ctx, Config[S, N, A]{
		Sources:  cfg.Sources,
		Initial:  cfg.Initial,
		Reducers: Single(cfg.Reducer),
		Content:  cfg.Content,
	}, opts...)
}
