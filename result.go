package presenterx

import "context"

// SideEffect is detached work scheduled after a reduction is published.
// emit feeds follow-up actions back into the presenter's action stream.
type SideEffect[A any] func(ctx context.Context, emit func(A)) error

// ReduceResult is the outcome of one reduction.
type ReduceResult[S, A any] struct {
	State      S
	SideEffect SideEffect[A] // nil --> none
}

// Result wraps state in a ReduceResult without side effect.
func Result[A, S any](state S) ReduceResult[S, A] {
	return ReduceResult[S, A]{State: state}
}

// WithSideEffect wraps state in a ReduceResult carrying fx.
func WithSideEffect[S, A any](state S, fx SideEffect[A]) ReduceResult[S, A] {
	return ReduceResult[S, A]{State: state, SideEffect: fx}
}
