package presenterx

import (
	"context"
	"fmt"
)

// Navigate requests a deferred navigation closure. The latest request
// replaces any pending one; it runs once on the next Invoke.
type Navigate[N any] func(navigation func(N))

// Reducer maps (state, action) to the next state.
//
// Reduce may block on ctx but long work belongs in the returned SideEffect.
// A returned error (or panic) is a programming error and ends the driver.
type Reducer[S, N, A any] interface {
	Reduce(ctx context.Context, state S, action A, navigate Navigate[N]) (ReduceResult[S, A], error)
	// FilterAction reports whether this reducer handles action.
	FilterAction(action A) bool
	// FilterUiState reports whether this reducer is valid for state.
	FilterUiState(state S) bool
}

// EffectScoper is implemented by reducers that run their side effects on
// their own Scope instead of the presenter's.
type EffectScoper interface {
	EffectScope() *Scope
}

// SingleReducer adapts a reduce function to a Reducer that accepts every
// action and every state.
type SingleReducer[S, N, A any] func(ctx context.Context, state S, action A, navigate Navigate[N]) (ReduceResult[S, A], error)

func (f SingleReducer[S, N, A]) Reduce(ctx context.Context, state S, action A, navigate Navigate[N]) (ReduceResult[S, A], error) {
	return f(ctx, state, action, navigate)
}

func (f SingleReducer[S, N, A]) FilterAction(A) bool { return true }

func (f SingleReducer[S, N, A]) FilterUiState(S) bool { return true }

// variantReducer handles one state variant VS and the action subset VA.
type variantReducer[S, N, A, VS, VA any] struct {
	reduce func(ctx context.Context, state VS, action VA, navigate Navigate[N]) (ReduceResult[S, A], error)
}

// NewVariantReducer builds a Reducer for the state variant VS that only
// accepts actions implementing VA. Both filters are type assertions.
func NewVariantReducer[S, N, A, VS, VA any](
	reduce func(ctx context.Context, state VS, action VA, navigate Navigate[N]) (ReduceResult[S, A], error),
) Reducer[S, N, A] {
	return &variantReducer[S, N, A, VS, VA]{reduce: reduce}
}

func (r *variantReducer[S, N, A, VS, VA]) Reduce(ctx context.Context, state S, action A, navigate Navigate[N]) (ReduceResult[S, A], error) {
	vs, ok := any(state).(VS)
	if !ok {
		return ReduceResult[S, A]{}, fmt.Errorf("%w: state %T", ErrNoReducer, state)
	}
	va, ok := any(action).(VA)
	if !ok {
		return ReduceResult[S, A]{}, fmt.Errorf("unhandled action %T", action)
	}
	return r.reduce(ctx, vs, va, navigate)
}

func (r *variantReducer[S, N, A, VS, VA]) FilterAction(action A) bool {
	_, ok := any(action).(VA)
	return ok
}

func (r *variantReducer[S, N, A, VS, VA]) FilterUiState(state S) bool {
	_, ok := any(state).(VS)
	return ok
}

// scopedReducer binds a Reducer to an explicit side-effect Scope.
type scopedReducer[S, N, A any] struct {
	Reducer[S, N, A]
	scope *Scope
}

// Scoped runs r's side effects on scope.
func Scoped[S, N, A any](r Reducer[S, N, A], scope *Scope) Reducer[S, N, A] {
	return &scopedReducer[S, N, A]{Reducer: r, scope: scope}
}

func (r *scopedReducer[S, N, A]) EffectScope() *Scope {
	return r.scope
}
