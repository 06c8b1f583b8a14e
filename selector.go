package presenterx

import "fmt"

// Selector picks the reducer for a state variant. The presenter asks for a
// new reducer whenever Variant changes between two published states.
type Selector[S, N, A any] interface {
	Variant(state S) string
	Reducer(state S) (Reducer[S, N, A], error)
}

type singleSelector[S, N, A any] struct {
	reducer Reducer[S, N, A]
}

// Single is the Selector of single-state presenters: one variant, one
// reducer for the presenter's lifetime.
func Single[S, N, A any](reducer Reducer[S, N, A]) Selector[S, N, A] {
	return singleSelector[S, N, A]{reducer: reducer}
}

func (s singleSelector[S, N, A]) Variant(S) string { return "" }

func (s singleSelector[S, N, A]) Reducer(S) (Reducer[S, N, A], error) {
	if s.reducer == nil {
		return nil, ErrNoReducer
	}
	return s.reducer, nil
}

// VariantTable maps a state variant tag to a reducer factory.
type VariantTable[S, N, A any] map[string]func(state S) Reducer[S, N, A]

type tableSelector[S, N, A any] struct {
	tag   func(S) string
	table VariantTable[S, N, A]
}

// ByVariant selects reducers through an explicit tag -> factory table.
func ByVariant[S, N, A any](tag func(S) string, table VariantTable[S, N, A]) Selector[S, N, A] {
	return tableSelector[S, N, A]{tag: tag, table: table}
}

func (s tableSelector[S, N, A]) Variant(state S) string {
	return s.tag(state)
}

func (s tableSelector[S, N, A]) Reducer(state S) (Reducer[S, N, A], error) {
	tag := s.tag(state)
	factory, ok := s.table[tag]
	if !ok || factory == nil {
		return nil, fmt.Errorf("%w: variant %q", ErrNoReducer, tag)
	}
	r := factory(state)
	if r == nil {
		return nil, fmt.Errorf("%w: variant %q factory returned nil", ErrNoReducer, tag)
	}
	return r, nil
}
