// Package presenterx is a UI-agnostic presenter/reducer runtime.
//
// A Presenter owns one immutable state value. Actions arrive from any number
// of background Sources plus an unbounded user action queue; the Driver
// merges them first-ready and applies the active Reducer to each action
// strictly one at a time. A reduction yields the next state and, optionally,
// a SideEffect that runs detached on a Scope and may emit further actions.
//
// # Example Usage
//
//	p, _ := presenterx.NewSinglePresenter(ctx, presenterx.SingleConfig[Counter, Nav, Action]{
//		Initial: func() Counter { return Counter{} },
//		Reducer: presenterx.SingleReducer[Counter, Nav, Action](reduce),
//		Content: func(c Counter) string { return strconv.Itoa(c.N) },
//	})
//	defer p.Dispose()
//	p.EmitUserAction(Increment{})
//	frame := p.Invoke(nav)
//
// # Ordering Guarantees
//
//   - State mutations are totally ordered: Reduce never runs concurrently.
//   - Arrival order across independent sources is first-ready, not fixed.
//   - User actions are FIFO relative to each other and never dropped.
//   - Side effects never delay later reductions.
//
// # Multi-state Presenters
//
// A Selector maps a state variant tag to a reducer factory. When a reduction
// changes the variant, the presenter swaps the active reducer before the
// next action is consumed. Actions the active reducer does not accept are
// dropped silently.
//
// # Navigation
//
// Reducers never navigate directly. They pass a closure to Navigate; the
// closure runs exactly once, on the next Invoke, against the host's nav
// scope.
package presenterx
