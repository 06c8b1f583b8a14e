package presenterx

import "context"

// Emit delivers one action to the driver. It blocks until the driver takes
// the action and returns ctx's error once the driver has stopped.
type Emit[A any] func(action A) error

// Source is a cold action stream. Run is started each time the driver
// starts and must return once ctx is done. Returning nil completes the
// source; any other error is fatal to the driver.
type Source[A any] interface {
	Run(ctx context.Context, emit Emit[A]) error
}

// SourceFunc adapts a function to a Source.
type SourceFunc[A any] func(ctx context.Context, emit Emit[A]) error

func (f SourceFunc[A]) Run(ctx context.Context, emit Emit[A]) error {
	return f(ctx, emit)
}
