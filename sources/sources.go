// Package sources provides common background action streams for presenters.
package sources

import (
	"context"
	"time"

	"github.com/comalice/presenterx"
)

// FromChannel forwards every value received on ch until ch is closed or
// the driver stops. Closing ch completes the source.
func FromChannel[A any](ch <-chan A) presenterx.Source[A] {
	return presenterx.SourceFunc[A](func(ctx context.Context, emit presenterx.Emit[A]) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case a, ok := <-ch:
				if !ok {
					return nil
				}
				if err := emit(a); err != nil {
					return err
				}
			}
		}
	})
}

// Ticker emits action(n) every d, with n counting from 0 on each run.
// Useful for timer and heartbeat screens.
func Ticker[A any](d time.Duration, action func(n int) A) presenterx.Source[A] {
	return presenterx.SourceFunc[A](func(ctx context.Context, emit presenterx.Emit[A]) error {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for n := 0; ; n++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := emit(action(n)); err != nil {
					return err
				}
			}
		}
	})
}

// Repeat emits action(i) n times, waiting delay(i) before each emission.
// A nil delay emits back to back.
func Repeat[A any](n int, delay func(i int) time.Duration, action func(i int) A) presenterx.Source[A] {
	return presenterx.SourceFunc[A](func(ctx context.Context, emit presenterx.Emit[A]) error {
		for i := 0; i < n; i++ {
			if delay != nil {
				if err := sleep(ctx, delay(i)); err != nil {
					return err
				}
			}
			if err := emit(action(i)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Of emits actions in order and completes.
func Of[A any](actions ...A) presenterx.Source[A] {
	return presenterx.SourceFunc[A](func(ctx context.Context, emit presenterx.Emit[A]) error {
		for _, a := range actions {
			if err := emit(a); err != nil {
				return err
			}
		}
		return nil
	})
}

// Map converts src's values into another action family.
func Map[From, To any](src presenterx.Source[From], fn func(From) To) presenterx.Source[To] {
	return presenterx.SourceFunc[To](func(ctx context.Context, emit presenterx.Emit[To]) error {
		return src.Run(ctx, func(a From) error {
			return emit(fn(a))
		})
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
