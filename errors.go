package presenterx

import "errors"

var (
	ErrDisposed     = errors.New("presenter disposed")
	ErrNoReducer    = errors.New("no reducer for state")
	ErrReduce       = errors.New("reduce failed")
	ErrReducerPanic = errors.New("reducer panicked")
	ErrSource       = errors.New("action source failed")
	ErrEffectPanic  = errors.New("side effect panicked")
	ErrRunning      = errors.New("driver already running")
)
