package presenterx

import (
	"log/slog"
	"time"
)

// DefaultLinger is how long WhileSubscribed keeps the driver alive after
// the last observer leaves.
const DefaultLinger = 5 * time.Second

type sharingMode int

const (
	whileSubscribed sharingMode = iota
	eagerly
	lazily
)

// Sharing decides when the presenter's driver runs.
type Sharing struct {
	mode   sharingMode
	linger time.Duration
}

var (
	// Eagerly starts the driver at construction and never stops it.
	Eagerly = Sharing{mode: eagerly}
	// Lazily starts the driver with the first observer and never stops it.
	Lazily = Sharing{mode: lazily}
)

// WhileSubscribed runs the driver while observed and stops it linger after
// the last observer leaves.
func WhileSubscribed(linger time.Duration) Sharing {
	return Sharing{mode: whileSubscribed, linger: linger}
}

func (s Sharing) String() string {
	switch s.mode {
	case eagerly:
		return "eagerly"
	case lazily:
		return "lazily"
	default:
		return "while_subscribed(" + s.linger.String() + ")"
	}
}

type options struct {
	logger        *slog.Logger
	verbose       bool
	sharing       Sharing
	observers     []Observer
	onEffectError func(error)
}

// Option configures a Presenter via functional options pattern.
type Option func(*options)

// WithLogger sets the presenter's logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithVerbose enables debug records for internal transitions.
// No effect on behavior.
func WithVerbose(verbose bool) Option {
	return func(o *options) {
		o.verbose = verbose
	}
}

// WithSharing sets the driver sharing policy (default WhileSubscribed(DefaultLinger)).
func WithSharing(s Sharing) Option {
	return func(o *options) {
		o.sharing = s
	}
}

// WithObserver adds a transition Observer.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, obs)
	}
}

// WithEffectErrorHandler receives side-effect errors and panics instead of
// the default error log.
func WithEffectErrorHandler(h func(error)) Option {
	return func(o *options) {
		o.onEffectError = h
	}
}

func defaultOptions() options {
	return options{
		logger:  slog.Default(),
		sharing: WhileSubscribed(DefaultLinger),
	}
}
