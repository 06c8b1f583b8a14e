package presenterx

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Transition describes one published reduction. Values are pre-formatted
// so observers can store them without holding on to state.
type Transition struct {
	PresenterID uuid.UUID `json:"presenterID" yaml:"presenterID"`
	Seq         uint64    `json:"seq" yaml:"seq"`
	ActionType  string    `json:"actionType" yaml:"actionType"`
	Action      string    `json:"action" yaml:"action"`
	From        string    `json:"from" yaml:"from"`
	To          string    `json:"to" yaml:"to"`
	FromVariant string    `json:"fromVariant,omitempty" yaml:"fromVariant,omitempty"`
	ToVariant   string    `json:"toVariant,omitempty" yaml:"toVariant,omitempty"`
	Swapped     bool      `json:"swapped,omitempty" yaml:"swapped,omitempty"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// Observer receives transitions synchronously on the driver goroutine.
// Implementations must not block and must not call Dispose.
type Observer interface {
	Observe(t Transition)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(t Transition)

func (f ObserverFunc) Observe(t Transition) { f(t) }

func newTransition(id uuid.UUID, seq uint64, action, from, to any, fromVariant, toVariant string, swapped bool) Transition {
	return Transition{
		PresenterID: id,
		Seq:         seq,
		ActionType:  fmt.Sprintf("%T", action),
		Action:      fmt.Sprintf("%+v", action),
		From:        fmt.Sprintf("%+v", from),
		To:          fmt.Sprintf("%+v", to),
		FromVariant: fromVariant,
		ToVariant:   toVariant,
		Swapped:     swapped,
		Timestamp:   time.Now(),
	}
}
