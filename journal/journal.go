// Package journal records presenter transitions and stores them.
//
// A Recorder (or any presenterx.Observer) is attached with
// presenterx.WithObserver. Snapshots taken from a Recorder can be saved with
// one of the Store implementations: JSON or YAML files, or a SQLite database.
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/comalice/presenterx"
)

// ErrNotFound is returned by Load when no snapshot exists for a presenter.
var ErrNotFound = errors.New("journal: snapshot not found")

// ErrInvalidID is returned by stores keyed on presenter UUIDs for any other ID.
var ErrInvalidID = errors.New("journal: invalid presenter id")

// Snapshot is the persisted journal of one presenter.
type Snapshot struct {
	PresenterID string                  `json:"presenterID" yaml:"presenterID"`
	Transitions []presenterx.Transition `json:"transitions" yaml:"transitions"`
	SavedAt     time.Time               `json:"savedAt" yaml:"savedAt"`
}

// Store persists snapshots keyed by presenter ID.
type Store interface {
	Save(ctx context.Context, snapshot Snapshot) error
	Load(ctx context.Context, presenterID string) (Snapshot, error)
}
