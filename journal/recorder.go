package journal

import (
	"sync"
	"time"

	"github.com/comalice/presenterx"
)

// DefaultCapacity bounds a Recorder created with a non-positive capacity.
const DefaultCapacity = 256

// Recorder keeps the most recent transitions in a bounded ring.
// Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	buf     []presenterx.Transition
	next    int
	full    bool
	dropped uint64
}

// NewRecorder creates a Recorder holding at most capacity transitions.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{buf: make([]presenterx.Transition, capacity)}
}

// Observe implements presenterx.Observer.
func (r *Recorder) Observe(t presenterx.Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		r.dropped++
	}
	r.buf[r.next] = t
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
}

// Transitions returns the retained transitions, oldest first.
func (r *Recorder) Transitions() []presenterx.Transition {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]presenterx.Transition(nil), r.buf[:r.next]...)
	}
	out := make([]presenterx.Transition, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}

// Dropped reports how many transitions were overwritten.
func (r *Recorder) Dropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Snapshot returns the retained transitions that belong to presenterID.
func (r *Recorder) Snapshot(presenterID string) Snapshot {
	all := r.Transitions()
	out := all[:0]
	for _, t := range all {
		if t.PresenterID.String() == presenterID {
			out = append(out, t)
		}
	}
	return Snapshot{
		PresenterID: presenterID,
		Transitions: out,
		SavedAt:     time.Now().UTC(),
	}
}
