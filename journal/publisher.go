package journal

import (
	"sync"

	"github.com/comalice/presenterx"
)

// ChannelPublisher forwards transitions to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	mu      sync.Mutex
	ch      chan<- presenterx.Transition
	closed  bool
	dropped uint64
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- presenterx.Transition) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

// Observe implements presenterx.Observer.
func (p *ChannelPublisher) Observe(t presenterx.Transition) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.ch <- t:
	default:
		p.dropped++
	}
}

// Dropped reports how many transitions were discarded on a full channel.
func (p *ChannelPublisher) Dropped() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Close closes the output channel. Later transitions are discarded.
func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.ch)
	return nil
}
