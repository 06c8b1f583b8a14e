package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type staticSource struct{ states []int }

func (s staticSource) Subscribe(ctx context.Context) <-chan int {
	ch := make(chan int, len(s.states))
	for _, v := range s.states {
		ch <- v
	}
	close(ch)
	return ch
}

func (s staticSource) State() int { return s.states[len(s.states)-1] }

func TestWaitForState(t *testing.T) {
	got := WaitForState[int](t, staticSource{states: []int{1, 2, 3}}, time.Second, func(v int) bool { return v >= 2 })
	require.Equal(t, 2, got)
}

func TestRecordingNav(t *testing.T) {
	var n RecordingNav
	n.Back()
	n.Open("settings")
	require.Equal(t, []string{"back", "open settings"}, n.Calls())
}
