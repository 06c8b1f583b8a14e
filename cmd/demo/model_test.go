package main

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/comalice/presenterx"
	"github.com/comalice/presenterx/internal/demo"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) *model {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	screens, err := demo.All(ctx, demo.Options{Tick: 10 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() {
		for _, s := range screens {
			_ = s.Dispose()
		}
	})
	return newModel(ctx, screens, make(chan presenterx.Transition), 10*time.Millisecond)
}

func TestModel_MenuNavigation(t *testing.T) {
	m := newTestModel(t)
	require.Contains(t, m.View(), "> timer")

	m.Update(runes("j"))
	m.Update(runes("j"))
	require.Contains(t, m.View(), "> multi state")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, 2, m.active)
	require.Contains(t, m.View(), "Data: count 0")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, menu, m.active)
}

func TestModel_FinishNavigatesBack(t *testing.T) {
	m := newTestModel(t)
	m.enter(2)
	m.enter(4)
	require.Equal(t, []int{2}, m.history)

	m.Update(runes("b"))
	require.Eventually(t, func() bool {
		m.Update(frameMsg{})
		return m.active == 2
	}, 2*time.Second, 5*time.Millisecond)
	require.Empty(t, m.history)
}

func TestModel_TransitionStatus(t *testing.T) {
	m := newTestModel(t)
	m.Update(transitionMsg(presenterx.Transition{Seq: 3, ActionType: "demo.Fail", Swapped: true, FromVariant: "data", ToVariant: "error"}))
	require.True(t, strings.Contains(m.View(), "#3 demo.Fail (data -> error)"))
}
