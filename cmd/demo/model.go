package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/comalice/presenterx"
	"github.com/comalice/presenterx/internal/demo"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387")).Bold(true)
	bodyStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#585b70")).
			Padding(1, 2)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bac2de")).
			Background(lipgloss.Color("#313244")).
			Padding(0, 1)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
)

const menu = -1

type (
	frameMsg      struct{}
	changedMsg    struct{ screen int }
	transitionMsg presenterx.Transition
)

// navRequests collects navigation run during a render; the model applies
// them afterwards.
type navRequests struct {
	back bool
	open string
}

func (n *navRequests) Back()              { n.back = true }
func (n *navRequests) Open(screen string) { n.open = screen }

type model struct {
	ctx         context.Context
	screens     []demo.Screen
	active      int
	cursor      int
	history     []int
	content     string
	status      string
	frame       time.Duration
	transitions <-chan presenterx.Transition
	changes     <-chan struct{}
	unsubscribe context.CancelFunc
}

func newModel(ctx context.Context, screens []demo.Screen, transitions <-chan presenterx.Transition, tick time.Duration) *model {
	frame := tick / 4
	if frame < 50*time.Millisecond {
		frame = 50 * time.Millisecond
	}
	return &model{
		ctx:         ctx,
		screens:     screens,
		active:      menu,
		frame:       frame,
		transitions: transitions,
		status:      "ready",
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.nextFrame(), waitTransition(m.transitions))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	case frameMsg:
		return m, tea.Batch(m.render(), m.nextFrame())
	case changedMsg:
		if msg.screen != m.active {
			return m, nil
		}
		return m, tea.Batch(m.render(), waitChange(m.changes, msg.screen))
	case transitionMsg:
		m.status = fmt.Sprintf("#%d %s", msg.Seq, msg.ActionType)
		if msg.Swapped {
			m.status += fmt.Sprintf(" (%s -> %s)", msg.FromVariant, msg.ToVariant)
		}
		return m, waitTransition(m.transitions)
	}
	return m, nil
}

func (m *model) handleKey(key string) tea.Cmd {
	if key == "ctrl+c" || key == "q" {
		m.leave()
		return tea.Quit
	}
	if m.active == menu {
		switch key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.screens)-1 {
				m.cursor++
			}
		case "enter":
			return m.enter(m.cursor)
		}
		return nil
	}
	if key == "esc" {
		return m.back()
	}
	m.screens[m.active].HandleKey(key)
	return nil
}

func (m *model) enter(i int) tea.Cmd {
	if m.active != menu {
		m.history = append(m.history, m.active)
	}
	m.leave()
	m.active = i
	ctx, cancel := context.WithCancel(m.ctx)
	m.unsubscribe = cancel
	m.changes = m.screens[i].Changes(ctx)
	return tea.Batch(m.render(), waitChange(m.changes, i))
}

func (m *model) back() tea.Cmd {
	m.leave()
	if n := len(m.history); n > 0 {
		prev := m.history[n-1]
		m.history = m.history[:n-1]
		m.active = menu
		return m.enter(prev)
	}
	m.active = menu
	m.content = ""
	return nil
}

func (m *model) leave() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.changes = nil
}

// render invokes the active presenter and applies the navigation it ran.
func (m *model) render() tea.Cmd {
	if m.active == menu {
		return nil
	}
	nav := &navRequests{}
	m.content = m.screens[m.active].Render(nav)
	switch {
	case nav.open != "":
		for i, s := range m.screens {
			if s.Name() == nav.open {
				return m.enter(i)
			}
		}
		m.status = fmt.Sprintf("unknown screen %q", nav.open)
	case nav.back:
		return m.back()
	}
	return nil
}

func (m *model) nextFrame() tea.Cmd {
	return tea.Tick(m.frame, func(time.Time) tea.Msg { return frameMsg{} })
}

func waitChange(ch <-chan struct{}, screen int) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{screen: screen}
	}
}

func waitTransition(ch <-chan presenterx.Transition) tea.Cmd {
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return nil
		}
		return transitionMsg(t)
	}
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("presenterx demo"))
	b.WriteString("\n\n")

	if m.active == menu {
		for i, s := range m.screens {
			line := "  " + s.Name()
			if i == m.cursor {
				line = cursorStyle.Render("> " + s.Name())
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("up/down: move  enter: open  q: quit"))
	} else {
		s := m.screens[m.active]
		b.WriteString(titleStyle.Render(s.Name()) + "\n")
		b.WriteString(bodyStyle.Render(m.content) + "\n")
		if err := s.Err(); err != nil {
			b.WriteString(errorStyle.Render(err.Error()) + "\n")
		}
		b.WriteString(helpStyle.Render(s.Help() + "  esc: back  q: quit"))
	}
	b.WriteString("\n\n" + statusStyle.Render(m.status))
	return b.String()
}
