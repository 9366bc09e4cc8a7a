package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/diagrammer/pkg/editor"
	"github.com/rmax-ai/diagrammer/pkg/keymap"
	"github.com/rmax-ai/diagrammer/pkg/mode"
	"github.com/rmax-ai/diagrammer/pkg/render/termcanvas"
)

const (
	headerHeight = 1
	footerHeight = 2
	eventTimeout = 2 * time.Second
)

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	modeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("63")).Padding(0, 1)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type keyMap struct {
	Modes   []key.Binding
	Release key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap(km *keymap.Keymap) keyMap {
	k := keyMap{
		Release: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "release mode")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
	for _, kind := range mode.Kinds {
		keys := km.KeysFor(kind)
		if len(keys) == 0 {
			continue
		}
		k.Modes = append(k.Modes, key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(strings.Join(keys, "/"), string(kind)),
		))
	}
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return append(append([]key.Binding{}, k.Modes...), k.Release, k.Quit)
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.Modes, {k.Release, k.Help, k.Quit}}
}

// snapMsg carries the state after an event, or the error that rejected it.
type snapMsg struct {
	snap editor.Snapshot
	err  error
}

// model drives a backend from terminal input. Terminals report key presses
// but not releases, so a mode key toggles: the first press holds the mode
// and pressing it again (or esc) releases it.
type model struct {
	b       backend
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	scale   float64

	width, height int
	ready         bool

	snap  editor.Snapshot
	frame string
	err   error

	queue    []editor.Event
	inflight bool
	held     string
	pressed  bool
}

func newModel(b backend, km *keymap.Keymap, cfg Config) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		b:       b,
		keys:    newKeyMap(km),
		help:    help.New(),
		spinner: s,
		scale:   cfg.Scale,
		snap:    editor.Snapshot{Mode: mode.KindSelect},
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m model) fetch() tea.Cmd {
	b := m.b
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		snap, err := b.Snapshot(ctx)
		return snapMsg{snap: snap, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd

	case snapMsg:
		m.inflight = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.snap = msg.snap
			if len(m.queue) == 0 {
				m.held = msg.snap.Held
			}
			m.redraw()
		}
		cmd := m.next()
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.redraw()
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Release):
		return m.release()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}

	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return nil
	}
	k := string(msg.Runes)
	if m.held == k {
		return m.release()
	}
	// only bound mode keys are held; anything else would block the next one
	if m.held != "" || !key.Matches(msg, m.keys.Modes...) {
		return nil
	}
	m.held = k
	return m.enqueue(editor.Event{Type: editor.KeyDown, Key: k})
}

func (m *model) release() tea.Cmd {
	if m.held == "" {
		return nil
	}
	k := m.held
	m.held = ""
	return m.enqueue(editor.Event{Type: editor.KeyUp, Key: k})
}

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	col, row := msg.X, msg.Y-headerHeight
	cols, rows := m.canvasSize()
	inside := col >= 0 && row >= 0 && col < cols && row < rows
	x, y := m.toWorld(col, row)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return nil
		}
		m.pressed = true
		return m.enqueue(editor.Event{Type: editor.PointerDown, X: x, Y: y})
	case tea.MouseActionMotion:
		if !m.pressed {
			return nil
		}
		return m.enqueue(editor.Event{Type: editor.PointerMove, X: x, Y: y})
	case tea.MouseActionRelease:
		if !m.pressed {
			return nil
		}
		m.pressed = false
		return m.enqueue(editor.Event{Type: editor.PointerUp, X: x, Y: y})
	}
	return nil
}

// enqueue keeps events in order: only one is in flight at a time, and
// consecutive pointer moves collapse into the latest.
func (m *model) enqueue(ev editor.Event) tea.Cmd {
	if n := len(m.queue); n > 0 && ev.Type == editor.PointerMove && m.queue[n-1].Type == editor.PointerMove {
		m.queue[n-1] = ev
	} else {
		m.queue = append(m.queue, ev)
	}
	return m.next()
}

func (m *model) next() tea.Cmd {
	if m.inflight || len(m.queue) == 0 {
		return nil
	}
	ev := m.queue[0]
	m.queue = m.queue[1:]
	m.inflight = true
	b := m.b
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		snap, err := b.Apply(ctx, ev)
		return snapMsg{snap: snap, err: err}
	}
}

func (m model) canvasSize() (cols, rows int) {
	return m.width, max(m.height-headerHeight-footerHeight, 0)
}

// toWorld maps a cell to the world point at its centre, clamping cells
// outside the canvas to its edge.
func (m model) toWorld(col, row int) (x, y float64) {
	cols, rows := m.canvasSize()
	col = min(max(col, 0), max(cols-1, 0))
	row = min(max(row, 0), max(rows-1, 0))
	return (float64(col) + 0.5) * m.scale, (float64(row) + 0.5) * 2 * m.scale
}

func (m *model) redraw() {
	cols, rows := m.canvasSize()
	if cols == 0 || rows == 0 {
		m.frame = ""
		return
	}
	c := termcanvas.New(cols, rows, m.scale, 2*m.scale)
	m.snap.Graph().Draw(c)
	m.frame = c.String()
}

func (m model) View() string {
	if !m.ready {
		return fmt.Sprintf("\n%s Initializing...", m.spinner.View())
	}

	busy := " "
	if m.inflight {
		busy = m.spinner.View()
	}
	nodes, edges, sets := m.snap.Counts()
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("diagram "),
		modeStyle.Render(string(m.snap.Mode)),
		" ", busy, " ",
		subtleStyle.Render(fmt.Sprintf("%d nodes • %d edges • %d sets", nodes, edges, sets)),
	)

	var status string
	if m.err != nil {
		status = errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	} else if m.held != "" {
		status = okStyle.Render(fmt.Sprintf("Holding %q, press it again or esc to release", m.held))
	} else {
		status = okStyle.Render("Ready")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.frame, status, m.help.View(m.keys))
}
