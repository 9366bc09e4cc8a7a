package main

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rmax-ai/diagrammer/pkg/editor"
	"github.com/rmax-ai/diagrammer/pkg/keymap"
	"github.com/rmax-ai/diagrammer/pkg/mode"
	"github.com/rmax-ai/diagrammer/pkg/render/termcanvas"
)

func newTestModel(t *testing.T) model {
	t.Helper()
	ed := editor.New(
		editor.WithIDSource(editor.NewSequenceSource("t")),
		editor.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	m := newModel(localBackend{ed: ed}, keymap.Default(), Config{Scale: 4})
	return send(t, m, tea.WindowSizeMsg{Width: 40, Height: 20})
}

// send delivers msg and then runs every follow-up event command to
// completion.
func send(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(model)
	for cmd != nil {
		sm, ok := cmd().(snapMsg)
		if !ok {
			break
		}
		next, cmd = m.Update(sm)
		m = next.(model)
	}
	return m
}

func press(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func mouse(action tea.MouseAction, col, row int) tea.MouseMsg {
	return tea.MouseMsg{X: col, Y: row + headerHeight, Action: action, Button: tea.MouseButtonLeft}
}

func TestModel_CreateNodeWithToggle(t *testing.T) {
	m := newTestModel(t)

	m = send(t, m, press("n"))
	if m.snap.Mode != mode.KindNode || m.held != "n" {
		t.Fatalf("mode = %s, held = %q", m.snap.Mode, m.held)
	}

	m = send(t, m, mouse(tea.MouseActionPress, 5, 1))
	m = send(t, m, mouse(tea.MouseActionRelease, 5, 1))
	if n, _, _ := m.snap.Counts(); n != 1 {
		t.Fatalf("nodes = %d, want 1", n)
	}
	if got := m.snap.Nodes[0]; got.X != 22 || got.Y != 12 {
		t.Errorf("node at (%v, %v), want (22, 12)", got.X, got.Y)
	}
	if !strings.ContainsRune(m.frame, termcanvas.FillRune) {
		t.Error("node not drawn")
	}

	m = send(t, m, press("n"))
	if m.snap.Mode != mode.KindSelect || m.held != "" {
		t.Errorf("after toggle: mode = %s, held = %q", m.snap.Mode, m.held)
	}
}

func TestModel_EscReleases(t *testing.T) {
	m := newTestModel(t)

	m = send(t, m, press("e"))
	m = send(t, m, press("d"))
	if m.snap.Mode != mode.KindEdge {
		t.Fatalf("second key switched mode to %s", m.snap.Mode)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.snap.Mode != mode.KindSelect || m.held != "" {
		t.Errorf("mode = %s, held = %q", m.snap.Mode, m.held)
	}
}

func TestModel_UnboundKeyNotHeld(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, press("z"))
	if m.held != "" || m.snap.Mode != mode.KindSelect {
		t.Errorf("held = %q, mode = %s", m.held, m.snap.Mode)
	}
}

func TestModel_ModeKeyAfterUnboundKey(t *testing.T) {
	m := newTestModel(t)
	// replies are held back so nothing corrects held from a snapshot
	m.inflight = true

	next, _ := m.Update(press("z"))
	m = next.(model)
	next, _ = m.Update(press("n"))
	m = next.(model)

	if m.held != "n" {
		t.Fatalf("held = %q, want n", m.held)
	}
	if len(m.queue) != 1 || m.queue[0] != (editor.Event{Type: editor.KeyDown, Key: "n"}) {
		t.Errorf("queue = %+v", m.queue)
	}

	m.inflight = false
	m = send(t, m, snapMsg{snap: m.snap})
	if m.snap.Mode != mode.KindNode {
		t.Errorf("mode = %s, want node", m.snap.Mode)
	}
}

func TestModel_MouseIgnoredOutsideGesture(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, press("n"))

	m = send(t, m, mouse(tea.MouseActionMotion, 3, 3))
	m = send(t, m, mouse(tea.MouseActionRelease, 3, 3))
	m = send(t, m, tea.MouseMsg{X: 3, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if n, _, _ := m.snap.Counts(); n != 0 {
		t.Errorf("nodes = %d, want 0", n)
	}
}

func TestModel_EnqueueCoalescesMoves(t *testing.T) {
	m := newTestModel(t)
	m.inflight = true

	m.enqueue(editor.Event{Type: editor.PointerDown, X: 1, Y: 1})
	m.enqueue(editor.Event{Type: editor.PointerMove, X: 2, Y: 2})
	m.enqueue(editor.Event{Type: editor.PointerMove, X: 3, Y: 3})
	m.enqueue(editor.Event{Type: editor.PointerUp, X: 3, Y: 3})

	if len(m.queue) != 3 {
		t.Fatalf("queue = %+v", m.queue)
	}
	if mv := m.queue[1]; mv.X != 3 || mv.Y != 3 {
		t.Errorf("move = %+v, want the latest", mv)
	}
}

func TestModel_ToWorldClamps(t *testing.T) {
	m := newTestModel(t)
	x, y := m.toWorld(-5, 100)
	if x != 2 || y != (16+0.5)*8 {
		t.Errorf("toWorld = (%v, %v)", x, y)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DIAGRAM_API", "http://localhost:8090/")
	cfg, err := LoadConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "http://localhost:8090" || cfg.Scale != 4 {
		t.Errorf("cfg = %+v", cfg)
	}
	if _, err := LoadConfig([]string{"-scale", "0"}); err == nil {
		t.Error("expected error for zero scale")
	}
}
