package mode

import (
	"log/slog"
)

// Machine holds the active mode and applies the Select-anchored transition
// rule: a mode key only takes effect while Select is active, and releasing
// that same key cleans up and returns to Select.
type Machine struct {
	modes  map[Kind]Mode
	keys   map[string]Kind
	active Mode
	held   string
	logger *slog.Logger

	metrics bool
}

// NewMachine builds the five modes over g. keys maps key identifiers to the
// mode they activate; entries naming Select or unknown modes are ignored.
func NewMachine(g Registry, ids IDSource, keys map[string]Kind, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	sel := NewSelect(g)
	m := &Machine{
		modes: map[Kind]Mode{
			KindSelect: sel,
			KindDelete: NewDelete(g),
			KindEdge:   NewEdgeDraw(g, ids),
			KindSet:    NewSetDraw(g, ids),
			KindNode:   NewNodeCreate(g, ids),
		},
		active: sel,
		logger: logger,
	}
	m.SetBindings(keys)
	return m
}

// SetBindings replaces the key map. A key currently held keeps working
// until it is released.
func (m *Machine) SetBindings(keys map[string]Kind) {
	bound := make(map[string]Kind, len(keys))
	for key, kind := range keys {
		if _, ok := m.modes[kind]; ok && kind != KindSelect && key != "" {
			bound[key] = kind
		}
	}
	m.keys = bound
}

// Active reports the kind of the active mode.
func (m *Machine) Active() Kind {
	return m.active.Kind()
}

// Held returns the key holding the active mode, or "" in Select.
func (m *Machine) Held() string {
	return m.held
}

// KeyDown switches to the mode mapped to key. It reports whether the
// active mode changed.
func (m *Machine) KeyDown(key string) bool {
	if m.active.Kind() != KindSelect {
		return false
	}
	kind, ok := m.keys[key]
	if !ok {
		return false
	}
	m.active.Cleanup()
	m.switchTo(m.modes[kind])
	m.held = key
	return true
}

// KeyUp returns to Select if key is the one holding the active mode.
func (m *Machine) KeyUp(key string) bool {
	if m.held == "" || key != m.held {
		return false
	}
	m.active.Cleanup()
	m.switchTo(m.modes[KindSelect])
	m.held = ""
	return true
}

// EnableMetrics makes the machine report transitions and gestures.
func (m *Machine) EnableMetrics() {
	m.metrics = true
}

func (m *Machine) switchTo(next Mode) {
	from := m.active.Kind()
	m.active = next
	if m.metrics {
		ModeTransitions.WithLabelValues(string(from), string(next.Kind())).Inc()
	}
	m.logger.Debug("mode_switched", "from", from, "to", next.Kind())
}

func (m *Machine) PointerDown(x, y float64) {
	if m.metrics {
		Gestures.WithLabelValues(string(m.active.Kind())).Inc()
	}
	m.active.OnPointerDown(x, y)
}

func (m *Machine) PointerMove(x, y float64) {
	m.active.OnPointerMove(x, y)
}

func (m *Machine) PointerUp(x, y float64) {
	m.active.OnPointerUp(x, y)
}

// Cleanup aborts any gesture in progress without leaving the active mode.
func (m *Machine) Cleanup() {
	m.active.Cleanup()
}
