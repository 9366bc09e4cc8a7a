// Package editor hosts one diagram: the graph registry, the mode machine
// and the key bindings, behind a single lock so that concurrent hosts feed
// the core one event at a time.
package editor

import (
	"log/slog"
	"sync"

	"github.com/rmax-ai/diagrammer/pkg/graph"
	"github.com/rmax-ai/diagrammer/pkg/keymap"
	"github.com/rmax-ai/diagrammer/pkg/mode"
)

type Editor struct {
	mu      sync.Mutex
	graph   *graph.Graph
	machine *mode.Machine
	keys    *keymap.Keymap
	ids     mode.IDSource
	logger  *slog.Logger
	metrics bool
}

type Option func(*Editor)

func WithIDSource(ids mode.IDSource) Option {
	return func(e *Editor) {
		if ids != nil {
			e.ids = ids
		}
	}
}

func WithKeymap(km *keymap.Keymap) Option {
	return func(e *Editor) {
		if km != nil {
			e.keys = km
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics reports entity, mode and event metrics for this editor.
// Hosts enable it for the diagram they serve, never for scratch sessions.
func WithMetrics() Option {
	return func(e *Editor) {
		e.metrics = true
	}
}

// New creates an editor over an empty graph, resting in Select.
func New(opts ...Option) *Editor {
	e := &Editor{
		keys:   keymap.Default(),
		ids:    UUIDSource{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	gopts := []graph.Option{graph.WithLogger(e.logger)}
	if e.metrics {
		gopts = append(gopts, graph.WithMetrics())
	}
	e.graph = graph.New(gopts...)
	e.machine = mode.NewMachine(e.graph, e.ids, e.keys.Bindings(), e.logger)
	if e.metrics {
		e.machine.EnableMetrics()
	}
	return e
}

// Apply feeds one event to the active mode.
func (e *Editor) Apply(ev Event) error {
	if err := ev.Validate(); err != nil {
		e.countEvent(ev.Type, "rejected")
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	result := "applied"
	switch ev.Type {
	case PointerDown:
		e.machine.PointerDown(ev.X, ev.Y)
	case PointerMove:
		e.machine.PointerMove(ev.X, ev.Y)
	case PointerUp:
		e.machine.PointerUp(ev.X, ev.Y)
	case KeyDown:
		if !e.machine.KeyDown(ev.Key) {
			result = "ignored"
		}
	case KeyUp:
		if !e.machine.KeyUp(ev.Key) {
			result = "ignored"
		}
	}
	e.countEvent(ev.Type, result)
	return nil
}

func (e *Editor) countEvent(t EventType, result string) {
	if e.metrics {
		EventsTotal.WithLabelValues(string(t), result).Inc()
	}
}

// Snapshot returns a copy of the current state.
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.graph, e.machine)
}

// Render draws the graph onto s.
func (e *Editor) Render(s graph.Surface) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.graph.Draw(s)
}

// Mode reports the active mode.
func (e *Editor) Mode() mode.Kind {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Active()
}

// Keymap returns the bindings in use.
func (e *Editor) Keymap() *keymap.Keymap {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.keys
}

// SetKeymap swaps the bindings. A mode entered under the old bindings is
// still left by releasing its key.
func (e *Editor) SetKeymap(km *keymap.Keymap) error {
	if err := km.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.keys = km
	e.machine.SetBindings(km.Bindings())
	e.logger.Info("keymap_updated", "bindings", len(km.Keys))
	return nil
}

// Graph exposes the registry. Callers must not use it concurrently with
// Apply.
func (e *Editor) Graph() *graph.Graph {
	return e.graph
}
