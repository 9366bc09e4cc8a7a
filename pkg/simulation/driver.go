package simulation

import (
	"context"

	"github.com/rmax-ai/diagrammer/pkg/client"
	"github.com/rmax-ai/diagrammer/pkg/editor"
)

// Driver feeds events to an editor, in process or over the wire.
type Driver interface {
	Apply(ctx context.Context, ev editor.Event) error
	Snapshot(ctx context.Context) (editor.Snapshot, error)
}

// Local drives an in-process editor.
type Local struct {
	ed *editor.Editor
}

func NewLocal(ed *editor.Editor) *Local {
	return &Local{ed: ed}
}

func (l *Local) Apply(ctx context.Context, ev editor.Event) error {
	return l.ed.Apply(ev)
}

func (l *Local) Snapshot(ctx context.Context) (editor.Snapshot, error) {
	return l.ed.Snapshot(), nil
}

// Remote drives a daemon through the HTTP client.
type Remote struct {
	c *client.Client
}

func NewRemote(c *client.Client) *Remote {
	return &Remote{c: c}
}

func (r *Remote) Apply(ctx context.Context, ev editor.Event) error {
	_, err := r.c.SendEvent(ctx, ev)
	return err
}

func (r *Remote) Snapshot(ctx context.Context) (editor.Snapshot, error) {
	return r.c.GetGraph(ctx)
}
