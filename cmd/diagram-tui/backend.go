package main

import (
	"context"

	"github.com/rmax-ai/diagrammer/pkg/client"
	"github.com/rmax-ai/diagrammer/pkg/editor"
)

// backend applies events and returns the resulting state.
type backend interface {
	Apply(ctx context.Context, ev editor.Event) (editor.Snapshot, error)
	Snapshot(ctx context.Context) (editor.Snapshot, error)
}

type localBackend struct {
	ed *editor.Editor
}

func (b localBackend) Apply(_ context.Context, ev editor.Event) (editor.Snapshot, error) {
	if err := b.ed.Apply(ev); err != nil {
		return editor.Snapshot{}, err
	}
	return b.ed.Snapshot(), nil
}

func (b localBackend) Snapshot(context.Context) (editor.Snapshot, error) {
	return b.ed.Snapshot(), nil
}

type remoteBackend struct {
	c *client.Client
}

func (b remoteBackend) Apply(ctx context.Context, ev editor.Event) (editor.Snapshot, error) {
	return b.c.SendEvent(ctx, ev)
}

func (b remoteBackend) Snapshot(ctx context.Context) (editor.Snapshot, error) {
	return b.c.GetGraph(ctx)
}
