package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/rmax-ai/diagrammer/pkg/client"
	"github.com/rmax-ai/diagrammer/pkg/editor"
	"github.com/rmax-ai/diagrammer/pkg/render/raster"
)

const (
	exportWidth  = 800
	exportHeight = 600
)

// pngSource renders the final diagram.
type pngSource func(ctx context.Context) ([]byte, error)

func localPNG(ed *editor.Editor) pngSource {
	return func(context.Context) ([]byte, error) {
		s := raster.New(exportWidth, exportHeight, 1)
		ed.Render(s)
		var buf bytes.Buffer
		if err := s.EncodePNG(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

func remotePNG(c *client.Client) pngSource {
	return func(ctx context.Context) ([]byte, error) {
		return c.RenderPNG(ctx, exportWidth, exportHeight)
	}
}

func exportPNG(ctx context.Context, src pngSource, path string) error {
	data, err := src(ctx)
	if err != nil {
		return fmt.Errorf("failed to render diagram: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
