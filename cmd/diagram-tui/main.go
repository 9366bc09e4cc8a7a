package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rmax-ai/diagrammer/pkg/client"
	"github.com/rmax-ai/diagrammer/pkg/editor"
	"github.com/rmax-ai/diagrammer/pkg/keymap"
)

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "diagram-tui: %v\n", err)
		os.Exit(2)
	}

	km, err := keymap.Load(cfg.KeymapPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "diagram-tui: %v\n", err)
		os.Exit(1)
	}

	var b backend
	if cfg.APIURL == "" {
		// The alt screen owns stdout, so the in-process editor stays quiet.
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		b = localBackend{ed: editor.New(editor.WithKeymap(km), editor.WithLogger(logger))}
	} else {
		b = remoteBackend{c: client.NewClient(cfg.APIURL,
			client.WithRetries(2, client.DefaultBackoff()),
			client.WithHTTPClient(&http.Client{Timeout: 2 * time.Second}),
		)}
	}

	p := tea.NewProgram(newModel(b, km, cfg), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
