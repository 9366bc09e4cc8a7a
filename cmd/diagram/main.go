package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rmax-ai/diagrammer/pkg/client"
	"github.com/rmax-ai/diagrammer/pkg/editor"
	"github.com/rmax-ai/diagrammer/pkg/mcp"
)

var (
	Version   = "v1.0.0"
	Commit    = "unknown"
	BuildTime = "unknown"
)

const usage = `Usage:
  diagram [-api URL] ping
  diagram [-api URL] graph
  diagram [-api URL] send pointer_down|pointer_move|pointer_up <x> <y>
  diagram [-api URL] send key_down|key_up <key>
  diagram [-api URL] render [-w N] [-h N] [-o file.png]
  diagram [-api URL] mcp
  diagram version
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if strings.Contains(err.Error(), "daemon unreachable") {
			fmt.Fprintln(os.Stderr, "Is diagram-d running?")
		}
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("diagram", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	apiURL := fs.String("api", envOrDefault("DIAGRAM_API", client.DefaultEndpoint), "daemon URL")
	if err := fs.Parse(args); err != nil || fs.NArg() == 0 {
		return errUsage
	}

	c := client.NewClient(*apiURL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rest := fs.Args()[1:]
	switch fs.Arg(0) {
	case "version":
		fmt.Fprintf(stdout, "diagram %s (commit %s, built %s)\n", Version, Commit, BuildTime)
		return nil

	case "ping":
		st, err := c.Ping(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s (%s) at %s\n", st.Status, st.Version, c.Endpoint())
		return nil

	case "graph":
		snap, err := c.GetGraph(ctx)
		if err != nil {
			return err
		}
		return printJSON(stdout, snap)

	case "send":
		ev, err := parseEvent(rest)
		if err != nil {
			return err
		}
		snap, err := c.SendEvent(ctx, ev)
		if err != nil {
			return err
		}
		return printJSON(stdout, snap)

	case "render":
		return render(ctx, c, rest, stdout)

	case "mcp":
		// stdio belongs to the MCP transport from here on
		return mcp.NewServer(*apiURL, Version).Serve()
	}
	return errUsage
}

func parseEvent(args []string) (editor.Event, error) {
	if len(args) == 0 {
		return editor.Event{}, errUsage
	}
	ev := editor.Event{Type: editor.EventType(args[0])}
	switch ev.Type {
	case editor.PointerDown, editor.PointerMove, editor.PointerUp:
		if len(args) != 3 {
			return ev, errUsage
		}
		var err error
		if ev.X, err = strconv.ParseFloat(args[1], 64); err != nil {
			return ev, fmt.Errorf("invalid x %q: %w", args[1], err)
		}
		if ev.Y, err = strconv.ParseFloat(args[2], 64); err != nil {
			return ev, fmt.Errorf("invalid y %q: %w", args[2], err)
		}
	case editor.KeyDown, editor.KeyUp:
		if len(args) != 2 {
			return ev, errUsage
		}
		ev.Key = args[1]
	default:
		return ev, fmt.Errorf("%w: %s", editor.ErrUnknownEvent, args[0])
	}
	return ev, nil
}

func render(ctx context.Context, c *client.Client, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	width := fs.Int("w", 0, "image width")
	height := fs.Int("h", 0, "image height")
	out := fs.String("o", "diagram.png", "output file")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	data, err := c.RenderPNG(ctx, *width, *height)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", *out, err)
	}
	fmt.Fprintf(stdout, "Wrote %d bytes to %s\n", len(data), *out)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
