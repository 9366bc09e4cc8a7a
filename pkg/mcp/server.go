// Package mcp exposes a diagram daemon to Model Context Protocol clients.
package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rmax-ai/diagrammer/pkg/client"
	"github.com/rmax-ai/diagrammer/pkg/editor"
)

const (
	graphURI   = "diagram://graph"
	promptName = "diagram-aware"
)

// Server adapts the diagram daemon to the Model Context Protocol.
type Server struct {
	mcpServer *server.MCPServer
	apiClient *client.Client
}

// NewServer creates a new MCP server instance.
func NewServer(apiURL, version string) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"diagrammer",
			version,
		),
		apiClient: client.NewClient(apiURL),
	}
	s.registerResources()
	s.registerTools()
	s.registerPrompts()
	return s
}

// Serve starts the MCP server on stdio.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// --- Resources ---

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(
		graphURI,
		"Diagram Graph",
		mcp.WithResourceDescription("Nodes, edges and sets of the live diagram, plus the active mode"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadGraph)
}

// --- Tools ---

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"pointer",
		mcp.WithDescription("Send a pointer event at canvas coordinates. A gesture is down, any number of moves, then up."),
		mcp.WithString("action", mcp.Required(), mcp.Enum("down", "move", "up"), mcp.Description("Pointer action")),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("Canvas x coordinate")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Canvas y coordinate")),
	), s.handlePointer)

	s.mcpServer.AddTool(mcp.NewTool(
		"key",
		mcp.WithDescription("Press or release a mode key. Holding a key switches from select into its mode; releasing it returns to select."),
		mcp.WithString("action", mcp.Required(), mcp.Enum("down", "up"), mcp.Description("Key action")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Key identifier, e.g. 'e' for edge drawing")),
	), s.handleKey)

	s.mcpServer.AddTool(mcp.NewTool(
		"render",
		mcp.WithDescription("Render the diagram as a PNG image"),
		mcp.WithNumber("width", mcp.Description("Image width in pixels (default 800)")),
		mcp.WithNumber("height", mcp.Description("Image height in pixels (default 600)")),
	), s.handleRender)
}

// --- Prompts ---

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt(
		promptName,
		mcp.WithPromptDescription("Explains the diagram editor's entities and modes"),
	), s.handleGetPrompt)
}

// --- Handlers ---

func (s *Server) handleReadGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	snap, err := s.apiClient.GetGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch graph: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graph: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

var pointerEvents = map[string]editor.EventType{
	"down": editor.PointerDown,
	"move": editor.PointerMove,
	"up":   editor.PointerUp,
}

var keyEvents = map[string]editor.EventType{
	"down": editor.KeyDown,
	"up":   editor.KeyUp,
}

func (s *Server) handlePointer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action := mcp.ParseString(request, "action", "")
	typ, ok := pointerEvents[action]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown pointer action %q", action)), nil
	}
	ev := editor.Event{
		Type: typ,
		X:    mcp.ParseFloat64(request, "x", 0),
		Y:    mcp.ParseFloat64(request, "y", 0),
	}
	return s.send(ctx, ev)
}

func (s *Server) handleKey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action := mcp.ParseString(request, "action", "")
	typ, ok := keyEvents[action]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown key action %q", action)), nil
	}
	return s.send(ctx, editor.Event{Type: typ, Key: mcp.ParseString(request, "key", "")})
}

func (s *Server) send(ctx context.Context, ev editor.Event) (*mcp.CallToolResult, error) {
	snap, err := s.apiClient.SendEvent(ctx, ev)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("API error: %v", err)), nil
	}
	nodes, edges, sets := snap.Counts()
	return mcp.NewToolResultText(fmt.Sprintf("Mode: %s\nNodes: %d  Edges: %d  Sets: %d", snap.Mode, nodes, edges, sets)), nil
}

func (s *Server) handleRender(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	width := int(mcp.ParseFloat64(request, "width", 0))
	height := int(mcp.ParseFloat64(request, "height", 0))
	data, err := s.apiClient.RenderPNG(ctx, width, height)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("API error: %v", err)), nil
	}
	return mcp.NewToolResultImage("diagram", base64.StdEncoding.EncodeToString(data), "image/png"), nil
}

func (s *Server) handleGetPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	if name != promptName {
		return nil, fmt.Errorf("prompt not found: %s", name)
	}

	promptText := `You are editing a node-and-edge diagram through pointer and key events.

Concepts:
- Node: a point on the canvas. Pointer events within 10 units of a node touch it.
- Edge: a directed arrow between two nodes. Deleting either node deletes the edge.
- Set: a rounded outline around a group of nodes. It disappears when its last member does.
- Phantom: a gray, temporary entity that exists only while a gesture is in progress.

Modes (hold the key with 'key' action=down, gesture with 'pointer', then release the key):
- select (no key): drag a node, both ends of an edge, or a whole set.
- node: press to place a node, drag to position it.
- edge: press on a node (or empty canvas), drag, release on another node to connect.
- set: press and sweep over nodes to group them.
- delete: press on a node, edge or set to delete it.

Default keys: n = node, e = edge, s = set, d = delete.
Read the 'diagram://graph' resource to see the current state and active mode.
`

	return mcp.NewGetPromptResult(
		promptName,
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(promptText)),
		},
	), nil
}
