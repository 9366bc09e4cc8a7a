package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rmax-ai/diagrammer/pkg/api"
	"github.com/rmax-ai/diagrammer/pkg/editor"
)

func newTestServer(t *testing.T) (*Server, *editor.Editor) {
	t.Helper()
	ed := editor.New(editor.WithIDSource(editor.NewSequenceSource("m")))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(api.NewServer(ed, "", api.WithLogger(logger)).Handler())
	t.Cleanup(ts.Close)
	return NewServer(ts.URL, "test"), ed
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("expected content in result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return text.Text
}

func TestMCPServer_DrawNode(t *testing.T) {
	s, ed := newTestServer(t)
	ctx := context.Background()

	steps := []struct {
		call mcp.CallToolRequest
		key  bool
	}{
		{callTool("key", map[string]any{"action": "down", "key": "n"}), true},
		{callTool("pointer", map[string]any{"action": "down", "x": 30.0, "y": 40.0}), false},
		{callTool("pointer", map[string]any{"action": "up", "x": 30.0, "y": 40.0}), false},
		{callTool("key", map[string]any{"action": "up", "key": "n"}), true},
	}
	var last string
	for i, st := range steps {
		var res *mcp.CallToolResult
		var err error
		if st.key {
			res, err = s.handleKey(ctx, st.call)
		} else {
			res, err = s.handlePointer(ctx, st.call)
		}
		if err != nil || res.IsError {
			t.Fatalf("step %d: err=%v result=%+v", i, err, res)
		}
		last = resultText(t, res)
	}

	if !strings.Contains(last, "Mode: select") || !strings.Contains(last, "Nodes: 1") {
		t.Errorf("last result = %q", last)
	}
	snap := ed.Snapshot()
	if len(snap.Nodes) != 1 || snap.Nodes[0].X != 30 || snap.Nodes[0].Y != 40 {
		t.Errorf("editor state = %+v", snap.Nodes)
	}
}

func TestMCPServer_InvalidActions(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.handlePointer(ctx, callTool("pointer", map[string]any{"action": "click"}))
	if err != nil || !res.IsError {
		t.Errorf("pointer click: err=%v isError=%v", err, res.IsError)
	}
	res, err = s.handleKey(ctx, callTool("key", map[string]any{"action": "down"}))
	if err != nil || !res.IsError {
		t.Errorf("key without key: err=%v isError=%v", err, res.IsError)
	}
}

func TestMCPServer_ReadGraph(t *testing.T) {
	s, ed := newTestServer(t)
	for _, ev := range []editor.Event{
		{Type: editor.KeyDown, Key: "n"},
		{Type: editor.PointerDown, X: 5, Y: 5},
		{Type: editor.PointerUp, X: 5, Y: 5},
	} {
		if err := ed.Apply(ev); err != nil {
			t.Fatal(err)
		}
	}

	req := mcp.ReadResourceRequest{Params: mcp.ReadResourceParams{URI: graphURI}}
	result, err := s.handleReadGraph(context.Background(), req)
	if err != nil {
		t.Fatalf("handleReadGraph failed: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 resource content, got %d", len(result))
	}
	content, ok := result[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatal("expected TextResourceContents")
	}
	if content.MIMEType != "application/json" || content.URI != graphURI {
		t.Errorf("content = %s %s", content.URI, content.MIMEType)
	}

	var snap editor.Snapshot
	if err := json.Unmarshal([]byte(content.Text), &snap); err != nil {
		t.Fatalf("failed to parse result JSON: %v", err)
	}
	if snap.Mode != "node" || len(snap.Nodes) != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestMCPServer_Render(t *testing.T) {
	s, _ := newTestServer(t)
	res, err := s.handleRender(context.Background(), callTool("render", map[string]any{"width": 40.0, "height": 30.0}))
	if err != nil || res.IsError {
		t.Fatalf("render: err=%v result=%+v", err, res)
	}
	var img *mcp.ImageContent
	for _, c := range res.Content {
		if v, ok := c.(mcp.ImageContent); ok {
			img = &v
		}
	}
	if img == nil {
		t.Fatal("no image content")
	}
	data, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil || !strings.HasPrefix(string(data), "\x89PNG") {
		t.Errorf("image data is not a PNG (err=%v)", err)
	}
	if img.MIMEType != "image/png" {
		t.Errorf("MIMEType = %s", img.MIMEType)
	}
}

func TestMCPServer_UnreachableDaemon(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()
	s := NewServer(ts.URL, "test")

	res, err := s.handlePointer(context.Background(), callTool("pointer", map[string]any{"action": "down", "x": 1.0, "y": 1.0}))
	if err != nil || !res.IsError {
		t.Errorf("err=%v isError=%v", err, res.IsError)
	}
}

func TestMCPServer_Prompt(t *testing.T) {
	s, _ := newTestServer(t)
	req := mcp.GetPromptRequest{Params: mcp.GetPromptParams{Name: promptName}}
	res, err := s.handleGetPrompt(context.Background(), req)
	if err != nil {
		t.Fatalf("handleGetPrompt failed: %v", err)
	}
	if len(res.Messages) != 1 {
		t.Fatalf("messages = %d", len(res.Messages))
	}

	req.Params.Name = "other"
	if _, err := s.handleGetPrompt(context.Background(), req); err == nil {
		t.Error("expected an error for an unknown prompt")
	}
}
