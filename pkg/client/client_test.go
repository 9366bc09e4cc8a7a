package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rmax-ai/diagrammer/pkg/editor"
	"github.com/rmax-ai/diagrammer/pkg/mode"
)

func TestClient_Ping(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/health" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"status":"ok","version":"test"}`))
	}))
	defer ts.Close()

	status, err := NewClient(ts.URL).Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
	if status.Status != "ok" || status.Version != "test" {
		t.Errorf("Ping() = %+v", status)
	}
}

func TestClient_SendEvent(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantErr   bool
		wantCode  string
		wantCalls int32
		wantMode  mode.Kind
	}{
		{
			name:      "applied",
			status:    http.StatusOK,
			body:      `{"mode":"edge","held":"e","nodes":[],"edges":[],"sets":[]}`,
			wantCalls: 1,
			wantMode:  mode.KindEdge,
		},
		{
			name:      "rejected",
			status:    http.StatusBadRequest,
			body:      `{"error":"invalid_event","reason":"unknown event type"}`,
			wantErr:   true,
			wantCode:  "invalid_event",
			wantCalls: 1,
		},
		{
			name:      "server error is not retried",
			status:    http.StatusInternalServerError,
			body:      `oops`,
			wantErr:   true,
			wantCode:  "unexpected_status_500",
			wantCalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				var ev editor.Event
				if err := json.NewDecoder(r.Body).Decode(&ev); err != nil || ev.Key != "e" {
					t.Errorf("server got %+v, %v", ev, err)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			c := NewClient(ts.URL, WithRetries(3, NoBackoff{}))
			snap, err := c.SendEvent(context.Background(), editor.Event{Type: editor.KeyDown, Key: "e"})
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
			if tt.wantErr {
				var apiErr *APIError
				if !errors.As(err, &apiErr) || apiErr.Code != tt.wantCode || apiErr.StatusCode != tt.status {
					t.Fatalf("SendEvent() error = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("SendEvent() error: %v", err)
			}
			if snap.Mode != tt.wantMode || snap.Held != "e" {
				t.Errorf("snapshot = %+v", snap)
			}
		})
	}
}

func TestClient_GetGraphRetries(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"mode":"select","nodes":[{"id":"a","x":1,"y":2}],"edges":[],"sets":[]}`))
	}))
	defer ts.Close()

	snap, err := NewClient(ts.URL, WithRetries(2, NoBackoff{})).GetGraph(context.Background())
	if err != nil {
		t.Fatalf("GetGraph() error: %v", err)
	}
	if len(snap.Nodes) != 1 || snap.Nodes[0].ID != "a" {
		t.Errorf("snapshot = %+v", snap)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestClient_GetGraphGivesUp(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, WithRetries(1, NoBackoff{})).GetGraph(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("GetGraph() error = %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestClient_RenderPNG(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/render.png" || r.URL.Query().Get("w") != "64" || r.URL.Query().Get("h") != "32" {
			t.Errorf("unexpected request %s", r.URL)
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("\x89PNG"))
	}))
	defer ts.Close()

	data, err := NewClient(ts.URL).RenderPNG(context.Background(), 64, 32)
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	if string(data) != "\x89PNG" {
		t.Errorf("RenderPNG() = %q", data)
	}
}

func TestNewClient_DefaultEndpoint(t *testing.T) {
	if got := NewClient("").Endpoint(); got != DefaultEndpoint {
		t.Errorf("Endpoint() = %s", got)
	}
}
