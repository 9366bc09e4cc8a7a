// Package api exposes an editor session over HTTP.
package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rmax-ai/diagrammer/pkg/editor"
	"github.com/rmax-ai/diagrammer/pkg/graph"
	"github.com/rmax-ai/diagrammer/pkg/keymap"
	"github.com/rmax-ai/diagrammer/pkg/render/raster"
)

// Context keys
type contextKey string

const traceIDKey contextKey = "trace_id"

const (
	defaultRenderWidth  = 800
	defaultRenderHeight = 600
	maxRenderSide       = 4096
	maxEventBody        = 1 << 16
)

// EditorInterface is the editor surface the server drives.
type EditorInterface interface {
	Apply(ev editor.Event) error
	Snapshot() editor.Snapshot
	Render(s graph.Surface)
	Keymap() *keymap.Keymap
}

// Server encapsulates the HTTP API server
type Server struct {
	editor   EditorInterface
	server   *http.Server
	handler  http.Handler
	staticFS fs.FS
	logger   *slog.Logger
	version  string

	// TLS Config
	tlsCertFile string
	tlsKeyFile  string
}

type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// NewServer creates a new API server instance. addr defaults to ":8090".
func NewServer(ed EditorInterface, addr string, opts ...Option) *Server {
	s := &Server{
		editor:  ed,
		logger:  slog.Default(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/graph", s.handleGraph)
	mux.HandleFunc("/v1/render.png", s.handleRender)
	mux.HandleFunc("/v1/simulate", s.handleSimulation)
	mux.Handle("/", s.handleStatic())

	// Middleware: Logging, Panic Recovery, Security Headers
	s.handler = s.withLogging(s.withRecovery(withSecureHeaders(mux)))

	if addr == "" {
		addr = ":8090"
	}
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// SetStaticFS sets the filesystem for serving the browser front-end
func (s *Server) SetStaticFS(fsys fs.FS) {
	s.staticFS = fsys
}

// SetTLS configures the server to use TLS
func (s *Server) SetTLS(certFile, keyFile string) {
	s.tlsCertFile = certFile
	s.tlsKeyFile = keyFile
}

// Start runs the HTTP server (blocking)
func (s *Server) Start() error {
	var err error
	if s.tlsCertFile != "" && s.tlsKeyFile != "" {
		s.logger.Info("server_starting_tls", "addr", s.server.Addr)
		err = s.server.ListenAndServeTLS(s.tlsCertFile, s.tlsKeyFile)
	} else {
		s.logger.Info("server_starting", "addr", s.server.Addr)
		err = s.server.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("server_stopping")
	return s.server.Shutdown(ctx)
}

// handleEvents applies one input event and answers with the new state.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}

	var ev editor.Event
	if err := json.NewDecoder(io.LimitReader(r.Body, maxEventBody)).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json_body", "")
		return
	}
	if err := s.editor.Apply(ev); err != nil {
		s.logger.Debug("event_rejected", "trace_id", getTraceID(r.Context()), "type", ev.Type, "error", err)
		writeError(w, http.StatusBadRequest, "invalid_event", err.Error())
		return
	}

	s.writeJSON(w, r, http.StatusOK, s.editor.Snapshot())
}

// handleGraph returns the current diagram state.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	s.writeJSON(w, r, http.StatusOK, s.editor.Snapshot())
}

// handleRender draws the diagram into a PNG of ?w= by ?h= pixels, world
// units scaled by ?scale=.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}

	q := r.URL.Query()
	width, err := intParam(q.Get("w"), defaultRenderWidth)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_width", err.Error())
		return
	}
	height, err := intParam(q.Get("h"), defaultRenderHeight)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_height", err.Error())
		return
	}
	scale := 1.0
	if v := q.Get("scale"); v != "" {
		scale, err = strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 || scale > 16 {
			writeError(w, http.StatusBadRequest, "invalid_scale", "")
			return
		}
	}

	surface := raster.New(width, height, scale)
	s.editor.Render(surface)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if err := surface.EncodePNG(w); err != nil {
		s.logger.Error("failed_to_encode_png", "trace_id", getTraceID(r.Context()), "error", err)
	}
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 1 || n > maxRenderSide {
		return 0, fmt.Errorf("must be between 1 and %d", maxRenderSide)
	}
	return n, nil
}

// handleStatic serves the browser front-end with index.html fallback
func (s *Server) handleStatic() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.staticFS == nil {
			http.NotFound(w, r)
			return
		}

		path := strings.TrimPrefix(r.URL.Path, "/")
		if strings.HasPrefix(path, "v1/") {
			http.NotFound(w, r)
			return
		}
		if path == "" {
			path = "index.html"
		}

		if file, err := s.staticFS.Open(path); err == nil {
			defer file.Close()
			if stat, err := file.Stat(); err == nil && !stat.IsDir() {
				switch {
				case strings.HasSuffix(path, ".css"):
					w.Header().Set("Content-Type", "text/css")
				case strings.HasSuffix(path, ".js"):
					w.Header().Set("Content-Type", "application/javascript")
				case strings.HasSuffix(path, ".html"):
					w.Header().Set("Content-Type", "text/html")
				}
				io.Copy(w, file)
				return
			}
		}

		if indexFile, err := s.staticFS.Open("index.html"); err == nil {
			defer indexFile.Close()
			w.Header().Set("Content-Type", "text/html")
			io.Copy(w, indexFile)
			return
		}

		http.NotFound(w, r)
	})
}

// handleHealth returns simple status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	s.writeJSON(w, r, http.StatusOK, HealthResponse{Status: "ok", Version: s.version})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed_to_encode_response", "trace_id", getTraceID(r.Context()), "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Reason: reason})
}

// Middleware: Panic Recovery
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic_recovered", "error", fmt.Sprint(err), "path", r.URL.Path, "trace_id", getTraceID(r.Context()))
				writeError(w, http.StatusInternalServerError, "internal_server_error", "")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Middleware: Request Logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = generateTraceID()
		}
		r = r.WithContext(context.WithValue(r.Context(), traceIDKey, traceID))

		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(ww, r)

		s.logger.Info("http_request",
			"trace_id", traceID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func generateTraceID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

func getTraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

// statusWriter captures HTTP status code
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Middleware: Secure Headers
func withSecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' blob: data:;")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")

		next.ServeHTTP(w, r)
	})
}
