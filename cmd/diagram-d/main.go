package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rmax-ai/diagrammer/pkg/api"
	"github.com/rmax-ai/diagrammer/pkg/editor"
	"github.com/rmax-ai/diagrammer/pkg/keymap"
	"github.com/rmax-ai/diagrammer/pkg/mode"
	"github.com/rmax-ai/diagrammer/web"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("invalid_config", "error", err)
		os.Exit(2)
	}

	logger := newLogger(cfg, os.Stdout)
	slog.SetDefault(logger)
	logger.Info("system_started", "component", "diagram-d", "version", Version, "commit", Commit, "build_time", BuildTime)

	km, err := keymap.Load(cfg.KeymapPath)
	if err != nil {
		logger.Error("failed_to_load_keymap", "path", cfg.KeymapPath, "error", err)
		os.Exit(1)
	}
	logger.Info("keymap_loaded", "path", cfg.KeymapPath, "bindings", len(km.Keys))

	var ids mode.IDSource = editor.UUIDSource{}
	if cfg.IDMode == "sequence" {
		ids = editor.NewSequenceSource("e")
	}
	ed := editor.New(
		editor.WithKeymap(km),
		editor.WithIDSource(ids),
		editor.WithLogger(logger),
		editor.WithMetrics(),
	)

	srv := api.NewServer(ed, cfg.Addr, api.WithLogger(logger), api.WithVersion(Version))
	if cfg.TLSCertFile != "" {
		srv.SetTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
	}
	switch cfg.WebAssetsMode {
	case "embedded":
		assets, err := web.Assets()
		if err != nil {
			logger.Error("failed_to_load_web_assets", "error", err)
			os.Exit(1)
		}
		srv.SetStaticFS(assets)
	case "fs":
		srv.SetStaticFS(os.DirFS(cfg.WebDir))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		select {
		case err := <-errCh:
			if err != nil {
				logger.Error("server_failed", "error", err)
				os.Exit(1)
			}
			return
		case sig := <-sigs:
			if sig == syscall.SIGHUP {
				reloadKeymap(logger, ed, cfg.KeymapPath)
				continue
			}
			logger.Info("shutdown_initiated", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := srv.Stop(ctx); err != nil {
				logger.Error("failed_to_stop_server", "error", err)
			}
			cancel()
			logger.Info("shutdown_complete")
			return
		}
	}
}

// reloadKeymap re-reads the key map; a bad file keeps the current bindings.
func reloadKeymap(logger *slog.Logger, ed *editor.Editor, path string) {
	km, err := keymap.Load(path)
	if err == nil {
		err = ed.SetKeymap(km)
	}
	if err != nil {
		logger.Error("keymap_reload_failed", "path", path, "error", err)
		return
	}
	logger.Info("keymap_reloaded", "path", path)
}
