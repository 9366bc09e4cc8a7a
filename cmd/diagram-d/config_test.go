package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig([]string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != defaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Addr, defaultAddr)
	}
	if filepath.Base(cfg.KeymapPath) != "keys.toml" || !filepath.IsAbs(cfg.KeymapPath) {
		t.Errorf("KeymapPath = %q", cfg.KeymapPath)
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.LogFormat != "json" {
		t.Errorf("logging = %v/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.IDMode != "uuid" || cfg.WebAssetsMode != "embedded" {
		t.Errorf("IDMode = %s, WebAssetsMode = %s", cfg.IDMode, cfg.WebAssetsMode)
	}
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		envVars     map[string]string
		expectError bool
		errorSubstr string
	}{
		{
			name: "addr from flag",
			args: []string{"-addr", ":9000"},
		},
		{
			name:    "port from env",
			envVars: map[string]string{"DIAGRAM_PORT": "9001"},
		},
		{
			name:        "empty addr",
			args:        []string{"-addr", " "},
			expectError: true,
			errorSubstr: "addr cannot be empty",
		},
		{
			name:        "bad log level",
			args:        []string{"-log-level", "chatty"},
			expectError: true,
			errorSubstr: "invalid log level",
		},
		{
			name:        "bad log format from env",
			envVars:     map[string]string{"DIAGRAM_LOG_FORMAT": "xml"},
			expectError: true,
			errorSubstr: "unsupported log format",
		},
		{
			name:        "bad id source",
			args:        []string{"-ids", "random"},
			expectError: true,
			errorSubstr: "unsupported id source",
		},
		{
			name:        "tls cert without key",
			args:        []string{"-tls-cert", "cert.pem"},
			expectError: true,
			errorSubstr: "must be set together",
		},
		{
			name:        "fs assets without dir",
			args:        []string{"-web-assets", "dir"},
			expectError: true,
			errorSubstr: "requires web-dir",
		},
		{
			name:        "unknown assets mode",
			args:        []string{"-web-assets", "cdn"},
			expectError: true,
			errorSubstr: "unsupported web-assets mode",
		},
		{
			name:        "unknown flag",
			args:        []string{"-poll-interval", "5s"},
			expectError: true,
			errorSubstr: "flag provided but not defined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(tt.args)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errorSubstr)
				} else if !strings.Contains(err.Error(), tt.errorSubstr) {
					t.Errorf("expected error containing %q, got %q", tt.errorSubstr, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfig_FlagOverridesEnv(t *testing.T) {
	t.Setenv("DIAGRAM_ADDR", "127.0.0.1:7000")
	t.Setenv("DIAGRAM_IDS", "sequence")
	t.Setenv("DIAGRAM_LOG_LEVEL", "debug")

	cfg, err := LoadConfig([]string{"-addr", ":7001", "-web-assets", "off"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":7001" {
		t.Errorf("Addr = %q, want flag value", cfg.Addr)
	}
	if cfg.IDMode != "sequence" || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.WebAssetsMode != "off" {
		t.Errorf("WebAssetsMode = %q", cfg.WebAssetsMode)
	}
}

func TestLoadConfig_ResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfig([]string{"-keymap", "conf/keys.toml", "-web-assets", "fs", "-web-dir", dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(cfg.KeymapPath) || !strings.HasSuffix(cfg.KeymapPath, filepath.Join("conf", "keys.toml")) {
		t.Errorf("KeymapPath = %q", cfg.KeymapPath)
	}
	if cfg.WebDir != dir {
		t.Errorf("WebDir = %q, want %q", cfg.WebDir, dir)
	}
}
