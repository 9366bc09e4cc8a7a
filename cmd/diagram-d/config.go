package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultAddr          = "127.0.0.1:8090"
	defaultWebAssetsMode = "embedded"
	defaultLogLevel      = "info"
	defaultLogFormat     = "json"
	defaultIDMode        = "uuid"
)

type Config struct {
	Addr          string
	KeymapPath    string
	LogLevel      slog.Level
	LogFormat     string
	IDMode        string
	WebAssetsMode string
	WebDir        string
	TLSCertFile   string
	TLSKeyFile    string
}

func LoadConfig(args []string) (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("failed to get cwd: %w", err)
	}

	defaultKeymapPath := filepath.Join(cwd, "keys.toml")

	addr := addrFromEnv(defaultAddr)
	keymapPath := envOrDefault("DIAGRAM_KEYMAP", defaultKeymapPath)
	logLevel := envOrDefault("DIAGRAM_LOG_LEVEL", defaultLogLevel)
	logFormat := envOrDefault("DIAGRAM_LOG_FORMAT", defaultLogFormat)
	idMode := envOrDefault("DIAGRAM_IDS", defaultIDMode)
	webAssetsMode := envOrDefault("DIAGRAM_WEB_ASSETS_MODE", defaultWebAssetsMode)
	webDir := os.Getenv("DIAGRAM_WEB_DIR")

	flagSet := flag.NewFlagSet("diagram-d", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagAddr := flagSet.String("addr", addr, "HTTP listen address")
	flagKeymap := flagSet.String("keymap", keymapPath, "path to key map TOML")
	flagLogLevel := flagSet.String("log-level", logLevel, "log level: debug|info|warn|error")
	flagLogFormat := flagSet.String("log-format", logFormat, "log format: json|text")
	flagIDs := flagSet.String("ids", idMode, "entity id source: uuid|sequence")
	flagWebAssets := flagSet.String("web-assets", webAssetsMode, "web assets mode: embedded|fs|off")
	flagWebDir := flagSet.String("web-dir", webDir, "web assets directory when web-assets=fs")
	flagTLSCert := flagSet.String("tls-cert", os.Getenv("DIAGRAM_TLS_CERT"), "TLS certificate file")
	flagTLSKey := flagSet.String("tls-key", os.Getenv("DIAGRAM_TLS_KEY"), "TLS key file")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
			return Config{}, err
		}
		return Config{}, err
	}

	level, err := parseLevel(*flagLogLevel)
	if err != nil {
		return Config{}, err
	}

	config := Config{
		Addr:          strings.TrimSpace(*flagAddr),
		KeymapPath:    resolvePath(*flagKeymap, cwd),
		LogLevel:      level,
		LogFormat:     strings.ToLower(strings.TrimSpace(*flagLogFormat)),
		IDMode:        strings.ToLower(strings.TrimSpace(*flagIDs)),
		WebAssetsMode: normalizeWebAssetsMode(*flagWebAssets),
		WebDir:        strings.TrimSpace(*flagWebDir),
		TLSCertFile:   resolvePath(*flagTLSCert, cwd),
		TLSKeyFile:    resolvePath(*flagTLSKey, cwd),
	}

	if config.Addr == "" {
		return Config{}, errors.New("addr cannot be empty")
	}
	if config.LogFormat != "json" && config.LogFormat != "text" {
		return Config{}, fmt.Errorf("unsupported log format: %s", config.LogFormat)
	}
	if config.IDMode != "uuid" && config.IDMode != "sequence" {
		return Config{}, fmt.Errorf("unsupported id source: %s", config.IDMode)
	}
	if (config.TLSCertFile == "") != (config.TLSKeyFile == "") {
		return Config{}, errors.New("tls-cert and tls-key must be set together")
	}

	if config.WebAssetsMode == "fs" {
		if config.WebDir == "" {
			return Config{}, errors.New("web-assets=fs requires web-dir")
		}
		config.WebDir = resolvePath(config.WebDir, cwd)
	}

	if config.WebAssetsMode != "embedded" && config.WebAssetsMode != "fs" && config.WebAssetsMode != "off" {
		return Config{}, fmt.Errorf("unsupported web-assets mode: %s", config.WebAssetsMode)
	}

	return config, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func addrFromEnv(fallback string) string {
	if value := os.Getenv("DIAGRAM_ADDR"); value != "" {
		return value
	}
	if port := os.Getenv("DIAGRAM_PORT"); port != "" {
		return fmt.Sprintf("127.0.0.1:%s", port)
	}
	return fallback
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func resolvePath(path string, cwd string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return trimmed
	}
	if filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Join(cwd, trimmed)
}

func normalizeWebAssetsMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "embedded":
		return "embedded"
	case "fs", "dir", "directory":
		return "fs"
	case "off", "disabled", "none":
		return "off"
	default:
		return mode
	}
}

func newLogger(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
