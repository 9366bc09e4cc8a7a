package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

type Config struct {
	APIURL     string
	KeymapPath string
	Scale      float64
}

func LoadConfig(args []string) (Config, error) {
	flagSet := flag.NewFlagSet("diagram-tui", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	apiURL := flagSet.String("api", os.Getenv("DIAGRAM_API"), "daemon URL; empty runs an in-process editor")
	keymapPath := flagSet.String("keymap", envOrDefault("DIAGRAM_KEYMAP", "keys.toml"), "path to key map TOML")
	scale := flagSet.Float64("scale", 4, "world units per terminal column")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
		}
		return Config{}, err
	}
	if *scale <= 0 {
		return Config{}, fmt.Errorf("scale must be positive, got %v", *scale)
	}
	return Config{
		APIURL:     strings.TrimRight(strings.TrimSpace(*apiURL), "/"),
		KeymapPath: strings.TrimSpace(*keymapPath),
		Scale:      *scale,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
