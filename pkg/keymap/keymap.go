// Package keymap loads the key → mode bindings that drive mode switches.
package keymap

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/rmax-ai/diagrammer/pkg/mode"
)

var (
	ErrInvalidMode = errors.New("invalid mode")
	ErrEmptyKey    = errors.New("empty key")
)

// Keymap is the on-disk form of the bindings.
type Keymap struct {
	Keys map[string]string `toml:"keys"`
}

// Default returns the built-in bindings.
func Default() *Keymap {
	return &Keymap{Keys: map[string]string{
		"d": string(mode.KindDelete),
		"e": string(mode.KindEdge),
		"s": string(mode.KindSet),
		"n": string(mode.KindNode),
	}}
}

// Parse decodes TOML bindings. A [keys] table replaces the defaults as a
// whole; a document without one yields the defaults.
func Parse(data []byte) (*Keymap, error) {
	var km Keymap
	md, err := toml.Decode(string(data), &km)
	if err != nil {
		return nil, fmt.Errorf("failed to parse keymap: %w", err)
	}
	if !md.IsDefined("keys") {
		return Default(), nil
	}
	if km.Keys == nil {
		km.Keys = map[string]string{}
	}
	if err := km.Validate(); err != nil {
		return nil, err
	}
	return &km, nil
}

// Load reads bindings from path. A missing file yields the defaults.
func Load(path string) (*Keymap, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keymap %s: %w", path, err)
	}
	return Parse(data)
}

// Save writes km to path as TOML.
func Save(path string, km *Keymap) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(km); err != nil {
		return fmt.Errorf("failed to encode keymap: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Validate rejects empty keys, unknown modes and bindings to select, which
// is the resting mode and never entered by key.
func (km *Keymap) Validate() error {
	for key, name := range km.Keys {
		if key == "" {
			return ErrEmptyKey
		}
		kind, ok := mode.ParseKind(name)
		if !ok || kind == mode.KindSelect {
			return fmt.Errorf("key %q: %w: %q", key, ErrInvalidMode, name)
		}
	}
	return nil
}

// Bindings converts km into the form the mode machine consumes.
func (km *Keymap) Bindings() map[string]mode.Kind {
	out := make(map[string]mode.Kind, len(km.Keys))
	for key, name := range km.Keys {
		out[key] = mode.Kind(name)
	}
	return out
}

// KeysFor lists the keys bound to kind in sorted order.
func (km *Keymap) KeysFor(kind mode.Kind) []string {
	var keys []string
	for key, name := range km.Keys {
		if name == string(kind) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
