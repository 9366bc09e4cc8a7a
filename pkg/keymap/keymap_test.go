package keymap

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rmax-ai/diagrammer/pkg/mode"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]mode.Kind
		wantErr error
	}{
		{
			name:  "no keys table",
			input: "# nothing here\n",
			want: map[string]mode.Kind{
				"d": mode.KindDelete, "e": mode.KindEdge, "s": mode.KindSet, "n": mode.KindNode,
			},
		},
		{
			name:  "override replaces defaults",
			input: "[keys]\nctrl = \"edge\"\nalt = \"node\"\n",
			want:  map[string]mode.Kind{"ctrl": mode.KindEdge, "alt": mode.KindNode},
		},
		{
			name:    "unknown mode",
			input:   "[keys]\nx = \"lasso\"\n",
			wantErr: ErrInvalidMode,
		},
		{
			name:    "select is not bindable",
			input:   "[keys]\nx = \"select\"\n",
			wantErr: ErrInvalidMode,
		},
		{
			name:    "empty key",
			input:   "[keys]\n\"\" = \"edge\"\n",
			wantErr: ErrEmptyKey,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			km, err := Parse([]byte(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if got := km.Bindings(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Bindings() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte("[keys\n")); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	km, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(km, Default()) {
		t.Errorf("Load() = %v, want defaults", km.Keys)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "keys.toml")
	in := &Keymap{Keys: map[string]string{"shift": "set", "e": "edge"}}
	if err := Save(path, in); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(out.Keys, in.Keys) {
		t.Errorf("Load() = %v, want %v", out.Keys, in.Keys)
	}
}

func TestKeysFor(t *testing.T) {
	km := &Keymap{Keys: map[string]string{"e": "edge", "a": "edge", "d": "delete"}}
	if got := km.KeysFor(mode.KindEdge); !reflect.DeepEqual(got, []string{"a", "e"}) {
		t.Errorf("KeysFor(edge) = %v", got)
	}
	if got := km.KeysFor(mode.KindSet); got != nil {
		t.Errorf("KeysFor(set) = %v, want nil", got)
	}
}
