package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Workers < 1 || cfg.MaxInFlight < cfg.Workers {
		t.Errorf("workers = %d, max in flight = %d", cfg.Workers, cfg.MaxInFlight)
	}
	if w := cfg.Stream; w.MaxDX-w.MinDX+1 != 20 || w.MaxDZ-w.MinDZ+1 != 21 {
		t.Errorf("stream window = %+v", w)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
seed: -77
workers: 3
stream_window:
  min_dx: -2
  max_dx: 2
window:
  title: test
log_level: debug
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != -77 || cfg.Workers != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Stream.MinDX != -2 || cfg.Stream.MaxDX != 2 || cfg.Stream.MinDZ != -10 {
		t.Errorf("stream = %+v, want dz bounds kept from defaults", cfg.Stream)
	}
	if cfg.Window.Title != "test" || cfg.Window.Width != 1280 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("max retries = %d, want default 3", cfg.MaxRetries)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("level = %v", cfg.Level())
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse([]byte("  \n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("empty document changed the defaults: %+v", cfg)
	}
}

func TestSchemaRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "chunk_size: 32\n"},
		{"zero workers", "workers: 0\n"},
		{"wrong type", "vsync: sometimes\n"},
		{"negative retries", "max_retries: -1\n"},
		{"bad level", "log_level: loud\n"},
		{"unknown window key", "window:\n  depth: 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			var verr *jsonschema.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want a schema validation error", err)
			}
		})
	}
}

func TestValidateWindow(t *testing.T) {
	_, err := Parse([]byte("stream_window:\n  min_dx: 3\n  max_dx: 1\n"))
	if err == nil || !strings.Contains(err.Error(), "min_dx") {
		t.Fatalf("err = %v", err)
	}
}

func TestValidateWorkers(t *testing.T) {
	cfg := Default()
	cfg.Workers = 0
	cfg.MaxInFlight = 0
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "workers") || !strings.Contains(err.Error(), "max_in_flight") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opencraft.yaml")
	if err := os.WriteFile(path, []byte("draw_radius: 64\nvsync: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DrawRadius != 64 || cfg.Vsync {
		t.Errorf("cfg = %+v", cfg)
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("workers: [1, 2]\n"), 0o644)
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "bad.yaml") {
		t.Errorf("err = %v, want it to name the file", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not exist", err)
	}
}

func TestExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "opencraft.example.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 3 || cfg.MaxInFlight != 24 || cfg.AtlasPath != "" {
		t.Errorf("cfg = %+v", cfg)
	}
}
