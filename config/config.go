// Package config loads the world and viewer settings from YAML.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("config.schema.json", schemaJSON)

type Config struct {
	Seed         int64  `yaml:"seed"`
	Workers      int    `yaml:"workers"`
	MaxInFlight  int    `yaml:"max_in_flight"`
	ResultBuffer int    `yaml:"result_buffer"`
	MaxRetries   int    `yaml:"max_retries"`
	Stream       Stream `yaml:"stream_window"`
	DrawRadius   int    `yaml:"draw_radius"`
	Vsync        bool   `yaml:"vsync"`
	Window       Window `yaml:"window"`
	AtlasPath    string `yaml:"atlas_path"`
	LogLevel     string `yaml:"log_level"`
}

// Stream is the chunk window swept around the player's region, as
// inclusive chunk offsets from the region corner.
type Stream struct {
	MinDX int `yaml:"min_dx"`
	MaxDX int `yaml:"max_dx"`
	MinDZ int `yaml:"min_dz"`
	MaxDZ int `yaml:"max_dz"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

func Default() Config {
	workers := runtime.NumCPU() - 1
	if workers < 1 {
		workers = 1
	}
	return Config{
		Seed:         12,
		Workers:      workers,
		MaxInFlight:  workers * 8,
		ResultBuffer: 256,
		MaxRetries:   3,
		Stream:       Stream{MinDX: -10, MaxDX: 9, MinDZ: -10, MaxDZ: 10},
		DrawRadius:   160,
		Vsync:        true,
		Window:       Window{Width: 1280, Height: 720, Title: "OpenCraft"},
		LogLevel:     "info",
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document over the defaults after checking it against
// the config schema.
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(raw)) == 0 {
		return cfg, nil
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return cfg, err
	}
	if doc != nil {
		if err := validateDoc(doc); err != nil {
			return cfg, err
		}
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// validateDoc runs the schema over the generic YAML tree. The tree goes
// through encoding/json first so numbers and maps have the shapes the
// validator expects.
func validateDoc(doc any) error {
	buf, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return schema.Validate(v)
}

// Validate checks constraints that span fields.
func (c Config) Validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers: %d < 1", c.Workers))
	}
	if c.MaxInFlight < 1 {
		errs = append(errs, fmt.Errorf("max_in_flight: %d < 1", c.MaxInFlight))
	}
	if c.Stream.MinDX > c.Stream.MaxDX {
		errs = append(errs, fmt.Errorf("stream_window: min_dx %d > max_dx %d", c.Stream.MinDX, c.Stream.MaxDX))
	}
	if c.Stream.MinDZ > c.Stream.MaxDZ {
		errs = append(errs, fmt.Errorf("stream_window: min_dz %d > max_dz %d", c.Stream.MinDZ, c.Stream.MaxDZ))
	}
	return errors.Join(errs...)
}

// Level maps LogLevel to a slog level.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
