package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is read from the working directory when no file is given
const DefaultFile = "stlmesh.toml"

// Precision values select the coordinate type a mesh is loaded with
const (
	Float32 = "float32"
	Float64 = "float64"
)

// Dump formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds the settings shared by all commands. Command line flags
// override values read from the file.
type Config struct {
	Precision     string `toml:"precision"`
	DumpFormat    string `toml:"dump_format"`
	WatchDebounce string `toml:"watch_debounce"`
	EdgeCount     int    `toml:"edge_count"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Precision:     Float32,
		DumpFormat:    FormatJSON,
		WatchDebounce: "500ms",
		EdgeCount:     10,
	}
}

// Load reads path on top of the defaults. An empty path reads DefaultFile
// if it exists and falls back to the defaults otherwise.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every setting holds a supported value
func (c *Config) Validate() error {
	switch c.Precision {
	case Float32, Float64:
	default:
		return fmt.Errorf("unsupported precision %q (expected %s or %s)", c.Precision, Float32, Float64)
	}

	switch c.DumpFormat {
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unsupported dump format %q (expected %s or %s)", c.DumpFormat, FormatJSON, FormatYAML)
	}

	if _, err := c.Debounce(); err != nil {
		return err
	}

	if c.EdgeCount < 0 {
		return fmt.Errorf("edge count must not be negative, got %d", c.EdgeCount)
	}
	return nil
}

// Debounce parses the watch debounce interval
func (c *Config) Debounce() (time.Duration, error) {
	d, err := time.ParseDuration(c.WatchDebounce)
	if err != nil {
		return 0, fmt.Errorf("invalid watch debounce %q: %w", c.WatchDebounce, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("watch debounce must not be negative, got %s", d)
	}
	return d, nil
}
