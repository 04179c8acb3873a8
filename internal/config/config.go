// Package config loads the optional simreport.yaml that tunes rendering.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/simreport/internal/channel"
	"github.com/aretw0/simreport/internal/render"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = "simreport.yaml"

// Config holds every tunable of the pipeline.
type Config struct {
	PlotsDir   string         `mapstructure:"plots_dir"`
	Format     string         `mapstructure:"format"`
	Width      int            `mapstructure:"width"`
	Height     int            `mapstructure:"height"`
	Palette    []string       `mapstructure:"palette"`
	MinOpacity float64        `mapstructure:"min_opacity"`
	Workers    int            `mapstructure:"workers"`
	LogLevel   string         `mapstructure:"log_level"`
	Channels   []channel.Spec `mapstructure:"channels"`
}

// Default returns the configuration used without a config file.
func Default() Config {
	opts := render.DefaultOptions()
	return Config{
		PlotsDir:   "plots",
		Format:     string(opts.Format),
		Width:      opts.Width,
		Height:     opts.Height,
		Palette:    opts.Palette,
		MinOpacity: opts.MinOpacity,
		Workers:    1,
		LogLevel:   "info",
	}
}

// Parse decodes a YAML document over the defaults. Unknown keys are errors.
func Parse(data []byte) (Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	cfg := Default()
	if len(raw) == 0 {
		return cfg, nil
	}
	// Lists replace the defaults instead of being merged element-wise.
	if _, ok := raw["palette"]; ok {
		cfg.Palette = nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		TagName:     "mapstructure",
		ErrorUnused: true,
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads dir/simreport.yaml if present and returns the defaults otherwise.
func Discover(dir string) (Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.PlotsDir == "" {
		return fmt.Errorf("plots_dir cannot be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.RenderOptions(); err != nil {
		return err
	}
	if _, err := c.Schema(); err != nil {
		return err
	}
	return nil
}

// RenderOptions converts the chart settings.
func (c Config) RenderOptions() (render.Options, error) {
	format, err := render.ParseFormat(c.Format)
	if err != nil {
		return render.Options{}, err
	}
	opts := render.Options{
		Palette:    append([]string(nil), c.Palette...),
		Width:      c.Width,
		Height:     c.Height,
		MinOpacity: c.MinOpacity,
		Format:     format,
	}
	if err := opts.Validate(); err != nil {
		return render.Options{}, err
	}
	return opts, nil
}

// Schema returns the default channel schema extended by the configured channels.
func (c Config) Schema() (*channel.Schema, error) {
	s, err := channel.DefaultSchema().With(c.Channels...)
	if err != nil {
		return nil, fmt.Errorf("invalid channels: %w", err)
	}
	return s, nil
}

// Level parses log_level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
