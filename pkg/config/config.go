// Package config loads the optional plane.yaml (or plane.toml) settings file
// that tunes input handling, tracing, logging and metrics for a host.
package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/plane/pkg/dispatch"
	"github.com/go-drift/plane/pkg/errors"
	"github.com/go-drift/plane/pkg/input"
)

// SupportedMajor is the only config file major version this build reads.
const SupportedMajor = "v1"

// CurrentVersion is written by Default and by `plane config init`.
const CurrentVersion = "1.0.0"

// FileNames are the names LoadOptional looks for, in order.
var FileNames = []string{"plane.yaml", "plane.yml", "plane.toml"}

// Config is the parsed settings file.
type Config struct {
	Version string        `yaml:"version" toml:"version"`
	Input   InputConfig   `yaml:"input" toml:"input"`
	Trace   TraceConfig   `yaml:"trace" toml:"trace"`
	Log     LogConfig     `yaml:"log" toml:"log"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
}

// InputConfig tunes click counting and wheel classification.
type InputConfig struct {
	DoubleClickMS int     `yaml:"double_click_ms" toml:"double_click_ms"`
	ClickDistance float64 `yaml:"click_distance" toml:"click_distance"`
	WheelWindowMS int     `yaml:"wheel_window_ms" toml:"wheel_window_ms"`
	// Platform is "auto", "mac" or "other".
	Platform string `yaml:"platform" toml:"platform"`
}

// TraceConfig controls the dispatch trace.
type TraceConfig struct {
	Level   string `yaml:"level" toml:"level"`
	Pattern string `yaml:"pattern,omitempty" toml:"pattern,omitempty"`
}

// LogConfig controls the host log file.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file,omitempty" toml:"file,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty" toml:"addr,omitempty"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Input: InputConfig{
			DoubleClickMS: int(dispatch.DefaultClickInterval / time.Millisecond),
			ClickDistance: dispatch.DefaultClickDistance,
			WheelWindowMS: int(dispatch.DefaultWheelWindow / time.Millisecond),
			Platform:      "auto",
		},
		Trace: TraceConfig{Level: "debug"},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads the file at path. The format follows the extension. Fields the
// file leaves out keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configError("config.Load", fmt.Errorf("failed to read %s: %w", path, err))
	}
	cfg, err := Parse(filepath.Ext(path), data)
	if err != nil {
		return nil, configError("config.Load", fmt.Errorf("%s: %w", path, err))
	}
	return cfg, nil
}

// Parse decodes data in the format named by ext (".yaml", ".yml" or
// ".toml") on top of the defaults and validates the result.
func Parse(ext string, data []byte) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find returns the first of FileNames present in dir.
func Find(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// LoadOptional loads the settings file in dir if there is one, and the
// defaults otherwise.
func LoadOptional(dir string) (*Config, error) {
	path, ok := Find(dir)
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the version gate and every field.
func (c *Config) Validate() error {
	v := c.Version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("version %q is not a semantic version", c.Version)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return fmt.Errorf("version %s is not supported (want %s.x)", c.Version, SupportedMajor)
	}
	if c.Input.DoubleClickMS <= 0 {
		return fmt.Errorf("input.double_click_ms must be positive, got %d", c.Input.DoubleClickMS)
	}
	if c.Input.ClickDistance < 0 {
		return fmt.Errorf("input.click_distance must not be negative, got %v", c.Input.ClickDistance)
	}
	if c.Input.WheelWindowMS <= 0 {
		return fmt.Errorf("input.wheel_window_ms must be positive, got %d", c.Input.WheelWindowMS)
	}
	if _, err := c.Platform(); err != nil {
		return err
	}
	if _, err := parseLevel("trace.level", c.Trace.Level); err != nil {
		return err
	}
	if _, err := parseLevel("log.level", c.Log.Level); err != nil {
		return err
	}
	if c.Trace.Pattern != "" {
		if _, err := regexp.Compile(c.Trace.Pattern); err != nil {
			return fmt.Errorf("trace.pattern: %w", err)
		}
	}
	return nil
}

// Platform resolves input.platform, mapping "auto" to the running host.
func (c *Config) Platform() (input.Platform, error) {
	switch strings.ToLower(c.Input.Platform) {
	case "", "auto":
		return input.HostPlatform(), nil
	case "mac":
		return input.PlatformMac, nil
	case "other":
		return input.PlatformOther, nil
	}
	return 0, fmt.Errorf("input.platform must be auto, mac or other, got %q", c.Input.Platform)
}

// LogLevel returns log.level. Call Validate first.
func (c *Config) LogLevel() slog.Level {
	l, _ := parseLevel("log.level", c.Log.Level)
	return l
}

// Apply copies the input and trace settings into o.
func (c *Config) Apply(o *dispatch.Options) error {
	platform, err := c.Platform()
	if err != nil {
		return configError("config.Apply", err)
	}
	level, err := parseLevel("trace.level", c.Trace.Level)
	if err != nil {
		return configError("config.Apply", err)
	}
	o.Keymap = input.NewKeymap(platform)
	o.ClickInterval = time.Duration(c.Input.DoubleClickMS) * time.Millisecond
	o.ClickDistance = c.Input.ClickDistance
	o.WheelWindow = time.Duration(c.Input.WheelWindowMS) * time.Millisecond
	o.TraceLevel = level
	o.TracePattern = nil
	if c.Trace.Pattern != "" {
		re, err := regexp.Compile(c.Trace.Pattern)
		if err != nil {
			return configError("config.Apply", fmt.Errorf("trace.pattern: %w", err))
		}
		o.TracePattern = re
	}
	return nil
}

// Marshal encodes c in the format named by ext.
func (c *Config) Marshal(ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case ".toml":
		return toml.Marshal(c)
	}
	return nil, fmt.Errorf("unsupported config format %q", ext)
}

func parseLevel(field, s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return l, nil
}

func configError(op string, err error) error {
	if pe, ok := err.(*errors.PlaneError); ok {
		return pe
	}
	return &errors.PlaneError{
		Op:        op,
		Kind:      errors.KindConfig,
		Err:       err,
		Timestamp: time.Now(),
	}
}
