// Package config loads autotap settings from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // CET and friends on hosts without zoneinfo

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/autotap/internal/engine"
	"github.com/mj1618/autotap/internal/platform"
)

const (
	DefaultPollIntervalMS = 100
	DefaultLogFile        = "autotap_log.txt"
	DefaultTimezone       = "CET"
	DefaultLogLevel       = "info"
)

// Config is the on-disk configuration. Keys are the same in YAML and TOML.
type Config struct {
	TargetApp         string       `yaml:"target_app"         toml:"target_app"`
	TargetLabel       string       `yaml:"target_label"       toml:"target_label"`
	PollIntervalMS    int          `yaml:"poll_interval_ms"   toml:"poll_interval_ms"`
	FiringMode        string       `yaml:"firing_mode"        toml:"firing_mode"`
	ExclusionKeywords []string     `yaml:"exclusion_keywords" toml:"exclusion_keywords"`
	EditableMarkers   []string     `yaml:"editable_markers"   toml:"editable_markers"`
	Device            DeviceConfig `yaml:"device"             toml:"device"`
	Log               LogConfig    `yaml:"log"                toml:"log"`
}

// DeviceConfig selects the adb device.
type DeviceConfig struct {
	Serial           string `yaml:"serial"             toml:"serial"`
	ADBPath          string `yaml:"adb_path"           toml:"adb_path"`
	DumpPath         string `yaml:"dump_path"          toml:"dump_path"`
	CommandTimeoutMS int    `yaml:"command_timeout_ms" toml:"command_timeout_ms"`
}

// LogConfig controls the event log file.
type LogConfig struct {
	File     string `yaml:"file"     toml:"file"`
	Level    string `yaml:"level"    toml:"level"`
	Timezone string `yaml:"timezone" toml:"timezone"`
	Stderr   bool   `yaml:"stderr"   toml:"stderr"`
}

// Default returns the built-in configuration. Target app and label have no
// default and must come from the file or flags.
func Default() Config {
	return Config{
		PollIntervalMS:    DefaultPollIntervalMS,
		FiringMode:        engine.FireOnce.String(),
		ExclusionKeywords: append([]string(nil), engine.DefaultExclusionKeywords...),
		EditableMarkers:   append([]string(nil), engine.DefaultEditableMarkers...),
		Log: LogConfig{
			File:     DefaultLogFile,
			Level:    DefaultLogLevel,
			Timezone: DefaultTimezone,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// The format is chosen by extension: .toml for TOML, anything else YAML.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config file not found: %s", path)
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := Decode(data, filepath.Ext(path), &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses data in the format named by ext into cfg. Keys absent from
// data keep their current values.
func Decode(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	case ".yaml", ".yml", "":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q (expected .yaml, .yml or .toml)", ext)
	}
}

// Validate checks every value a run depends on.
func (c Config) Validate() error {
	if _, err := c.EngineConfig(); err != nil {
		return err
	}
	if _, err := c.Engine(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Device.CommandTimeoutMS < 0 {
		return fmt.Errorf("device.command_timeout_ms must not be negative")
	}
	return nil
}

// EngineConfig converts the file settings to an engine configuration
// without validating targets.
func (c Config) EngineConfig() (engine.Config, error) {
	mode, err := engine.ParseMode(c.FiringMode)
	if err != nil {
		return engine.Config{}, err
	}
	return engine.Config{
		TargetApp:         strings.TrimSpace(c.TargetApp),
		TargetLabel:       strings.TrimSpace(c.TargetLabel),
		PollInterval:      time.Duration(c.PollIntervalMS) * time.Millisecond,
		Mode:              mode,
		ExclusionKeywords: c.ExclusionKeywords,
		EditableMarkers:   c.EditableMarkers,
	}, nil
}

// Engine returns a validated engine configuration.
func (c Config) Engine() (engine.Config, error) {
	ec, err := c.EngineConfig()
	if err != nil {
		return engine.Config{}, err
	}
	if err := ec.Validate(); err != nil {
		return engine.Config{}, err
	}
	return ec, nil
}

// PlatformOptions returns the device backend options.
func (c Config) PlatformOptions() platform.Options {
	return platform.Options{
		Serial:         c.Device.Serial,
		ADBPath:        c.Device.ADBPath,
		DumpPath:       c.Device.DumpPath,
		CommandTimeout: time.Duration(c.Device.CommandTimeoutMS) * time.Millisecond,
	}
}

// Location resolves the log time zone. Empty means local time.
func (c Config) Location() (*time.Location, error) {
	if c.Log.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Log.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid log.timezone %q: %w", c.Log.Timezone, err)
	}
	return loc, nil
}

// Level parses log.level.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	s := c.Log.Level
	if s == "" {
		s = DefaultLogLevel
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	return l, nil
}
