package engine

import (
	"fmt"
	"strings"
	"time"
)

// Config describes one run of the engine.
type Config struct {
	TargetApp         string        `yaml:"target_app"         json:"target_app"`
	TargetLabel       string        `yaml:"target_label"       json:"target_label"`
	PollInterval      time.Duration `yaml:"poll_interval"      json:"poll_interval"`
	Mode              Mode          `yaml:"firing_mode"        json:"firing_mode"`
	ExclusionKeywords []string      `yaml:"exclusion_keywords" json:"exclusion_keywords"`
	EditableMarkers   []string      `yaml:"editable_markers"   json:"editable_markers"`
}

// DefaultConfig returns a config with the default interval, mode and
// exclusion heuristics. Target app and label are left empty.
func DefaultConfig() Config {
	return Config{
		PollInterval:      100 * time.Millisecond,
		Mode:              FireOnce,
		ExclusionKeywords: append([]string(nil), DefaultExclusionKeywords...),
		EditableMarkers:   append([]string(nil), DefaultEditableMarkers...),
	}
}

// Validate checks that the config can drive a run.
func (c Config) Validate() error {
	if strings.TrimSpace(c.TargetApp) == "" {
		return fmt.Errorf("target application is required")
	}
	if strings.TrimSpace(c.TargetLabel) == "" {
		return fmt.Errorf("target label is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	switch c.Mode {
	case FireOnce, FirePerForegroundEntry, Continuous:
	default:
		return fmt.Errorf("unknown firing mode %d", int(c.Mode))
	}
	return nil
}
