package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Keys lists the settings accepted by Set, in file order.
var Keys = []string{
	"target_app", "target_label", "poll_interval_ms", "firing_mode",
	"exclusion_keywords", "editable_markers",
	"device.serial", "device.adb_path", "device.dump_path", "device.command_timeout_ms",
	"log.file", "log.level", "log.timezone", "log.stderr",
}

// Set overrides one setting by its file key. List values are comma separated.
// Command-line flags are applied through Set so they win over the file.
func (c *Config) Set(key, value string) error {
	switch key {
	case "target_app":
		c.TargetApp = value
	case "target_label":
		c.TargetLabel = value
	case "poll_interval_ms":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.PollIntervalMS = n
	case "firing_mode":
		c.FiringMode = value
	case "exclusion_keywords":
		c.ExclusionKeywords = splitList(value)
	case "editable_markers":
		c.EditableMarkers = splitList(value)
	case "device.serial":
		c.Device.Serial = value
	case "device.adb_path":
		c.Device.ADBPath = value
	case "device.dump_path":
		c.Device.DumpPath = value
	case "device.command_timeout_ms":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Device.CommandTimeoutMS = n
	case "log.file":
		c.Log.File = value
	case "log.level":
		c.Log.Level = value
	case "log.timezone":
		c.Log.Timezone = value
	case "log.stderr":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Log.Stderr = b
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
