package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/autotap/internal/config"
	"github.com/mj1618/autotap/internal/output"
	_ "github.com/mj1618/autotap/internal/platform/android"
	"github.com/mj1618/autotap/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "autotap",
	Short: "Watch an Android app and tap the element with a given label",
	Long: `autotap polls an Android device over adb. Whenever the target application
is in the foreground it scans the screen's accessibility tree, finds the
interactive element whose label matches the target, and taps it according
to a firing policy (once, once per foreground entry, or continuously).`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().String("config", "", "Config file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().String("serial", "", "Device serial (default: the only attached device)")
	rootCmd.PersistentFlags().String("adb", "", "Path to the adb binary (default: adb on PATH)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}

// rootFlagKeys maps persistent flags to config keys.
var rootFlagKeys = map[string]string{
	"serial": "device.serial",
	"adb":    "device.adb_path",
}

// loadConfig reads --config and applies every flag the user set, from the
// root and from cmd, whose name appears in keys. Flags win over the file.
func loadConfig(cmd *cobra.Command, keys map[string]string) (config.Config, error) {
	path, _ := rootCmd.PersistentFlags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	for _, set := range []map[string]string{rootFlagKeys, keys} {
		for flag, key := range set {
			f := cmd.Flags().Lookup(flag)
			if f == nil || !f.Changed {
				continue
			}
			if err := cfg.Set(key, f.Value.String()); err != nil {
				return config.Config{}, fmt.Errorf("--%s: %w", flag, err)
			}
		}
	}
	return cfg, nil
}
