package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mj1618/autotap/internal/engine"
	"github.com/mj1618/autotap/internal/output"
	"github.com/mj1618/autotap/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch the target app and tap the target element",
	Long: `Start the scan-match-act engine and block until interrupted.

Every poll interval the engine checks the foreground app. When it is the
target, the screen is scanned for interactive elements, labels are matched
against the target, and the first match is tapped. The firing mode decides
how often:
  once         tap once for the whole run (default)
  per-entry    tap once each time the app comes to the foreground
  continuous   tap on every poll the element is present

Events are appended to the log file (default autotap_log.txt).

Examples:
  autotap run --app com.fleetlery.driver --label "Start tour"
  autotap run --config autotap.yaml --mode per-entry --tui
  autotap run --app com.example --label OK --interval 250 --stderr --log-level debug`,
	RunE: runRun,
}

// runFlagKeys maps run flags to config keys.
var runFlagKeys = map[string]string{
	"app":       "target_app",
	"label":     "target_label",
	"mode":      "firing_mode",
	"interval":  "poll_interval_ms",
	"exclude":   "exclusion_keywords",
	"log-file":  "log.file",
	"log-level": "log.level",
	"stderr":    "log.stderr",
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("app", "", "Target application package")
	runCmd.Flags().String("label", "", "Target element label")
	runCmd.Flags().String("mode", "once", "Firing mode: once, per-entry, continuous")
	runCmd.Flags().Int("interval", 100, "Poll interval in milliseconds")
	runCmd.Flags().String("exclude", "", "Comma-separated label keywords that disqualify a candidate")
	runCmd.Flags().String("log-file", "autotap_log.txt", "Event log file (empty to disable)")
	runCmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error")
	runCmd.Flags().Bool("stderr", false, "Mirror log lines to stderr")
	runCmd.Flags().Bool("tui", false, "Show a live monitor (s start/stop, q quit)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, runFlagKeys)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ecfg, err := cfg.Engine()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl := engine.NewController(provider, logger)
	if useTUI, _ := cmd.Flags().GetBool("tui"); useTUI {
		if err := tui.Run(ctx, ctrl, ecfg); err != nil {
			return err
		}
		return output.Print(ctrl.Status())
	}

	if _, err := ctrl.Start(ctx, ecfg); err != nil {
		return err
	}
	<-ctrl.Done()
	ctrl.Stop()
	return output.Print(ctrl.Status())
}
