package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mj1618/autotap/internal/output"
)

var foregroundCmd = &cobra.Command{
	Use:   "foreground",
	Short: "Print the package of the foreground application",
	RunE:  runForeground,
}

func init() {
	rootCmd.AddCommand(foregroundCmd)
}

// ForegroundResult is the output of the foreground command.
type ForegroundResult struct {
	App string `yaml:"app" json:"app"`
}

func runForeground(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	app, err := provider.Foreground.ForegroundApp(context.Background())
	if err != nil {
		return err
	}
	return output.Print(ForegroundResult{App: app})
}
