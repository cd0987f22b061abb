package cmd

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mj1618/autotap/internal/output"
	"github.com/mj1618/autotap/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Print(VersionResult{
			Version:   version.Version,
			Commit:    version.Commit,
			BuildDate: version.BuildDate,
			Go:        runtime.Version(),
		})
	},
}

// VersionResult is the output of the version command.
type VersionResult struct {
	Version   string `yaml:"version"    json:"version"`
	Commit    string `yaml:"commit"     json:"commit"`
	BuildDate string `yaml:"build_date" json:"build_date"`
	Go        string `yaml:"go"         json:"go"`
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
