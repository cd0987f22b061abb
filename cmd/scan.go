package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/autotap/internal/annotate"
	"github.com/mj1618/autotap/internal/engine"
	"github.com/mj1618/autotap/internal/model"
	"github.com/mj1618/autotap/internal/output"
	"github.com/mj1618/autotap/internal/platform"
	"github.com/mj1618/autotap/internal/platform/android"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the current screen once and show candidates",
	Long: `Read the foreground screen once and list every interactive element with
its resolved label. Elements dropped by the exclusion rules are listed with
the reason. With --label, the candidate the engine would tap is marked.
Nothing is tapped.

Examples:
  autotap scan --label "Start tour"
  autotap scan --from dump.xml --label "Start tour" --tree
  autotap scan --label "Start tour" --annotate screen.png`,
	RunE: runScan,
}

var scanFlagKeys = map[string]string{
	"exclude": "exclusion_keywords",
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().String("from", "", "Scan a saved uiautomator XML dump instead of the device")
	scanCmd.Flags().String("label", "", "Target label to preview matching for")
	scanCmd.Flags().String("text", "", "Only list candidates whose label or description contains this")
	scanCmd.Flags().String("exclude", "", "Comma-separated exclusion keywords (overrides config)")
	scanCmd.Flags().Bool("tree", false, "Include the full element tree")
	scanCmd.Flags().Int("id", 0, "Include only the subtree of the element with this ID (implies --tree)")
	scanCmd.Flags().Bool("flat", false, "Include every element as a flat list with path breadcrumbs")
	scanCmd.Flags().String("annotate", "", "Write a screenshot with candidate boxes to this PNG file (device only)")
	scanCmd.Flags().Float64("scale", 1.0, "Scale factor for --annotate 0.1-1.0")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, scanFlagKeys)
	if err != nil {
		return err
	}
	from, _ := cmd.Flags().GetString("from")
	label, _ := cmd.Flags().GetString("label")
	text, _ := cmd.Flags().GetString("text")
	tree, _ := cmd.Flags().GetBool("tree")
	id, _ := cmd.Flags().GetInt("id")
	flat, _ := cmd.Flags().GetBool("flat")
	annotatePath, _ := cmd.Flags().GetString("annotate")
	scale, _ := cmd.Flags().GetFloat64("scale")

	if from != "" && annotatePath != "" {
		return fmt.Errorf("--annotate needs a device screenshot and cannot be used with --from")
	}
	if scale < 0.1 || scale > 1.0 {
		return fmt.Errorf("--scale must be between 0.1 and 1.0")
	}

	var provider *platform.Provider
	var snap platform.Snapshotter
	if from != "" {
		snap = android.DumpFile{Path: from}
	} else {
		provider, err = newProvider(cfg)
		if err != nil {
			return err
		}
		snap = provider.Snapshotter
	}

	ctx := context.Background()
	root, err := snap.ForegroundRoot(ctx)
	if err != nil {
		return err
	}
	preview, err := engine.PreviewScan(ctx, snap, root, label, cfg.ExclusionKeywords, cfg.EditableMarkers)
	if err != nil {
		return err
	}

	res := output.NewScanResult(root, preview, label, text)
	subtree := root
	if id != 0 {
		if subtree = model.FindByID(root, id); subtree == nil {
			return fmt.Errorf("no element with id %d", id)
		}
		tree = true
	}

	if annotatePath != "" {
		if provider.Screenshotter == nil {
			return fmt.Errorf("screenshot: %w", platform.ErrUnsupported)
		}
		shot, err := provider.Screenshotter.Screenshot(ctx)
		if err != nil {
			return err
		}
		data, err := annotate.AnnotatePNG(shot, annotate.Boxes(res.Candidates), scale)
		if err != nil {
			return err
		}
		if err := os.WriteFile(annotatePath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write annotated screenshot: %w", err)
		}
	}

	if flat {
		return output.Print(output.ScanFlatResult{
			App:        res.App,
			TS:         res.TS,
			Target:     res.Target,
			Nodes:      res.Nodes,
			Match:      res.Match,
			Candidates: res.Candidates,
			Elements:   model.FlattenElements(model.FilterByText([]model.Element{*subtree}, text)),
		})
	}
	if tree {
		res.Elements = model.FilterByText([]model.Element{*subtree}, text)
	}
	return output.Print(res)
}
