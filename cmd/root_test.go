package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/autotap/internal/config"
	"github.com/mj1618/autotap/internal/output"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"run", "scan", "foreground", "serve", "version"}
	commands := rootCmd.Commands()

	found := make(map[string]bool)
	for _, c := range commands {
		found[c.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestRunFlagKeys_AreConfigKeys(t *testing.T) {
	for _, keys := range []map[string]string{rootFlagKeys, runFlagKeys, scanFlagKeys, serveFlagKeys} {
		for flag, key := range keys {
			if runCmd.Flags().Lookup(flag) == nil && scanCmd.Flags().Lookup(flag) == nil &&
				serveCmd.Flags().Lookup(flag) == nil && rootCmd.PersistentFlags().Lookup(flag) == nil {
				t.Errorf("flag --%s is not defined", flag)
			}
			cfg := config.Default()
			if err := cfg.Set(key, "1"); err != nil {
				t.Errorf("flag --%s maps to unknown key %q: %v", flag, key, err)
			}
		}
	}
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autotap.yaml")
	content := "target_app: com.fleetlery.driver\ntarget_label: From file\nfiring_mode: continuous\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := rootCmd.PersistentFlags().Set("config", path); err != nil {
		t.Fatal(err)
	}
	defer rootCmd.PersistentFlags().Set("config", "")

	if err := runCmd.Flags().Set("label", "Start tour"); err != nil {
		t.Fatal(err)
	}
	defer func() {
		runCmd.Flags().Set("label", "")
		runCmd.Flags().Lookup("label").Changed = false
	}()

	cfg, err := loadConfig(runCmd, runFlagKeys)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TargetApp != "com.fleetlery.driver" || cfg.TargetLabel != "Start tour" {
		t.Errorf("targets = %q %q", cfg.TargetApp, cfg.TargetLabel)
	}
	if cfg.FiringMode != "continuous" {
		t.Errorf("unset flag must not override the file, got mode %q", cfg.FiringMode)
	}
	if cfg.PollIntervalMS != 100 {
		t.Errorf("default interval = %d", cfg.PollIntervalMS)
	}
}

const dump = `<?xml version='1.0' encoding='UTF-8' standalone='yes' ?><hierarchy rotation="0">
<node index="0" text="" class="android.widget.FrameLayout" package="com.fleetlery.driver" content-desc="" clickable="false" enabled="true" bounds="[0,0][1080,2400]">
  <node index="0" text="" class="android.view.View" package="com.fleetlery.driver" content-desc="ComposableTag" clickable="true" enabled="true" bounds="[40,1800][1040,1950]">
    <node index="0" text="Start tour" class="android.widget.TextView" package="com.fleetlery.driver" content-desc="" clickable="false" enabled="true" bounds="[400,1850][680,1900]" />
  </node>
  <node index="1" text="Email" class="android.widget.EditText" package="com.fleetlery.driver" content-desc="" clickable="true" enabled="true" bounds="[40,400][1040,520]" />
</node>
</hierarchy>`

func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := fn()
	w.Close()
	os.Stdout = old
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestScanCommand_FromDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen.xml")
	if err := os.WriteFile(path, []byte(dump), 0o644); err != nil {
		t.Fatal(err)
	}

	out := captureStdout(t, func() error {
		rootCmd.SetArgs([]string{"scan", "--from", path, "--label", "Start tour"})
		return rootCmd.Execute()
	})
	output.OutputFormat = output.FormatYAML

	var res output.ScanResult
	if err := yaml.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, out)
	}
	if res.App != "com.fleetlery.driver" || res.Match == nil || res.Match.Label != "Start tour" {
		t.Errorf("result = %+v", res)
	}
	if res.Nodes != 4 || len(res.Elements) != 0 {
		t.Errorf("nodes = %d elements = %d, want 4 nodes and no tree", res.Nodes, len(res.Elements))
	}
	if len(res.Candidates) != 2 || !strings.Contains(res.Candidates[1].Excluded, "EditText") {
		t.Errorf("candidates = %+v", res.Candidates)
	}
}

func TestScanCommand_Subtree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen.xml")
	if err := os.WriteFile(path, []byte(dump), 0o644); err != nil {
		t.Fatal(err)
	}
	defer scanCmd.Flags().Set("id", "0")

	out := captureStdout(t, func() error {
		rootCmd.SetArgs([]string{"scan", "--from", path, "--id", "2"})
		return rootCmd.Execute()
	})
	var res output.ScanResult
	if err := yaml.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, out)
	}
	if len(res.Elements) != 1 || res.Elements[0].ID != 2 || len(res.Elements[0].Children) != 1 {
		t.Errorf("elements = %+v", res.Elements)
	}

	rootCmd.SetArgs([]string{"scan", "--from", path, "--id", "99"})
	if err := rootCmd.Execute(); err == nil || !strings.Contains(err.Error(), "no element with id 99") {
		t.Errorf("expected unknown id error, got %v", err)
	}
}

func TestScanCommand_AnnotateNeedsDevice(t *testing.T) {
	rootCmd.SetArgs([]string{"scan", "--from", "x.xml", "--annotate", "out.png"})
	defer func() {
		scanCmd.Flags().Set("annotate", "")
		scanCmd.Flags().Set("from", "")
	}()
	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error combining --from and --annotate")
	}
}
