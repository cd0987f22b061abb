package server

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/autotap/internal/annotate"
	"github.com/mj1618/autotap/internal/engine"
	"github.com/mj1618/autotap/internal/output"
	"github.com/mj1618/autotap/internal/platform"
)

// toText serializes v to YAML for an MCP response.
func toText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

type startResult struct {
	OK     bool           `yaml:"ok"`
	RunID  string         `yaml:"run_id"`
	Config *engine.Config `yaml:"config"`
}

type stopResult struct {
	OK      bool          `yaml:"ok"`
	Stopped bool          `yaml:"stopped"`
	Status  engine.Status `yaml:"status"`
}

// startConfig merges tool arguments over the server's configured defaults.
func (s *Server) startConfig(params map[string]interface{}) (engine.Config, error) {
	cfg := s.defaults
	cfg.TargetApp = StringParam(params, "app", cfg.TargetApp)
	cfg.TargetLabel = StringParam(params, "label", cfg.TargetLabel)
	cfg.FiringMode = StringParam(params, "mode", cfg.FiringMode)
	cfg.PollIntervalMS = IntParam(params, "interval", cfg.PollIntervalMS)
	if kw := ListParam(params, "exclude"); kw != nil {
		cfg.ExclusionKeywords = kw
	}
	return cfg.Engine()
}

func (s *Server) handleStart(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := s.startConfig(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	runID, err := s.ctrl.Start(s.runCtx, cfg)
	if err != nil {
		if errors.Is(err, engine.ErrRunning) {
			return mcp.NewToolResultError(toText(s.ctrl.Status())), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.logger.Info("engine started via mcp", "run_id", runID, "app", cfg.TargetApp, "label", cfg.TargetLabel)
	return mcp.NewToolResultText(toText(startResult{OK: true, RunID: runID, Config: &cfg})), nil
}

func (s *Server) handleStop(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stopped := s.ctrl.Stop()
	return mcp.NewToolResultText(toText(stopResult{OK: true, Stopped: stopped, Status: s.ctrl.Status()})), nil
}

func (s *Server) handleStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(toText(s.ctrl.Status())), nil
}

func (s *Server) handleScan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	label := StringParam(params, "label", "")
	text := StringParam(params, "text", "")
	withImage := BoolParam(params, "annotate", false)
	scale := FloatParam(params, "scale", 0.5)

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	if s.provider == nil || s.provider.Snapshotter == nil {
		return mcp.NewToolResultError("no device backend available"), nil
	}
	root, err := s.provider.Snapshotter.ForegroundRoot(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	preview, err := engine.PreviewScan(ctx, s.provider.Snapshotter, root, label, s.defaults.ExclusionKeywords, s.defaults.EditableMarkers)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := output.NewScanResult(root, preview, label, text)

	result := mcp.NewToolResultText(toText(res))
	if !withImage {
		return result, nil
	}
	img, err := s.annotated(ctx, res.Candidates, scale)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result.Content = append(result.Content, mcp.ImageContent{
		Type:     "image",
		Data:     base64.StdEncoding.EncodeToString(img),
		MIMEType: "image/png",
	})
	return result, nil
}

func (s *Server) annotated(ctx context.Context, rows []output.Candidate, scale float64) ([]byte, error) {
	if s.provider.Screenshotter == nil {
		return nil, fmt.Errorf("screenshot: %w", platform.ErrUnsupported)
	}
	data, err := s.provider.Screenshotter.Screenshot(ctx)
	if err != nil {
		return nil, err
	}
	return annotate.AnnotatePNG(data, annotate.Boxes(rows), scale)
}
