package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mj1618/autotap/internal/config"
	"github.com/mj1618/autotap/internal/logsink"
	"github.com/mj1618/autotap/internal/platform"
)

// newLogger opens the event log described by cfg. The returned close
// function flushes and closes the file.
func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	var mirror io.Writer
	if cfg.Log.Stderr {
		mirror = os.Stderr
	}
	var sink *logsink.Sink
	if cfg.Log.File != "" {
		sink, err = logsink.Open(cfg.Log.File, logsink.Options{Location: loc})
		if err != nil {
			return nil, nil, err
		}
	}
	logger := slog.New(logsink.NewHandler(sink, level, mirror))
	closeFn := func() {
		if sink != nil {
			sink.Close()
		}
	}
	return logger, closeFn, nil
}

// newProvider connects to the device selected by cfg.
func newProvider(cfg config.Config) (*platform.Provider, error) {
	provider, err := platform.NewProvider(cfg.PlatformOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize device backend: %w", err)
	}
	return provider, nil
}
