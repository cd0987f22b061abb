package android

import (
	"bytes"
	"context"
	"fmt"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// Screenshotter implements platform.Screenshotter with screencap.
type Screenshotter struct {
	client *Client
}

// NewScreenshotter creates a screenshotter for the device.
func NewScreenshotter(client *Client) *Screenshotter {
	return &Screenshotter{client: client}
}

// Screenshot returns the current screen as PNG bytes.
func (s *Screenshotter) Screenshot(ctx context.Context) ([]byte, error) {
	data, err := s.client.ExecOut(ctx, "screencap", "-p")
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, pngMagic) {
		return nil, fmt.Errorf("screencap returned %d bytes of non-PNG data", len(data))
	}
	return data, nil
}
