package android

import (
	"context"
	"fmt"
	"os"

	"github.com/mj1618/autotap/internal/model"
)

// DumpFile implements platform.Snapshotter over a saved uiautomator dump, so
// screens captured earlier can be scanned without a device.
type DumpFile struct {
	Path string
}

// ForegroundRoot parses the dump file. Every call re-reads it.
func (d DumpFile) ForegroundRoot(_ context.Context) (*model.Element, error) {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}
	return ParseHierarchy(data)
}

// FindByExactText matches the device reader's lookup.
func (d DumpFile) FindByExactText(_ context.Context, root *model.Element, text string) ([]*model.Element, error) {
	return findByExactText(root, text), nil
}
