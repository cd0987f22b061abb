package android

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mj1618/autotap/internal/model"
	"github.com/mj1618/autotap/internal/platform"
)

const defaultDumpPath = "/data/local/tmp/autotap_dump.xml"

// Reader implements platform.Snapshotter using uiautomator dumps.
type Reader struct {
	client   *Client
	dumpPath string

	// mu serialises dumps: callers share one file on the device.
	mu sync.Mutex
}

// NewReader creates a reader that dumps to dumpPath on the device.
func NewReader(client *Client, dumpPath string) *Reader {
	if dumpPath == "" {
		dumpPath = defaultDumpPath
	}
	return &Reader{client: client, dumpPath: dumpPath}
}

// ForegroundRoot dumps and parses the current window hierarchy. Every call
// produces a fresh tree; nothing is cached between calls.
//
// uiautomator exits 0 even when it finds no root ("null root node returned
// by UiTestAutomationBridge") and leaves the dump file untouched, so the file
// is removed first. A dump that writes nothing then reads as unavailable
// instead of returning the previous screen.
func (r *Reader) ForegroundRoot(ctx context.Context) (*model.Element, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out, err := r.client.Shell(ctx, dumpCommand(r.dumpPath))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", platform.ErrUnavailable, err)
	}
	return ParseHierarchy([]byte(out))
}

func dumpCommand(path string) string {
	return fmt.Sprintf("rm -f %[1]s; uiautomator dump %[1]s >/dev/null && cat %[1]s", path)
}

// FindByExactText returns visible elements under root whose trimmed text
// equals text, ignoring case, in pre-order.
func (r *Reader) FindByExactText(_ context.Context, root *model.Element, text string) ([]*model.Element, error) {
	return findByExactText(root, text), nil
}

func findByExactText(root *model.Element, text string) []*model.Element {
	want := strings.TrimSpace(text)
	if want == "" {
		return nil
	}
	var found []*model.Element
	model.Walk(root, func(el *model.Element) bool {
		if !el.Visible {
			return false
		}
		if strings.EqualFold(strings.TrimSpace(el.Text), want) {
			found = append(found, el)
		}
		return true
	})
	return found
}
