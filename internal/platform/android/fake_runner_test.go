package android

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// fakeRunner answers adb invocations from a table keyed by the joined args.
type fakeRunner struct {
	responses map[string]string
	errors    map[string]error
	calls     [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	key := strings.Join(args, " ")
	if err, ok := f.errors[key]; ok {
		return nil, err
	}
	if out, ok := f.responses[key]; ok {
		return []byte(out), nil
	}
	return nil, fmt.Errorf("unexpected adb call: %s", key)
}

func newTestClient(r *fakeRunner) *Client {
	return newClient("adb", "", time.Second, r)
}
