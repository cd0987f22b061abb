package android

import "github.com/mj1618/autotap/internal/platform"

func init() {
	platform.NewProviderFunc = func(opts platform.Options) (*platform.Provider, error) {
		client, err := NewClient(opts)
		if err != nil {
			return nil, err
		}
		windows := NewWindowManager(client)
		return &platform.Provider{
			Snapshotter:   NewReader(client, opts.DumpPath),
			Foreground:    windows,
			Windows:       windows,
			Activator:     NewActionPerformer(client),
			Screenshotter: NewScreenshotter(client),
		}, nil
	}
}
