package configwatcher

import "github.com/bft-labs/rawframe/pkg/viewer"

// WithLayoutWatcher returns a viewer Option that enables layout file watching.
//
// Usage:
//
//	s, err := viewer.New(cfg,
//	    configwatcher.WithLayoutWatcher(configwatcher.Config{
//	        Path:          "/data/capture.toml",
//	        DebounceDelay: 100 * time.Millisecond,
//	    }),
//	)
func WithLayoutWatcher(cfg Config) viewer.Option {
	plugin := New(cfg)
	return viewer.WithPlugin(plugin)
}

// WithDefaultLayoutWatcher returns a viewer Option that watches path with
// default settings (debounce 100ms, apply on start).
func WithDefaultLayoutWatcher(path string) viewer.Option {
	return WithLayoutWatcher(DefaultConfig(path))
}
