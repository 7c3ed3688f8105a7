package viewer

import (
	"context"

	"github.com/bft-labs/rawframe/internal/domain"
	"github.com/bft-labs/rawframe/pkg/log"
)

// Host is the part of a session a plugin may drive.
type Host interface {
	Config() domain.FrameConfig
	Reconfigure(cfg domain.FrameConfig) error
}

// PluginConfig is handed to every plugin on Start.
type PluginConfig struct {
	// Path of the open file, empty if none.
	Path   string
	Host   Host
	Logger log.Logger
}

// Plugin extends a session with background behaviour.
// Plugins are initialized in registration order on Start and shut down in
// reverse order on Close.
type Plugin interface {
	Name() string
	Initialize(ctx context.Context, cfg PluginConfig) error
	Shutdown(ctx context.Context) error
}
