package viewer

import (
	"github.com/bft-labs/rawframe/pkg/contrast"
	"github.com/bft-labs/rawframe/pkg/log"
)

// Option configures optional behavior of a Session.
type Option func(*options)

type options struct {
	logger       log.Logger
	eventHandler EventHandler
	plugins      []Plugin
	threshold    int64
	mapper       contrast.Mapper
}

func defaultOptions() options {
	return options{
		logger: log.NoopLogger{},
		mapper: contrast.DefaultMapper(),
	}
}

// WithLogger sets a logger for structured logging.
// If not provided, nothing is logged.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = log.OrNoop(logger)
	}
}

// WithEventHandler sets a handler for session events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin to be initialized on Start.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithMapThreshold sets the file size at or above which files are memory
// mapped instead of read into memory. Values <= 0 keep the 100 MiB default.
func WithMapThreshold(bytes int64) Option {
	return func(o *options) {
		o.threshold = bytes
	}
}

// WithContrast sets the display mapping used by Display.
func WithContrast(m contrast.Mapper) Option {
	return func(o *options) {
		o.mapper = m
	}
}
