// Package configwatcher provides layout file monitoring for a viewer session.
// When enabled, it watches a TOML layout file and re-applies the frame
// geometry it describes whenever the file changes.
package configwatcher

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/rawframe/pkg/log"
	"github.com/bft-labs/rawframe/pkg/viewer"
)

// Plugin implements layout watching.
// It monitors one layout file and calls Host.Reconfigure with the geometry
// it describes. A layout the open file cannot satisfy is logged and the
// session keeps its current configuration.
type Plugin struct {
	mu sync.Mutex

	// Configuration
	path          string
	debounceDelay time.Duration
	applyOnStart  bool
	onApply       func(error)

	// Runtime state
	host     viewer.Host
	logger   log.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the layout watcher plugin.
type Config struct {
	// Path is the layout file to watch.
	Path string

	// DebounceDelay is the delay to wait after a file change before applying.
	// Default: 100 milliseconds
	DebounceDelay time.Duration

	// ApplyOnStart applies the layout once when the plugin starts.
	ApplyOnStart bool

	// OnApply, if set, is called after every apply attempt with its result.
	OnApply func(error)
}

// DefaultConfig returns a Config watching path with sensible defaults.
func DefaultConfig(path string) Config {
	return Config{
		Path:          path,
		DebounceDelay: 100 * time.Millisecond,
		ApplyOnStart:  true,
	}
}

// New creates a new layout watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}

	return &Plugin{
		path:          cfg.Path,
		debounceDelay: cfg.DebounceDelay,
		applyOnStart:  cfg.ApplyOnStart,
		onApply:       cfg.OnApply,
		logger:        log.NoopLogger{},
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "configwatcher"
}

// Initialize sets up the plugin and starts the watcher.
func (p *Plugin) Initialize(ctx context.Context, cfg viewer.PluginConfig) error {
	p.mu.Lock()
	p.host = cfg.Host
	p.logger = log.OrNoop(cfg.Logger)
	p.mu.Unlock()

	if p.path == "" || p.host == nil {
		p.logger.Warn("layout watcher disabled: no layout file or host")
		return nil
	}

	// Watch the directory so editors that replace the file are seen.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return err
	}

	if p.applyOnStart {
		p.apply()
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("layout watcher initialized", log.String("path", p.path))

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)

	return nil
}

// Shutdown stops the watcher and any pending apply.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

// watchLoop watches for layout file changes.
func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	name := filepath.Base(p.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			p.debounceApply(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("layout watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceApply(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}

	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		p.apply()
	})
}

// apply loads the layout and reconfigures the host with it.
func (p *Plugin) apply() {
	err := p.reload()
	if err != nil {
		p.logger.Warn("layout rejected", log.String("path", p.path), log.Err(err))
	} else {
		p.logger.Info("layout applied", log.String("path", p.path))
	}
	if p.onApply != nil {
		p.onApply(err)
	}
}

func (p *Plugin) reload() error {
	p.mu.Lock()
	host := p.host
	p.mu.Unlock()
	if host == nil {
		return errors.New("no host")
	}

	layout, err := LoadLayout(p.path)
	if err != nil {
		return err
	}
	cfg, err := layout.Apply(host.Config())
	if err != nil {
		return err
	}
	if cfg == host.Config() {
		return nil
	}
	return host.Reconfigure(cfg)
}

// Ensure Plugin implements viewer.Plugin.
var _ viewer.Plugin = (*Plugin)(nil)
