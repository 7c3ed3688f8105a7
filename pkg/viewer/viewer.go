package viewer

import (
	"context"
	"image"
	"sync"

	"github.com/bft-labs/rawframe/internal/domain"
	"github.com/bft-labs/rawframe/pkg/codec"
	"github.com/bft-labs/rawframe/pkg/contrast"
	"github.com/bft-labs/rawframe/pkg/cursor"
	"github.com/bft-labs/rawframe/pkg/log"
	"github.com/bft-labs/rawframe/pkg/search"
	"github.com/bft-labs/rawframe/pkg/source"
)

// Session ties one open file, a frame configuration and a cursor together.
// Use New to create one, Open to load a file, and Close to release it.
type Session struct {
	// mu guards cfg, total, cursor and the loaded source against swaps;
	// decodes and searches hold it for reading.
	mu     sync.RWMutex
	cfg    domain.FrameConfig
	mapper contrast.Mapper
	total  int
	cursor *cursor.Cursor
	// misfit is the validation error of a loaded file the configuration
	// does not fit.
	misfit error

	loader  *source.Loader
	logger  log.Logger
	emit    emitter
	plugins []Plugin

	started bool
	closed  bool
}

// New creates a session with no file loaded. It fails with
// InvalidConfiguration if cfg or the contrast settings are invalid.
func New(cfg domain.FrameConfig, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.mapper.Validate(); err != nil {
		return nil, err
	}

	return &Session{
		cfg:     cfg,
		mapper:  o.mapper,
		loader:  source.NewLoader(o.threshold, o.logger),
		logger:  o.logger,
		emit:    emitter{handler: o.eventHandler},
		plugins: o.plugins,
	}, nil
}

func errNoFile(op string) error {
	return domain.Errorf(domain.KindClosed, op, "no file is open")
}

func errSessionClosed(op string) error {
	return domain.Errorf(domain.KindClosed, op, "session is closed")
}

// Open loads path, replacing any previously open file, and rewinds to frame
// 0. Path errors leave the previous file open. If the file loads but the
// configuration does not fit it, the file stays loaded with no frames and
// the validation error is returned.
func (s *Session) Open(path string) error {
	const op = "open"

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errSessionClosed(op)
	}
	prev := s.cursor
	s.mu.Unlock()
	if prev != nil {
		prev.Pause()
	}

	s.mu.Lock()
	src, err := s.loader.Load(path)
	if err != nil {
		if s.loader.Current() == nil {
			s.cursor = nil
			s.total = 0
		}
		s.mu.Unlock()
		s.logger.Warn("open failed", log.String("path", path), log.Err(err))
		return err
	}

	ev := SourceChangeEvent{Path: src.Path(), Size: src.Len(), Strategy: src.Strategy()}
	if err := codec.ValidateParameters(s.cfg, src.Len()); err != nil {
		s.total = 0
		s.cursor = nil
		s.misfit = err
		s.mu.Unlock()
		s.logger.Warn("frame configuration does not fit file",
			log.String("path", path), log.Stringer("config", s.cfg), log.Err(err))
		ev.Err = err
		s.emit.source(ev)
		return err
	}

	total := int(codec.TotalFrames(s.cfg, src.Len()))
	c := s.newCursor(total)
	s.total = total
	s.cursor = c
	s.misfit = nil
	s.mu.Unlock()

	ev.Total = total
	s.emit.source(ev)
	s.emit.frame(FrameChangeEvent{Index: 0, Total: total})
	return nil
}

// newCursor builds a cursor whose changes are reported as frame events.
func (s *Session) newCursor(total int) *cursor.Cursor {
	var c *cursor.Cursor
	c, _ = cursor.New(total,
		cursor.WithLogger(s.logger),
		cursor.WithOnChange(func(index int) {
			s.emit.frame(FrameChangeEvent{Index: index, Total: c.Total(), Playing: c.Playing()})
		}),
	)
	return c
}

// Config returns the active frame configuration.
func (s *Session) Config() domain.FrameConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Reconfigure switches to cfg. The new configuration is validated against
// the open file and the (clamped) current frame is decoded before anything
// changes, so on failure the session is left exactly as it was. Playback is
// paused when a file is open.
func (s *Session) Reconfigure(cfg domain.FrameConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errSessionClosed("reconfigure")
	}
	prev := s.cfg
	src := s.loader.Current()
	if src == nil {
		s.cfg = cfg
		s.mu.Unlock()
		s.emit.config(ConfigChangeEvent{Previous: prev, Current: cfg})
		return nil
	}

	if err := codec.ValidateParameters(cfg, src.Len()); err != nil {
		s.mu.Unlock()
		return err
	}
	total := int(codec.TotalFrames(cfg, src.Len()))
	idx := 0
	if s.cursor != nil {
		idx = min(s.cursor.Current(), total-1)
	}
	if _, err := codec.Decode(cfg, src, int64(idx)); err != nil {
		s.mu.Unlock()
		return err
	}

	// The cursor total is committed with cfg so overlapping calls cannot
	// leave it behind; the clamp is reported once the lock is released.
	clamped, at := false, 0
	if s.cursor == nil {
		s.cursor = s.newCursor(total)
	} else {
		var err error
		at, clamped, err = s.cursor.Resize(total)
		if err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.cfg = cfg
	s.total = total
	s.misfit = nil
	s.mu.Unlock()

	if clamped {
		s.emit.frame(FrameChangeEvent{Index: at, Total: total})
	}

	s.logger.Info("frame configuration changed",
		log.Stringer("from", prev), log.Stringer("to", cfg), log.Int("frames", total))
	s.emit.config(ConfigChangeEvent{Previous: prev, Current: cfg, Total: total})
	return nil
}

// view returns the loaded source and cursor under the read lock. The caller
// must RUnlock.
func (s *Session) view(op string) (*source.Source, *cursor.Cursor, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, nil, errSessionClosed(op)
	}
	src := s.loader.Current()
	if src == nil {
		s.mu.RUnlock()
		return nil, nil, errNoFile(op)
	}
	if s.cursor == nil {
		err := s.misfit
		s.mu.RUnlock()
		return nil, nil, err
	}
	return src, s.cursor, nil
}

// currentIndex returns the cursor index clamped to total; mu must be held.
func (s *Session) currentIndex(c *cursor.Cursor) int {
	return min(c.Current(), s.total-1)
}

// Current decodes the frame under the cursor and returns it with its index.
func (s *Session) Current() (domain.Grid, int, error) {
	src, c, err := s.view("current")
	if err != nil {
		return domain.Grid{}, 0, err
	}
	defer s.mu.RUnlock()

	idx := s.currentIndex(c)
	grid, err := codec.Decode(s.cfg, src, int64(idx))
	if err != nil {
		return domain.Grid{}, idx, err
	}
	return grid, idx, nil
}

// Frame decodes frame index without moving the cursor.
func (s *Session) Frame(index int) (domain.Grid, error) {
	src, _, err := s.view("frame")
	if err != nil {
		return domain.Grid{}, err
	}
	defer s.mu.RUnlock()
	return codec.Decode(s.cfg, src, int64(index))
}

// activeCursor returns the cursor of the open file.
func (s *Session) activeCursor(op string) (*cursor.Cursor, error) {
	_, c, err := s.view(op)
	if err != nil {
		return nil, err
	}
	s.mu.RUnlock()
	return c, nil
}

// Seek moves to frame index. It fails with IndexOutOfRange outside
// [0, total).
func (s *Session) Seek(index int) error {
	c, err := s.activeCursor("seek")
	if err != nil {
		return err
	}
	_, err = c.SetCurrent(index)
	return err
}

// Next moves forward one frame, wrapping to 0 after the last.
func (s *Session) Next() (int, error) {
	c, err := s.activeCursor("next")
	if err != nil {
		return 0, err
	}
	return c.Next(), nil
}

// Previous moves back one frame, wrapping to the last from 0.
func (s *Session) Previous() (int, error) {
	c, err := s.activeCursor("previous")
	if err != nil {
		return 0, err
	}
	return c.Previous(), nil
}

// Play advances one frame every round(1000/fps) milliseconds until Pause.
func (s *Session) Play(fps int) error {
	c, err := s.activeCursor("play")
	if err != nil {
		return err
	}
	return c.Play(fps)
}

// Pause stops playback. It is a no-op when nothing is playing.
func (s *Session) Pause() {
	s.mu.RLock()
	c := s.cursor
	s.mu.RUnlock()
	if c != nil {
		c.Pause()
	}
}

// Playing reports whether playback is active.
func (s *Session) Playing() bool {
	s.mu.RLock()
	c := s.cursor
	s.mu.RUnlock()
	return c != nil && c.Playing()
}

// Contrast returns the display mapping.
func (s *Session) Contrast() contrast.Mapper {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mapper
}

// SetContrast replaces the display mapping.
func (s *Session) SetContrast(m contrast.Mapper) error {
	if err := m.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.mapper = m
	s.mu.Unlock()
	return nil
}

// Display maps grid to an 8-bit image with the session's contrast mapping.
func (s *Session) Display(grid domain.Grid) *image.Gray {
	return s.Contrast().Map(grid)
}

// Search returns all offsets of the hex pattern in the open file.
func (s *Session) Search(pattern string) ([]int64, error) {
	src, _, err := s.view("search")
	if err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()
	return search.Search(src, pattern)
}

// Locate is Search plus the first match position for scrolling.
func (s *Session) Locate(pattern string) (search.Result, error) {
	src, _, err := s.view("search")
	if err != nil {
		return search.Result{First: -1}, err
	}
	defer s.mu.RUnlock()

	r, err := search.Locate(src, pattern)
	if err != nil {
		return r, err
	}
	s.logger.Debug("pattern located", log.Int("matches", r.Count()), log.Int64("first", r.First))
	return r, nil
}

// Start initializes plugins. The context bounds their lifetime. Calling
// Start again is a no-op.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errSessionClosed("start")
	}
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	path := ""
	if src := s.loader.Current(); src != nil {
		path = src.Path()
	}
	s.mu.Unlock()

	cfg := PluginConfig{Path: path, Host: s, Logger: s.logger}
	for i, p := range s.plugins {
		if err := p.Initialize(ctx, cfg); err != nil {
			s.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()), log.Err(err))
			s.shutdownPlugins(s.plugins[:i])
			s.mu.Lock()
			s.started = false
			s.mu.Unlock()
			return err
		}
		s.logger.Info("plugin initialized", log.String("plugin", p.Name()))
	}
	return nil
}

func (s *Session) shutdownPlugins(plugins []Plugin) {
	ctx := context.Background()
	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			s.logger.Error("plugin shutdown failed",
				log.String("plugin", p.Name()), log.Err(err))
		} else {
			s.logger.Info("plugin shutdown complete", log.String("plugin", p.Name()))
		}
	}
}

// Close stops playback, shuts plugins down in reverse order and releases the
// open file. It waits for in-flight decodes and searches to finish. Further
// calls are no-ops.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	c := s.cursor
	started := s.started
	s.mu.Unlock()

	if c != nil {
		c.Pause()
	}
	if started {
		s.shutdownPlugins(s.plugins)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = nil
	s.total = 0
	return s.loader.Close()
}
