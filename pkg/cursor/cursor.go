package cursor

import (
	"math"
	"sync"
	"time"

	"github.com/bft-labs/rawframe/internal/domain"
	"github.com/bft-labs/rawframe/pkg/log"
)

// ChangeFunc is called with the new index after the current index changes.
// It runs outside the cursor's lock, on the goroutine that caused the change
// (the caller, or the playback goroutine for timed advances).
type ChangeFunc func(index int)

// Option configures a Cursor.
type Option func(*Cursor)

// WithOnChange registers the change callback.
func WithOnChange(fn ChangeFunc) Option {
	return func(c *Cursor) { c.onChange = fn }
}

// WithLogger sets the logger used for playback transitions.
func WithLogger(logger log.Logger) Option {
	return func(c *Cursor) { c.logger = log.OrNoop(logger) }
}

// Cursor tracks the current frame index within [0, total) and can advance it
// on a timer. All state is guarded by one mutex, so timed advances and caller
// operations are serialized.
type Cursor struct {
	mu       sync.Mutex
	total    int
	current  int
	playing  bool
	interval time.Duration
	gen      uint64
	stop     chan struct{}

	onChange ChangeFunc
	logger   log.Logger
}

// New creates a cursor at index 0. It fails with InvalidTotal if total <= 0.
func New(total int, opts ...Option) (*Cursor, error) {
	if total <= 0 {
		return nil, invalidTotal(total)
	}
	c := &Cursor{total: total, logger: log.NoopLogger{}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func invalidTotal(total int) error {
	return domain.Errorf(domain.KindInvalidTotal, "set total", "total frames must be positive").
		With("total", int64(total))
}

// Current returns the current index.
func (c *Cursor) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Total returns the number of frames.
func (c *Cursor) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// SetCurrent moves to index. It reports whether the index actually changed;
// the change callback fires only in that case.
func (c *Cursor) SetCurrent(index int) (bool, error) {
	c.mu.Lock()
	changed, err := c.setLocked(index)
	c.mu.Unlock()
	if err != nil {
		return false, err
	}
	if changed {
		c.notify(index)
	}
	return changed, nil
}

func (c *Cursor) setLocked(index int) (bool, error) {
	if index < 0 || index >= c.total {
		return false, domain.Errorf(domain.KindIndexOutOfRange, "set current",
			"frame %d outside [0, %d)", index, c.total).
			With("index", int64(index)).
			With("total", int64(c.total))
	}
	if index == c.current {
		return false, nil
	}
	c.current = index
	return true, nil
}

// Next advances by one, wrapping from the last frame to 0, and returns the
// new index.
func (c *Cursor) Next() int { return c.step(1) }

// Previous retreats by one, wrapping from 0 to the last frame, and returns
// the new index.
func (c *Cursor) Previous() int { return c.step(-1) }

func (c *Cursor) step(delta int) int {
	c.mu.Lock()
	idx := wrap(c.current+delta, c.total)
	changed := idx != c.current
	c.current = idx
	c.mu.Unlock()
	if changed {
		c.notify(idx)
	}
	return idx
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// SetTotal changes the frame count. Playback is paused first. If the current
// index no longer fits it is clamped to newTotal-1, which counts as a change.
func (c *Cursor) SetTotal(newTotal int) (bool, error) {
	idx, changed, err := c.Resize(newTotal)
	if err != nil {
		return false, err
	}
	if changed {
		c.notify(idx)
	}
	return changed, nil
}

// Resize is SetTotal without the change callback. It returns the resulting
// index and whether it was clamped; reporting the clamp is up to the caller.
// It never calls out, so it may run under a lock the callback also takes.
func (c *Cursor) Resize(newTotal int) (int, bool, error) {
	if newTotal <= 0 {
		return 0, false, invalidTotal(newTotal)
	}
	c.Pause()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.total = newTotal
	changed := false
	if c.current >= newTotal {
		c.current = newTotal - 1
		changed = true
	}
	return c.current, changed, nil
}

// IntervalFor returns the tick period for fps: round(1000/fps) milliseconds,
// never less than one millisecond.
func IntervalFor(fps int) time.Duration {
	ms := math.Round(1000 / float64(fps))
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}

// Play starts advancing with Next on every tick. It fails with InvalidRate if
// fps <= 0 and is a no-op while already playing.
func (c *Cursor) Play(fps int) error {
	if fps <= 0 {
		return domain.Errorf(domain.KindInvalidRate, "play", "fps must be positive").
			With("fps", int64(fps))
	}

	c.mu.Lock()
	if c.playing {
		c.mu.Unlock()
		return nil
	}
	c.playing = true
	c.gen++
	c.interval = IntervalFor(fps)
	c.stop = make(chan struct{})
	gen, stop, interval := c.gen, c.stop, c.interval
	c.mu.Unlock()

	c.logger.Debug("playback started", log.Int("fps", fps), log.Duration("interval", interval))
	go c.run(gen, stop, interval)
	return nil
}

// Pause stops playback. It is a no-op while paused. No timed advance happens
// after Pause returns.
func (c *Cursor) Pause() {
	c.mu.Lock()
	if !c.playing {
		c.mu.Unlock()
		return
	}
	c.playing = false
	close(c.stop)
	c.stop = nil
	c.mu.Unlock()

	c.logger.Debug("playback paused")
}

// Playing reports whether timed advance is active.
func (c *Cursor) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Interval returns the tick period of the current or last playback.
func (c *Cursor) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

func (c *Cursor) run(gen uint64, stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !c.tick(gen) {
				return
			}
		}
	}
}

// tick advances once if playback generation gen is still active.
func (c *Cursor) tick(gen uint64) bool {
	c.mu.Lock()
	if !c.playing || c.gen != gen {
		c.mu.Unlock()
		return false
	}
	idx := wrap(c.current+1, c.total)
	changed := idx != c.current
	c.current = idx
	c.mu.Unlock()

	if changed {
		c.notify(idx)
	}
	return true
}

func (c *Cursor) notify(index int) {
	if c.onChange != nil {
		c.onChange(index)
	}
}
