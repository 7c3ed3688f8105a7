package viewer

import (
	"github.com/bft-labs/rawframe/internal/domain"
	"github.com/bft-labs/rawframe/pkg/source"
)

// FrameChangeEvent is emitted whenever the current frame index changes,
// including timed advances during playback.
type FrameChangeEvent struct {
	Index   int
	Total   int
	Playing bool
}

// ConfigChangeEvent is emitted after a successful Reconfigure.
type ConfigChangeEvent struct {
	Previous domain.FrameConfig
	Current  domain.FrameConfig
	Total    int
}

// SourceChangeEvent is emitted after a file is opened. Err is set when the
// file loaded but the frame configuration does not fit it; Total is then 0.
type SourceChangeEvent struct {
	Path     string
	Size     int64
	Strategy source.Strategy
	Total    int
	Err      error
}

// EventHandler receives session notifications. Methods are called
// synchronously, never while the session holds its lock, so handlers may call
// back into the session. Playback events arrive on the playback goroutine.
type EventHandler interface {
	OnFrameChange(event FrameChangeEvent)
	OnConfigChange(event ConfigChangeEvent)
	OnSourceChange(event SourceChangeEvent)
}

// BaseEventHandler implements EventHandler with no-ops. Embed it to handle a
// subset of events.
type BaseEventHandler struct{}

func (BaseEventHandler) OnFrameChange(FrameChangeEvent)   {}
func (BaseEventHandler) OnConfigChange(ConfigChangeEvent) {}
func (BaseEventHandler) OnSourceChange(SourceChangeEvent) {}

// emitter forwards to an optional handler.
type emitter struct {
	handler EventHandler
}

func (e emitter) frame(ev FrameChangeEvent) {
	if e.handler != nil {
		e.handler.OnFrameChange(ev)
	}
}

func (e emitter) config(ev ConfigChangeEvent) {
	if e.handler != nil {
		e.handler.OnConfigChange(ev)
	}
}

func (e emitter) source(ev SourceChangeEvent) {
	if e.handler != nil {
		e.handler.OnSourceChange(ev)
	}
}
