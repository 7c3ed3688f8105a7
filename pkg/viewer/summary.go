package viewer

import (
	"io"
	"path/filepath"

	"github.com/bft-labs/rawframe/internal/domain"
	"github.com/bft-labs/rawframe/pkg/codec"
	"github.com/bft-labs/rawframe/pkg/search"
	"github.com/bft-labs/rawframe/pkg/source"
)

// Summary describes the open file under the active configuration.
type Summary struct {
	Path      string
	Name      string
	Size      int64
	Strategy  source.Strategy
	Config    domain.FrameConfig
	FrameSize int64
	Frames    int
	Current   int
}

// Mapped reports whether the file is memory mapped.
func (s Summary) Mapped() bool { return s.Strategy == source.Mapped }

// Summary returns file and frame information for the open file.
func (s *Session) Summary() (Summary, error) {
	src, c, err := s.view("summary")
	if err != nil {
		return Summary{}, err
	}
	defer s.mu.RUnlock()

	return Summary{
		Path:      src.Path(),
		Name:      filepath.Base(src.Path()),
		Size:      src.Len(),
		Strategy:  src.Strategy(),
		Config:    s.cfg,
		FrameSize: codec.FrameSize(s.cfg),
		Frames:    s.total,
		Current:   s.currentIndex(c),
	}, nil
}

// HexWindow is the raw bytes of one frame and where they start in the file.
type HexWindow struct {
	Start int64
	Data  []byte
}

// End is the offset one past the last byte.
func (w HexWindow) End() int64 { return w.Start + int64(len(w.Data)) }

// Dump writes the window as hex dump lines addressed from Start.
func (w HexWindow) Dump(out io.Writer) error {
	return search.Dump(out, w.Start, w.Data)
}

// HexWindow returns a copy of the current frame's raw bytes.
func (s *Session) HexWindow() (HexWindow, error) {
	src, c, err := s.view("hex window")
	if err != nil {
		return HexWindow{}, err
	}
	defer s.mu.RUnlock()

	start, end := codec.FrameBounds(s.cfg, int64(s.currentIndex(c)))
	data, err := src.Read(start, end)
	if err != nil {
		return HexWindow{}, err
	}
	return HexWindow{Start: start, Data: data}, nil
}
