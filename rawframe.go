// Package rawframe reads headerless binary files as sequences of grayscale
// frames.
//
// Example usage:
//
//	cfg := rawframe.DefaultFrameConfig()
//	cfg.Width, cfg.Height, cfg.SampleBits = 640, 512, 16
//	s, err := rawframe.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//	if err := s.Open("capture.raw"); err != nil {
//	    log.Fatal(err)
//	}
//	grid, index, err := s.Current()
package rawframe

import (
	"github.com/bft-labs/rawframe/internal/domain"
	"github.com/bft-labs/rawframe/pkg/viewer"
)

// FrameConfig describes how bytes are interpreted as frames.
type FrameConfig = domain.FrameConfig

// Grid is one decoded frame.
type Grid = domain.Grid

// Error is the structured failure returned by every operation.
type Error = domain.Error

// Session ties an open file to a frame layout, a cursor and a display
// mapping.
type Session = viewer.Session

// Option configures a Session.
type Option = viewer.Option

// Byte orders.
const (
	LittleEndian = domain.LittleEndian
	BigEndian    = domain.BigEndian
)

// DefaultFrameConfig returns a 640x512 unsigned 8-bit little-endian layout.
func DefaultFrameConfig() FrameConfig {
	return domain.DefaultFrameConfig()
}

// New creates a session for cfg. Open a file before reading frames.
func New(cfg FrameConfig, opts ...Option) (*Session, error) {
	return viewer.New(cfg, opts...)
}

// Open creates a session for cfg and opens path in it.
func Open(path string, cfg FrameConfig, opts ...Option) (*Session, error) {
	s, err := viewer.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Open(path); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
