package domain

import (
	"fmt"
	"strings"
)

// ByteOrder selects how two-byte samples are assembled.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

// String returns "little" or "big".
func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "little"
	case BigEndian:
		return "big"
	default:
		return fmt.Sprintf("ByteOrder(%d)", int(o))
	}
}

// ParseByteOrder accepts "little"/"le" and "big"/"be", case-insensitively.
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "little", "le", "little-endian":
		return LittleEndian, nil
	case "big", "be", "big-endian":
		return BigEndian, nil
	}
	return 0, Errorf(KindInvalidConfiguration, "parse byte order", "byte order must be little or big, got %q", s)
}

// FrameConfig declares the raw pixel layout of a file. Offset is a flat skip
// from the start of the file, not a per-row stride.
type FrameConfig struct {
	Width      int
	Height     int
	SampleBits int
	Signed     bool
	ByteOrder  ByteOrder
	Offset     int64
}

// DefaultFrameConfig returns a 640x512 8-bit little-endian layout.
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{
		Width:      640,
		Height:     512,
		SampleBits: 8,
		ByteOrder:  LittleEndian,
	}
}

// Validate checks every field range. It does not look at any file.
func (c FrameConfig) Validate() error {
	const op = "validate config"
	if c.Width <= 0 {
		return Errorf(KindInvalidConfiguration, op, "width must be positive").With("width", int64(c.Width))
	}
	if c.Height <= 0 {
		return Errorf(KindInvalidConfiguration, op, "height must be positive").With("height", int64(c.Height))
	}
	if c.SampleBits != 8 && c.SampleBits != 16 {
		return Errorf(KindInvalidConfiguration, op, "sample bits must be 8 or 16").With("sample_bits", int64(c.SampleBits))
	}
	if c.ByteOrder != LittleEndian && c.ByteOrder != BigEndian {
		return Errorf(KindInvalidConfiguration, op, "byte order must be little or big").With("byte_order", int64(c.ByteOrder))
	}
	if c.Offset < 0 {
		return Errorf(KindInvalidConfiguration, op, "offset must not be negative").With("offset", c.Offset)
	}
	return nil
}

// BytesPerSample is 1 for 8-bit layouts and 2 for 16-bit layouts.
func (c FrameConfig) BytesPerSample() int { return c.SampleBits / 8 }

// Kind returns the sample variant this layout decodes to. 8-bit samples are
// always unsigned.
func (c FrameConfig) Kind() SampleKind {
	switch {
	case c.SampleBits == 8:
		return Unsigned8
	case c.Signed:
		return Signed16
	default:
		return Unsigned16
	}
}

// String is a compact description used in logs.
func (c FrameConfig) String() string {
	return fmt.Sprintf("%dx%d %s %s offset=%d", c.Width, c.Height, c.Kind(), c.ByteOrder, c.Offset)
}
