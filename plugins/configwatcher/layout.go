package configwatcher

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/rawframe/internal/domain"
)

// Layout is the on-disk frame geometry. Absent keys keep the base value.
//
//	width = 640
//	height = 512
//	sample_bits = 16
//	signed = false
//	byte_order = "big"
//	offset = 0
type Layout struct {
	Width      *int    `toml:"width"`
	Height     *int    `toml:"height"`
	SampleBits *int    `toml:"sample_bits"`
	Signed     *bool   `toml:"signed"`
	ByteOrder  *string `toml:"byte_order"`
	Offset     *int64  `toml:"offset"`
}

// LoadLayout reads and parses a layout file.
func LoadLayout(path string) (Layout, error) {
	var l Layout
	data, err := os.ReadFile(path)
	if err != nil {
		return l, fmt.Errorf("read layout: %w", err)
	}
	if err := toml.Unmarshal(data, &l); err != nil {
		return l, fmt.Errorf("parse layout %s: %w", path, err)
	}
	return l, nil
}

// Apply overlays the layout on base and validates the result.
func (l Layout) Apply(base domain.FrameConfig) (domain.FrameConfig, error) {
	cfg := base
	if l.Width != nil {
		cfg.Width = *l.Width
	}
	if l.Height != nil {
		cfg.Height = *l.Height
	}
	if l.SampleBits != nil {
		cfg.SampleBits = *l.SampleBits
	}
	if l.Signed != nil {
		cfg.Signed = *l.Signed
	}
	if l.ByteOrder != nil {
		order, err := domain.ParseByteOrder(*l.ByteOrder)
		if err != nil {
			return base, err
		}
		cfg.ByteOrder = order
	}
	if l.Offset != nil {
		cfg.Offset = *l.Offset
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}
