package cliconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bft-labs/rawframe/internal/domain"
	"github.com/bft-labs/rawframe/pkg/contrast"
	"github.com/bft-labs/rawframe/pkg/source"
)

// Config holds CLI configuration for rawframe.
type Config struct {
	File   string
	Layout string

	Width      int
	Height     int
	SampleBits int
	Signed     bool
	ByteOrder  string
	Offset     int64

	Frame  int
	FPS    int
	Frames int

	LowPercentile  float64
	HighPercentile float64
	Linear         bool

	MapThreshold int64
	LogLevel     string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	fc := domain.DefaultFrameConfig()
	return Config{
		Width:          fc.Width,
		Height:         fc.Height,
		SampleBits:     fc.SampleBits,
		ByteOrder:      fc.ByteOrder.String(),
		FPS:            10,
		LowPercentile:  contrast.DefaultLow,
		HighPercentile: contrast.DefaultHigh,
		MapThreshold:   source.DefaultMapThreshold,
		LogLevel:       "info",
	}
}

// Validate checks the configuration for errors and normalises ByteOrder
// and LogLevel.
func (c *Config) Validate() error {
	if c.File == "" {
		return fmt.Errorf("file is required")
	}

	order, err := domain.ParseByteOrder(c.ByteOrder)
	if err != nil {
		return err
	}
	c.ByteOrder = order.String()

	if _, err := c.FrameConfig(); err != nil {
		return err
	}
	if err := c.Mapper().Validate(); err != nil {
		return err
	}

	if c.Frame < 0 {
		return fmt.Errorf("frame must not be negative")
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive")
	}
	if c.Frames < 0 {
		return fmt.Errorf("frames must not be negative")
	}
	if c.MapThreshold <= 0 {
		return fmt.Errorf("map threshold must be positive")
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	return nil
}

// FrameConfig converts the geometry fields to a validated domain config.
func (c Config) FrameConfig() (domain.FrameConfig, error) {
	order, err := domain.ParseByteOrder(c.ByteOrder)
	if err != nil {
		return domain.FrameConfig{}, err
	}
	fc := domain.FrameConfig{
		Width:      c.Width,
		Height:     c.Height,
		SampleBits: c.SampleBits,
		Signed:     c.Signed,
		ByteOrder:  order,
		Offset:     c.Offset,
	}
	if err := fc.Validate(); err != nil {
		return domain.FrameConfig{}, err
	}
	return fc, nil
}

// Mapper returns the display mapping the contrast fields describe.
func (c Config) Mapper() contrast.Mapper {
	return contrast.Mapper{
		Mode: contrast.ModeFor(c.Linear),
		Low:  c.LowPercentile,
		High: c.HighPercentile,
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt64 sets an int64 value if positive and flag not changed.
func (s *configSetter) setInt64(flag string, value int64, dst *int64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt64Ptr sets an int64 value from a pointer if not nil and flag not
// changed. Used where zero is a meaningful setting.
func (s *configSetter) setInt64Ptr(flag string, value *int64, dst *int64) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setFloat sets a float64 value from a pointer if not nil and flag not
// changed. Zero is a meaningful percentile, so absence is the nil pointer.
func (s *configSetter) setFloat(flag string, value *float64, dst *float64) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination.
// Used for environment variables that come as strings. A set variable is
// applied as given, zero and negative included; Validate rejects bad ranges.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setInt64FromString is setIntFromString for int64 fields.
func (s *configSetter) setInt64FromString(flag, value string, dst *int64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setFloatFromString parses a string to float64 and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = f
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
