package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (RAWFRAME_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("layout", os.Getenv("RAWFRAME_LAYOUT"), &cfg.Layout)
	s.setString("byte-order", os.Getenv("RAWFRAME_BYTE_ORDER"), &cfg.ByteOrder)
	s.setString("log-level", os.Getenv("RAWFRAME_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("width", os.Getenv("RAWFRAME_WIDTH"), &cfg.Width); err != nil {
		return err
	}
	if err := s.setIntFromString("height", os.Getenv("RAWFRAME_HEIGHT"), &cfg.Height); err != nil {
		return err
	}
	if err := s.setIntFromString("sample-bits", os.Getenv("RAWFRAME_SAMPLE_BITS"), &cfg.SampleBits); err != nil {
		return err
	}
	if err := s.setIntFromString("fps", os.Getenv("RAWFRAME_FPS"), &cfg.FPS); err != nil {
		return err
	}

	if err := s.setInt64FromString("offset", os.Getenv("RAWFRAME_OFFSET"), &cfg.Offset); err != nil {
		return err
	}
	if err := s.setInt64FromString("map-threshold", os.Getenv("RAWFRAME_MAP_THRESHOLD"), &cfg.MapThreshold); err != nil {
		return err
	}

	if err := s.setFloatFromString("low", os.Getenv("RAWFRAME_LOW_PERCENTILE"), &cfg.LowPercentile); err != nil {
		return err
	}
	if err := s.setFloatFromString("high", os.Getenv("RAWFRAME_HIGH_PERCENTILE"), &cfg.HighPercentile); err != nil {
		return err
	}

	s.setBoolFromString("signed", os.Getenv("RAWFRAME_SIGNED"), &cfg.Signed)
	s.setBoolFromString("linear", os.Getenv("RAWFRAME_LINEAR"), &cfg.Linear)

	return nil
}
