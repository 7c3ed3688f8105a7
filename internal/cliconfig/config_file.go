package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML keys. Pointers mark values where zero
// or false is a meaningful setting.
type FileConfig struct {
	Layout         string   `toml:"layout"`
	Width          int      `toml:"width"`
	Height         int      `toml:"height"`
	SampleBits     int      `toml:"sample_bits"`
	Signed         *bool    `toml:"signed"`
	ByteOrder      string   `toml:"byte_order"`
	Offset         *int64   `toml:"offset"`
	FPS            int      `toml:"fps"`
	LowPercentile  *float64 `toml:"low_percentile"`
	HighPercentile *float64 `toml:"high_percentile"`
	Linear         *bool    `toml:"linear"`
	MapThreshold   int64    `toml:"map_threshold"`
	LogLevel       string   `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.rawframe/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".rawframe", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("layout", fc.Layout, &cfg.Layout)
	s.setString("byte-order", fc.ByteOrder, &cfg.ByteOrder)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("width", fc.Width, &cfg.Width)
	s.setInt("height", fc.Height, &cfg.Height)
	s.setInt("sample-bits", fc.SampleBits, &cfg.SampleBits)
	s.setInt("fps", fc.FPS, &cfg.FPS)

	s.setInt64Ptr("offset", fc.Offset, &cfg.Offset)
	s.setInt64("map-threshold", fc.MapThreshold, &cfg.MapThreshold)

	s.setFloat("low", fc.LowPercentile, &cfg.LowPercentile)
	s.setFloat("high", fc.HighPercentile, &cfg.HighPercentile)

	s.setBool("signed", fc.Signed, &cfg.Signed)
	s.setBool("linear", fc.Linear, &cfg.Linear)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
