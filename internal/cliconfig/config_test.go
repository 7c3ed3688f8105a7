package cliconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bft-labs/rawframe/internal/domain"
	"github.com/bft-labs/rawframe/pkg/contrast"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width != 640 || cfg.Height != 512 {
		t.Errorf("size = %dx%d, want 640x512", cfg.Width, cfg.Height)
	}
	if cfg.SampleBits != 8 {
		t.Errorf("SampleBits = %v, want 8", cfg.SampleBits)
	}
	if cfg.ByteOrder != "little" {
		t.Errorf("ByteOrder = %v, want little", cfg.ByteOrder)
	}
	if cfg.FPS != 10 {
		t.Errorf("FPS = %v, want 10", cfg.FPS)
	}
	if cfg.LowPercentile != 0.1 || cfg.HighPercentile != 99.9 {
		t.Errorf("percentiles = %v..%v, want 0.1..99.9", cfg.LowPercentile, cfg.HighPercentile)
	}
	if cfg.MapThreshold != 100<<20 {
		t.Errorf("MapThreshold = %v, want 100MiB", cfg.MapThreshold)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.File = "/tmp/frames.raw"
		return cfg
	}

	tests := []struct {
		name          string
		mutate        func(*Config)
		wantErr       bool
		wantByteOrder string
	}{
		{name: "defaults with file", mutate: func(c *Config) {}, wantByteOrder: "little"},
		{name: "normalises byte order", mutate: func(c *Config) { c.ByteOrder = " BE " }, wantByteOrder: "big"},
		{name: "missing file", mutate: func(c *Config) { c.File = "" }, wantErr: true},
		{name: "bad byte order", mutate: func(c *Config) { c.ByteOrder = "middle" }, wantErr: true},
		{name: "zero width", mutate: func(c *Config) { c.Width = 0 }, wantErr: true},
		{name: "bad sample bits", mutate: func(c *Config) { c.SampleBits = 12 }, wantErr: true},
		{name: "32 bit samples", mutate: func(c *Config) { c.SampleBits = 32 }, wantErr: true},
		{name: "negative offset", mutate: func(c *Config) { c.Offset = -4 }, wantErr: true},
		{name: "negative frame", mutate: func(c *Config) { c.Frame = -1 }, wantErr: true},
		{name: "zero fps", mutate: func(c *Config) { c.FPS = 0 }, wantErr: true},
		{name: "negative frames", mutate: func(c *Config) { c.Frames = -1 }, wantErr: true},
		{name: "inverted percentiles", mutate: func(c *Config) { c.LowPercentile, c.HighPercentile = 90, 10 }, wantErr: true},
		{name: "zero threshold", mutate: func(c *Config) { c.MapThreshold = 0 }, wantErr: true},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "log level case", mutate: func(c *Config) { c.LogLevel = "DEBUG" }, wantByteOrder: "little"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.ByteOrder != tt.wantByteOrder {
				t.Errorf("ByteOrder = %v, want %v", cfg.ByteOrder, tt.wantByteOrder)
			}
		})
	}
}

func TestConfig_FrameConfigAndMapper(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.SampleBits = 4, 2, 16
	cfg.Signed = true
	cfg.ByteOrder = "big"
	cfg.Offset = 8
	cfg.Linear = true

	fc, err := cfg.FrameConfig()
	if err != nil {
		t.Fatalf("FrameConfig() error: %v", err)
	}
	want := domain.FrameConfig{Width: 4, Height: 2, SampleBits: 16, Signed: true, ByteOrder: domain.BigEndian, Offset: 8}
	if fc != want {
		t.Errorf("FrameConfig() = %v, want %v", fc, want)
	}

	m := cfg.Mapper()
	if m.Mode != contrast.Linear || m.Low != 0.1 || m.High != 99.9 {
		t.Errorf("Mapper() = %+v", m)
	}

	cfg.SampleBits = 9
	if _, err := cfg.FrameConfig(); !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Errorf("FrameConfig() error = %v, want InvalidConfiguration", err)
	}
}

func TestLogger_NonTerminalWritesJSON(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "log.jsonl"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	if IsTerminal(f) {
		t.Fatal("IsTerminal(regular file) = true")
	}
	logger := Logger(f, "warn")
	logger.Info("hidden")
	logger.Warn("shown")

	b, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(b)
	if want := `"message":"shown"`; !strings.Contains(out, want) {
		t.Errorf("log output %q missing %s", out, want)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("log output %q contains filtered message", out)
	}
}
