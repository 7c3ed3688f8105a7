package cliconfig

import (
	"testing"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"RAWFRAME_WIDTH":       "320",
				"RAWFRAME_HEIGHT":      "240",
				"RAWFRAME_SAMPLE_BITS": "16",
				"RAWFRAME_BYTE_ORDER":  "big",
				"RAWFRAME_SIGNED":      "true",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Width:      320,
				Height:     240,
				SampleBits: 16,
				ByteOrder:  "big",
				Signed:     true,
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"RAWFRAME_WIDTH":  "320",
				"RAWFRAME_HEIGHT": "240",
			},
			changed:  map[string]bool{"width": true},
			initial:  Config{Width: 64},
			expected: Config{Width: 64, Height: 240},
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"RAWFRAME_WIDTH": "wide"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int64",
			envVars: map[string]string{"RAWFRAME_OFFSET": "0x10"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid float",
			envVars: map[string]string{"RAWFRAME_LOW_PERCENTILE": "low"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:     "zero offset overrides",
			envVars:  map[string]string{"RAWFRAME_OFFSET": "0"},
			changed:  map[string]bool{},
			initial:  Config{Offset: 512},
			expected: Config{Offset: 0},
		},
		{
			name:     "negative width is kept for validation",
			envVars:  map[string]string{"RAWFRAME_WIDTH": "-1"},
			changed:  map[string]bool{},
			initial:  Config{Width: 640},
			expected: Config{Width: -1},
		},
		{
			name:     "handles bool '1' as true",
			envVars:  map[string]string{"RAWFRAME_LINEAR": "1"},
			changed:  map[string]bool{},
			expected: Config{Linear: true},
		},
		{
			name:     "handles bool 'false' as false",
			envVars:  map[string]string{"RAWFRAME_SIGNED": "false"},
			changed:  map[string]bool{},
			initial:  Config{Signed: true},
			expected: Config{Signed: false},
		},
		{
			name: "handles all field types correctly",
			envVars: map[string]string{
				"RAWFRAME_LAYOUT":          "/layouts/cam.toml",
				"RAWFRAME_WIDTH":           "8",
				"RAWFRAME_HEIGHT":          "4",
				"RAWFRAME_SAMPLE_BITS":     "8",
				"RAWFRAME_SIGNED":          "0",
				"RAWFRAME_BYTE_ORDER":      "le",
				"RAWFRAME_OFFSET":          "4096",
				"RAWFRAME_FPS":             "24",
				"RAWFRAME_LOW_PERCENTILE":  "0",
				"RAWFRAME_HIGH_PERCENTILE": "98.5",
				"RAWFRAME_LINEAR":          "true",
				"RAWFRAME_MAP_THRESHOLD":   "1024",
				"RAWFRAME_LOG_LEVEL":       "warn",
			},
			changed: map[string]bool{},
			initial: Config{LowPercentile: 0.1},
			expected: Config{
				Layout:         "/layouts/cam.toml",
				Width:          8,
				Height:         4,
				SampleBits:     8,
				ByteOrder:      "le",
				Offset:         4096,
				FPS:            24,
				HighPercentile: 98.5,
				Linear:         true,
				MapThreshold:   1024,
				LogLevel:       "warn",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestConfigPrecedence_ZeroOffsetFromEnv(t *testing.T) {
	fileOffset := int64(512)
	t.Setenv("RAWFRAME_OFFSET", "0")

	cfg := DefaultConfig()
	cfg.File = "/tmp/frames.raw"
	changed := map[string]bool{}
	if err := ApplyFileConfig(&cfg, FileConfig{Offset: &fileOffset}, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if cfg.Offset != 512 {
		t.Fatalf("Offset after file = %v, want 512", cfg.Offset)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}
	if cfg.Offset != 0 {
		t.Errorf("Offset = %v, want 0 (env should override file)", cfg.Offset)
	}
}

func TestApplyEnvConfig_NegativeWidthFailsValidation(t *testing.T) {
	t.Setenv("RAWFRAME_WIDTH", "-1")

	cfg := DefaultConfig()
	cfg.File = "/tmp/frames.raw"
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil for RAWFRAME_WIDTH=-1, want error")
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	trueVal := true

	// Setup file config
	fileConf := FileConfig{
		Width:  100,
		Height: 100,
		Signed: &trueVal,
	}

	// Setup env vars
	t.Setenv("RAWFRAME_WIDTH", "200")
	t.Setenv("RAWFRAME_HEIGHT", "200")
	t.Setenv("RAWFRAME_OFFSET", "64")

	// Simulate CLI flags
	changed := map[string]bool{
		"width": true,
	}

	cfg := Config{
		Width: 300, // This should remain (CLI wins)
	}

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.Width != 300 {
		t.Errorf("Width = %v, want 300 (CLI should win)", cfg.Width)
	}
	if cfg.Height != 200 {
		t.Errorf("Height = %v, want 200 (env should override file)", cfg.Height)
	}
	if cfg.Offset != 64 {
		t.Errorf("Offset = %v, want 64 (env should set)", cfg.Offset)
	}
	if !cfg.Signed {
		t.Errorf("Signed = %v, want true (file should set)", cfg.Signed)
	}
}
