package configwatcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/rawframe/internal/domain"
	"github.com/bft-labs/rawframe/pkg/viewer"
)

// fakeHost records reconfigurations.
type fakeHost struct {
	mu      sync.Mutex
	cfg     domain.FrameConfig
	applied []domain.FrameConfig
	reject  error
}

func (h *fakeHost) Config() domain.FrameConfig {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cfg
}

func (h *fakeHost) Reconfigure(cfg domain.FrameConfig) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.reject != nil {
		return h.reject
	}
	h.cfg = cfg
	h.applied = append(h.applied, cfg)
	return nil
}

func (h *fakeHost) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.applied)
}

func writeLayout(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write layout: %v", err)
	}
}

func waitApply(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for layout apply")
		return nil
	}
}

func TestLayout_Apply(t *testing.T) {
	base := domain.DefaultFrameConfig()
	path := filepath.Join(t.TempDir(), "layout.toml")
	writeLayout(t, path, `
width = 4
sample_bits = 16
byte_order = "BE"
offset = 12
`)

	l, err := LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout failed: %v", err)
	}
	got, err := l.Apply(base)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := domain.FrameConfig{Width: 4, Height: base.Height, SampleBits: 16, ByteOrder: domain.BigEndian, Offset: 12}
	if got != want {
		t.Errorf("Apply() = %v, want %v", got, want)
	}
}

func TestLayout_ApplyRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad sample bits", "sample_bits = 12"},
		{"bad byte order", `byte_order = "middle"`},
		{"negative offset", "offset = -1"},
	}
	base := domain.DefaultFrameConfig()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "layout.toml")
			writeLayout(t, path, tt.body)
			l, err := LoadLayout(path)
			if err != nil {
				t.Fatalf("LoadLayout failed: %v", err)
			}
			got, err := l.Apply(base)
			if !errors.Is(err, domain.ErrInvalidConfiguration) {
				t.Errorf("Apply() error = %v, want InvalidConfiguration", err)
			}
			if got != base {
				t.Errorf("Apply() = %v, want base %v", got, base)
			}
		})
	}
}

func TestLoadLayout_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadLayout(filepath.Join(dir, "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadLayout(missing) error = %v, want not exist", err)
	}
	path := filepath.Join(dir, "broken.toml")
	writeLayout(t, path, "width = = 3")
	if _, err := LoadLayout(path); err == nil {
		t.Error("LoadLayout(broken) error = nil")
	}
}

func TestPlugin_AppliesOnStartAndChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.toml")
	writeLayout(t, path, "width = 8\nheight = 8\n")

	applied := make(chan error, 8)
	host := &fakeHost{cfg: domain.DefaultFrameConfig()}
	plugin := New(Config{
		Path:          path,
		DebounceDelay: 50 * time.Millisecond,
		ApplyOnStart:  true,
		OnApply:       func(err error) { applied <- err },
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := plugin.Initialize(ctx, viewer.PluginConfig{Host: host}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer plugin.Shutdown(ctx)

	if err := waitApply(t, applied); err != nil {
		t.Fatalf("initial apply error: %v", err)
	}
	if got := host.Config(); got.Width != 8 || got.Height != 8 {
		t.Errorf("Config() = %v, want 8x8", got)
	}

	writeLayout(t, path, "width = 16\nheight = 2\n")
	if err := waitApply(t, applied); err != nil {
		t.Fatalf("reload apply error: %v", err)
	}
	if got := host.Config(); got.Width != 16 || got.Height != 2 {
		t.Errorf("Config() = %v, want 16x2", got)
	}
}

func TestPlugin_RejectedLayoutKeepsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.toml")
	writeLayout(t, path, "width = 8\n")

	applied := make(chan error, 8)
	reject := domain.Errorf(domain.KindFileTooSmallForOneFrame, "validate parameters", "too small")
	host := &fakeHost{cfg: domain.DefaultFrameConfig(), reject: reject}
	plugin := New(Config{
		Path:          path,
		DebounceDelay: 50 * time.Millisecond,
		ApplyOnStart:  true,
		OnApply:       func(err error) { applied <- err },
	})

	ctx := context.Background()
	if err := plugin.Initialize(ctx, viewer.PluginConfig{Host: host}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer plugin.Shutdown(ctx)

	if err := waitApply(t, applied); !errors.Is(err, domain.ErrFileTooSmallForOneFrame) {
		t.Errorf("apply error = %v, want FileTooSmallForOneFrame", err)
	}
	if host.Config() != domain.DefaultFrameConfig() {
		t.Errorf("Config() = %v, want default", host.Config())
	}
}

func TestPlugin_UnchangedLayoutSkipsReconfigure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.toml")
	writeLayout(t, path, "width = 640\nheight = 512\n")

	applied := make(chan error, 8)
	host := &fakeHost{cfg: domain.DefaultFrameConfig()}
	plugin := New(Config{Path: path, ApplyOnStart: true, OnApply: func(err error) { applied <- err }})

	ctx := context.Background()
	if err := plugin.Initialize(ctx, viewer.PluginConfig{Host: host}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer plugin.Shutdown(ctx)

	if err := waitApply(t, applied); err != nil {
		t.Fatalf("apply error: %v", err)
	}
	if host.count() != 0 {
		t.Errorf("Reconfigure called %d times, want 0", host.count())
	}
}

func TestPlugin_Name(t *testing.T) {
	plugin := New(DefaultConfig("layout.toml"))
	if plugin.Name() != "configwatcher" {
		t.Errorf("Name() = %v, want configwatcher", plugin.Name())
	}
}

func TestPlugin_DisabledWithoutPath(t *testing.T) {
	host := &fakeHost{cfg: domain.DefaultFrameConfig()}
	plugin := New(Config{})

	ctx := context.Background()
	if err := plugin.Initialize(ctx, viewer.PluginConfig{Host: host}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := plugin.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
	if host.count() != 0 {
		t.Errorf("Reconfigure called %d times, want 0", host.count())
	}
}

func TestPlugin_WithSession(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "frames.raw")
	if err := os.WriteFile(data, make([]byte, 64), 0644); err != nil {
		t.Fatalf("Failed to write data: %v", err)
	}
	layout := filepath.Join(dir, "frames.toml")
	writeLayout(t, layout, "width = 4\nheight = 4\n")

	applied := make(chan error, 8)
	s, err := viewer.New(domain.FrameConfig{Width: 2, Height: 2, SampleBits: 8},
		WithLayoutWatcher(Config{
			Path:          layout,
			DebounceDelay: 50 * time.Millisecond,
			ApplyOnStart:  true,
			OnApply:       func(err error) { applied <- err },
		}),
	)
	if err != nil {
		t.Fatalf("viewer.New failed: %v", err)
	}
	defer s.Close()

	if err := s.Open(data); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := waitApply(t, applied); err != nil {
		t.Fatalf("apply error: %v", err)
	}

	sum, err := s.Summary()
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if sum.Frames != 4 {
		t.Errorf("Frames = %d, want 4", sum.Frames)
	}

	// 128 bytes per frame does not fit a 64-byte file.
	writeLayout(t, layout, "width = 16\nheight = 8\n")
	if err := waitApply(t, applied); !errors.Is(err, domain.ErrFileTooSmallForOneFrame) {
		t.Errorf("apply error = %v, want FileTooSmallForOneFrame", err)
	}
	if got := s.Config(); got.Width != 4 || got.Height != 4 {
		t.Errorf("Config() = %v, want 4x4 kept", got)
	}
}
