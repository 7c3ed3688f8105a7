package main

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/rawframe/internal/cliconfig"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		x, y    int
		wantErr bool
	}{
		{in: "3,4", x: 3, y: 4},
		{in: " 10 , 0 ", x: 10, y: 0},
		{in: "3", wantErr: true},
		{in: "a,1", wantErr: true},
		{in: "1,b", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			x, y, err := parsePoint(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePoint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && (x != tt.x || y != tt.y) {
				t.Errorf("parsePoint(%q) = %d,%d, want %d,%d", tt.in, x, y, tt.x, tt.y)
			}
		})
	}
}

func TestWritePreview(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x >= 2 {
				img.Pix[y*img.Stride+x] = 255
			}
		}
	}

	var buf bytes.Buffer
	if err := writePreview(&buf, img, 80); err != nil {
		t.Fatalf("writePreview: %v", err)
	}
	if got, want := buf.String(), "  @@\n  @@\n"; got != want {
		t.Errorf("preview = %q, want %q", got, want)
	}

	buf.Reset()
	if err := writePreview(&buf, img, 2); err != nil {
		t.Fatalf("writePreview: %v", err)
	}
	if got, want := buf.String(), " @\n"; got != want {
		t.Errorf("narrow preview = %q, want %q", got, want)
	}
}

func TestWritePreview_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := writePreview(&buf, image.NewGray(image.Rectangle{}), 80); err != nil {
		t.Fatalf("writePreview: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("preview = %q, want empty", buf.String())
	}
}

func TestPlayback_StopsAtLimit(t *testing.T) {
	var buf bytes.Buffer
	dir := t.TempDir()
	path := filepath.Join(dir, "frames.raw")
	data := make([]byte, 4*4*3)
	for i := range data {
		data[i] = byte(i)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := cliconfig.DefaultConfig()
	cfg.File = path
	cfg.Width, cfg.Height = 4, 4
	cfg.FPS = 200
	cfg.Frames = 4
	cfg.LogLevel = "disabled"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	a := &app{cfg: cfg, logger: cliconfig.Logger(os.Stderr, cfg.LogLevel)}

	if err := a.play(&buf); err != nil {
		t.Fatalf("play: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("output = %q, want source line and 4 frames", buf.String())
	}
	if !strings.HasPrefix(lines[0], "opened "+path) {
		t.Errorf("first line = %q", lines[0])
	}
	for i, want := range []string{"frame 0/3", "frame 1/3", "frame 2/3", "frame 0/3"} {
		if !strings.HasPrefix(lines[i+1], want) {
			t.Errorf("line %d = %q, want prefix %q", i+1, lines[i+1], want)
		}
	}
}

func TestSampleBitsHelpMatchesValidation(t *testing.T) {
	a := &app{cfg: cliconfig.DefaultConfig(), logger: cliconfig.Logger(os.Stderr, "disabled")}
	a.cfg.File = "capture.raw"
	fs := pflag.NewFlagSet("rawframe", pflag.ContinueOnError)
	a.bindFlags(fs)

	usage := fs.Lookup("sample-bits").Usage
	if strings.Contains(usage, "32") || strings.Contains(longHelp, "32 bit") {
		t.Fatalf("help advertises 32 bit samples: %q", usage)
	}
	for _, bits := range []string{"8", "16", "32"} {
		if err := fs.Parse([]string{"--width", "4", "--height", "4", "--sample-bits", bits}); err != nil {
			t.Fatalf("Parse(%s) error = %v", bits, err)
		}
		err := a.cfg.Validate()
		if want := bits != "32"; (err == nil) != want {
			t.Errorf("Validate() with %s bit samples error = %v", bits, err)
		}
	}
}
