package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bft-labs/rawframe/pkg/contrast"
	"github.com/bft-labs/rawframe/pkg/log"
	"github.com/bft-labs/rawframe/pkg/viewer"
	"github.com/bft-labs/rawframe/plugins/configwatcher"
)

// playback prints every displayed frame and signals done once limit frames
// have been shown. A zero limit plays until interrupted. Playback resumes at
// fps after a layout change, which pauses the session.
type playback struct {
	viewer.BaseEventHandler

	out     io.Writer
	limit   int
	fps     int
	session *viewer.Session

	mu      sync.Mutex
	started bool
	shown   int
	done    chan struct{}
}

func newPlayback(out io.Writer, limit, fps int) *playback {
	return &playback{out: out, limit: limit, fps: fps, done: make(chan struct{})}
}

func (p *playback) OnFrameChange(ev viewer.FrameChangeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.limit > 0 && p.shown >= p.limit {
		return
	}

	line := fmt.Sprintf("frame %d/%d", ev.Index, ev.Total)
	if p.session != nil {
		if grid, err := p.session.Frame(ev.Index); err == nil {
			st := contrast.StatsOf(grid)
			line += fmt.Sprintf("  min %d  max %d  mean %.3f", st.Min, st.Max, st.Mean)
		}
	}
	fmt.Fprintln(p.out, line)

	p.shown++
	if p.limit > 0 && p.shown == p.limit {
		close(p.done)
	}
}

func (p *playback) OnConfigChange(ev viewer.ConfigChangeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "layout %s (%d frames)\n", ev.Current, ev.Total)
	if p.session == nil || !p.started {
		return
	}
	if err := p.session.Play(p.fps); err != nil {
		fmt.Fprintf(p.out, "resume: %v\n", err)
	}
}

func (p *playback) OnSourceChange(ev viewer.SourceChangeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev.Err != nil {
		fmt.Fprintf(p.out, "opened %s: %v\n", ev.Path, ev.Err)
		return
	}
	fmt.Fprintf(p.out, "opened %s: %d bytes %s, %d frames\n", ev.Path, ev.Size, ev.Strategy, ev.Total)
}

func (a *app) playCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play FILE",
		Short: "Step through frames at a fixed rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd.OutOrStdout())
		},
	}
	a.playbackFlags(cmd)
	return cmd
}

func (a *app) watchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Play frames and apply layout file changes as they are saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Layout == "" {
				return fmt.Errorf("watch: --layout is required")
			}
			wcfg := configwatcher.DefaultConfig(a.cfg.Layout)
			wcfg.OnApply = func(err error) {
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "layout rejected: %v\n", err)
				}
			}
			return a.play(cmd.OutOrStdout(), configwatcher.WithLayoutWatcher(wcfg))
		},
	}
	a.playbackFlags(cmd)
	cmd.Flags().StringVar(&a.cfg.Layout, "layout", a.cfg.Layout, "layout TOML file to watch")
	return cmd
}

func (a *app) playbackFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&a.cfg.Frame, "index", a.cfg.Frame, "frame index to start from")
	cmd.Flags().IntVar(&a.cfg.FPS, "fps", a.cfg.FPS, "frames per second")
	cmd.Flags().IntVar(&a.cfg.Frames, "frames", a.cfg.Frames, "stop after this many frames (0 plays until interrupted)")
}

// play opens the file, starts plugins and advances frames until the frame
// limit is reached or a signal arrives.
func (a *app) play(out io.Writer, opts ...viewer.Option) error {
	pb := newPlayback(out, a.cfg.Frames, a.cfg.FPS)
	s, err := a.session(append(opts, viewer.WithEventHandler(pb))...)
	if err != nil {
		return err
	}
	defer s.Close()

	pb.mu.Lock()
	pb.session = s
	pb.mu.Unlock()

	if err := s.Open(a.cfg.File); err != nil {
		return err
	}
	if a.cfg.Frame > 0 {
		if err := s.Seek(a.cfg.Frame); err != nil {
			return err
		}
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	pb.mu.Lock()
	pb.started = true
	pb.mu.Unlock()
	if err := s.Play(a.cfg.FPS); err != nil {
		return err
	}
	a.logger.Info("playing", log.String("file", a.cfg.File), log.Int("fps", a.cfg.FPS), log.Int("frames", a.cfg.Frames))

	select {
	case <-sigCh:
		a.logger.Info("received signal, stopping...")
	case <-pb.done:
	}

	pb.mu.Lock()
	pb.started = false
	pb.mu.Unlock()
	s.Pause()
	return nil
}
