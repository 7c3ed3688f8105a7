package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bft-labs/rawframe/internal/domain"
	"github.com/bft-labs/rawframe/pkg/contrast"
	"github.com/bft-labs/rawframe/pkg/log"
	"github.com/bft-labs/rawframe/pkg/search"
	"github.com/bft-labs/rawframe/pkg/source"
)

func (a *app) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Show file size, layout and frame count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()

			sum, err := s.Summary()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			access := "read"
			if sum.Mapped() {
				access = "mapped"
			}
			fmt.Fprintf(out, "file      %s\n", sum.Path)
			fmt.Fprintf(out, "size      %d bytes (%s)\n", sum.Size, access)
			fmt.Fprintf(out, "layout    %s\n", sum.Config)
			fmt.Fprintf(out, "frame     %d bytes\n", sum.FrameSize)
			fmt.Fprintf(out, "frames    %d\n", sum.Frames)
			if rest := sum.Size - sum.Config.Offset - int64(sum.Frames)*sum.FrameSize; rest > 0 {
				fmt.Fprintf(out, "trailing  %d bytes\n", rest)
			}
			return nil
		},
	}
}

func (a *app) frameCommand() *cobra.Command {
	var (
		preview bool
		at      string
		bins    int
	)
	cmd := &cobra.Command{
		Use:   "frame FILE",
		Short: "Decode one frame and print its statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()

			grid, idx, err := s.Current()
			if err != nil {
				return err
			}
			sum, err := s.Summary()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			st := contrast.StatsOf(grid)
			fmt.Fprintf(out, "frame %d/%d  %dx%d %s\n", idx, sum.Frames, grid.Width(), grid.Height(), grid.Kind())
			fmt.Fprintf(out, "min %d  max %d  mean %.3f  std %.3f\n", st.Min, st.Max, st.Mean, st.Std)

			if at != "" {
				x, y, err := parsePoint(at)
				if err != nil {
					return err
				}
				if !grid.Contains(x, y) {
					return domain.Errorf(domain.KindIndexOutOfRange, "probe", "pixel (%d, %d) is outside the %dx%d frame", x, y, grid.Width(), grid.Height()).
						With("x", int64(x)).
						With("y", int64(y))
				}
				fmt.Fprintf(out, "pixel (%d, %d) = %d\n", x, y, grid.At(x, y))
			}

			if bins > 0 {
				h, err := contrast.HistogramOf(grid, bins)
				if err != nil {
					return err
				}
				for i, n := range h.Counts {
					fmt.Fprintf(out, "[%12.3f, %12.3f%s %d\n", h.Edges[i], h.Edges[i+1], closing(i, len(h.Counts)), n)
				}
			}

			if preview {
				return writePreview(out, s.Display(grid), terminalWidth())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&a.cfg.Frame, "index", a.cfg.Frame, "frame index to decode")
	cmd.Flags().BoolVar(&preview, "preview", false, "print an ASCII preview of the displayed frame")
	cmd.Flags().StringVar(&at, "at", "", "print the sample at x,y")
	cmd.Flags().IntVar(&bins, "bins", 0, "print a histogram with this many bins")
	return cmd
}

func closing(i, n int) string {
	if i == n-1 {
		return "]"
	}
	return ")"
}

func parsePoint(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("point %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, fmt.Errorf("point %q: %w", s, err)
	}
	return x, y, nil
}

func (a *app) hexdumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hexdump FILE",
		Short: "Hex dump the raw bytes of one frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()

			w, err := s.HexWindow()
			if err != nil {
				return err
			}
			return w.Dump(cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&a.cfg.Frame, "index", a.cfg.Frame, "frame index to dump")
	return cmd
}

func (a *app) searchCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search FILE PATTERN",
		Short: "Find every offset of a hex byte pattern",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Search needs the bytes, not a layout that fits them.
			src, err := source.OpenWithThreshold(a.cfg.File, a.cfg.MapThreshold)
			if err != nil {
				return err
			}
			defer src.Close()

			res, err := search.Locate(src, args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !res.Found() {
				fmt.Fprintln(out, "no matches")
				return nil
			}
			fmt.Fprintf(out, "%d matches, first at 0x%08X (line %d)\n", res.Count(), res.First, res.Line())
			for i, off := range res.Offsets {
				if limit > 0 && i == limit {
					fmt.Fprintf(out, "... %d more\n", res.Count()-limit)
					break
				}
				fmt.Fprintf(out, "0x%08X  %d\n", off, off)
			}
			a.logger.Debug("search finished",
				log.String("pattern", args[1]), log.Int("matches", res.Count()), log.Stringer("strategy", src.Strategy()))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum offsets to print (0 for all)")
	return cmd
}
