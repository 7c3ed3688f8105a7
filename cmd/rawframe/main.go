package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/rawframe/internal/cliconfig"
	"github.com/bft-labs/rawframe/pkg/log"
	"github.com/bft-labs/rawframe/pkg/viewer"
)

const helpDescription = `
Inspect headerless binary files as sequences of grayscale frames.

Highlights:
  - Decodes 8 or 16 bit samples, signed or unsigned, either byte order.
  - Files of 100 MiB and more are memory mapped instead of read.
  - Percentile contrast stretch or full-range linear display.
  - Hex byte pattern search and hex dump of any frame.
  - Layout files are watched and applied while playing.

Configure via flags, RAWFRAME_* env, or $HOME/.rawframe/config.toml.
`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  rawframe info capture.raw --width 640 --height 512 --sample-bits 16
  rawframe frame capture.raw --index 12 --preview --bins 8
  rawframe search capture.raw "DE AD BE EF"
  rawframe watch capture.raw --layout capture.toml --fps 25
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// app carries the resolved configuration between cobra hooks and commands.
type app struct {
	cfg     cliconfig.Config
	cfgPath string
	logger  *log.ZerologAdapter
}

func main() {
	a := &app{
		cfg:    cliconfig.DefaultConfig(),
		logger: cliconfig.Logger(os.Stderr, "info"),
	}

	root := &cobra.Command{
		Use:           "rawframe",
		Short:         "Raw binary frame viewer",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	a.bindFlags(root.PersistentFlags())

	root.PersistentPreRunE = a.load

	root.AddCommand(
		a.infoCommand(),
		a.frameCommand(),
		a.hexdumpCommand(),
		a.searchCommand(),
		a.playCommand(),
		a.watchCommand(),
	)

	if err := root.Execute(); err != nil {
		a.logger.Error("rawframe", log.Err(err))
		os.Exit(1)
	}
}

// bindFlags registers the flags shared by every command.
func (a *app) bindFlags(pf *pflag.FlagSet) {
	pf.StringVar(&a.cfgPath, "config", "", "path to config file (default: $HOME/.rawframe/config.toml)")
	pf.IntVar(&a.cfg.Width, "width", a.cfg.Width, "frame width in pixels")
	pf.IntVar(&a.cfg.Height, "height", a.cfg.Height, "frame height in pixels")
	pf.IntVar(&a.cfg.SampleBits, "sample-bits", a.cfg.SampleBits, "bits per sample (8 or 16)")
	pf.BoolVar(&a.cfg.Signed, "signed", a.cfg.Signed, "samples are two's complement")
	pf.StringVar(&a.cfg.ByteOrder, "byte-order", a.cfg.ByteOrder, "sample byte order (little or big)")
	pf.Int64Var(&a.cfg.Offset, "offset", a.cfg.Offset, "bytes to skip at the start of the file")
	pf.Float64Var(&a.cfg.LowPercentile, "low", a.cfg.LowPercentile, "lower contrast percentile")
	pf.Float64Var(&a.cfg.HighPercentile, "high", a.cfg.HighPercentile, "upper contrast percentile")
	pf.BoolVar(&a.cfg.Linear, "linear", a.cfg.Linear, "map the full sample range instead of percentiles")
	pf.Int64Var(&a.cfg.MapThreshold, "map-threshold", a.cfg.MapThreshold, "file size from which the file is memory mapped")
	if err := pf.MarkHidden("map-threshold"); err != nil {
		a.logger.Info("failed to hide map-threshold flag", log.Err(err))
	}
	pf.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level (debug, info, warn, error, disabled)")
}

// load resolves the configuration for the file named by the first argument:
// defaults, then the config file, then RAWFRAME_* env, with explicitly set
// flags winning over both.
func (a *app) load(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		a.cfg.File = args[0]
	}

	cfgFile := a.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	// Build set of changed flags
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&a.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&a.cfg, changed); err != nil {
		return fmt.Errorf("env config: %w", err)
	}

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.logger = cliconfig.Logger(os.Stderr, a.cfg.LogLevel)
	a.logger.Debug("configuration", log.Any("config", a.cfg))
	return nil
}

// session builds a viewer session from the resolved configuration. The file
// is not opened.
func (a *app) session(opts ...viewer.Option) (*viewer.Session, error) {
	fc, err := a.cfg.FrameConfig()
	if err != nil {
		return nil, err
	}
	base := []viewer.Option{
		viewer.WithLogger(a.logger),
		viewer.WithMapThreshold(a.cfg.MapThreshold),
		viewer.WithContrast(a.cfg.Mapper()),
	}
	return viewer.New(fc, append(base, opts...)...)
}

// open builds a session and opens the configured file in it, positioned at
// the configured frame.
func (a *app) open(opts ...viewer.Option) (*viewer.Session, error) {
	s, err := a.session(opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Open(a.cfg.File); err != nil {
		s.Close()
		return nil, err
	}
	if a.cfg.Frame > 0 {
		if err := s.Seek(a.cfg.Frame); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}
