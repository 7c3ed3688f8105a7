package cliconfig

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/bft-labs/rawframe/pkg/log"
)

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Logger returns a logger on f at level: human-readable console output when
// f is a terminal, JSON lines otherwise.
func Logger(f *os.File, level string) *log.ZerologAdapter {
	return log.NewZerologAdapter(f, IsTerminal(f), log.ParseLevel(level))
}
