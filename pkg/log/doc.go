// Package log provides the structured logging abstraction used by rawframe.
//
// Library packages never log directly; they accept a [Logger] and default to
// [NoopLogger]. The zerolog adapter is what the CLI wires in:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//	s, err := viewer.New(cfg, viewer.WithLogger(logger))
//
// Any other logging library can be plugged in by implementing [Logger].
package log
