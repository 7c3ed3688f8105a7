package source

import (
	"sync"

	"github.com/bft-labs/rawframe/pkg/log"
)

// Loader owns at most one live Source. Loading a new path releases the
// previous source before the new one is acquired.
type Loader struct {
	mu        sync.Mutex
	threshold int64
	current   *Source
	logger    log.Logger
}

// NewLoader creates a loader. A threshold <= 0 selects DefaultMapThreshold.
func NewLoader(threshold int64, logger log.Logger) *Loader {
	if threshold <= 0 {
		threshold = DefaultMapThreshold
	}
	return &Loader{threshold: threshold, logger: log.OrNoop(logger)}
}

// Threshold returns the map threshold in bytes.
func (l *Loader) Threshold() int64 { return l.threshold }

// Load opens path and makes it the live source. Path problems (missing,
// directory, empty, unreadable) are reported before the previous source is
// touched; once acquisition starts the previous source is already closed.
func (l *Loader) Load(path string) (*Source, error) {
	info, err := probe(path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current != nil {
		prev := l.current
		l.current = nil
		if err := prev.Close(); err != nil {
			l.logger.Warn("close previous source", log.String("path", prev.Path()), log.Err(err))
		}
	}

	strategy := StrategyFor(info.Size(), l.threshold)
	src, err := openProbed(path, info.Size(), strategy)
	if err != nil {
		return nil, err
	}
	l.current = src

	l.logger.Info("source opened",
		log.String("path", path),
		log.Int64("size", src.Len()),
		log.Stringer("strategy", src.Strategy()),
	)
	return src, nil
}

// Current returns the live source, or nil.
func (l *Loader) Current() *Source {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Close releases the live source, if any.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return nil
	}
	src := l.current
	l.current = nil
	l.logger.Info("source closed", log.String("path", src.Path()))
	return src.Close()
}
