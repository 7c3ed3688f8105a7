package source

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/bft-labs/rawframe/internal/domain"
)

// DefaultMapThreshold is the file size at and above which a file is memory
// mapped instead of read into an owned buffer.
const DefaultMapThreshold int64 = 100 << 20

// Strategy is how a Source holds the file's bytes.
type Strategy int

const (
	Buffered Strategy = iota
	Mapped
)

// String returns "buffered" or "mapped".
func (s Strategy) String() string {
	if s == Mapped {
		return "mapped"
	}
	return "buffered"
}

// StrategyFor returns the strategy Open picks for a file of the given size.
// A threshold <= 0 selects DefaultMapThreshold.
func StrategyFor(size, threshold int64) Strategy {
	if threshold <= 0 {
		threshold = DefaultMapThreshold
	}
	if size >= threshold && mmapSupported {
		return Mapped
	}
	return Buffered
}

// Source is a read-only view over one file's bytes. Reads may run
// concurrently; Close waits for in-flight reads before releasing the bytes.
type Source struct {
	mu       sync.RWMutex
	path     string
	size     int64
	strategy Strategy
	data     []byte
	file     *os.File // held open for the lifetime of a mapping
	closed   bool
}

// Open opens path with DefaultMapThreshold.
func Open(path string) (*Source, error) {
	return OpenWithThreshold(path, DefaultMapThreshold)
}

// OpenWithThreshold opens path, mapping it when its size is at or above
// threshold and buffering it otherwise.
func OpenWithThreshold(path string, threshold int64) (*Source, error) {
	info, err := probe(path)
	if err != nil {
		return nil, err
	}
	return openProbed(path, info.Size(), StrategyFor(info.Size(), threshold))
}

// probe classifies path without acquiring anything.
func probe(path string) (fs.FileInfo, error) {
	const op = "open"
	if path == "" {
		return nil, domain.Errorf(domain.KindNotFound, op, "empty path")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, classify(op, path, err)
	}
	if info.IsDir() || !info.Mode().IsRegular() {
		return nil, domain.Errorf(domain.KindNotAFile, op, "%s is not a regular file", path)
	}
	if info.Size() == 0 {
		return nil, domain.Errorf(domain.KindEmptyFile, op, "%s is empty", path)
	}
	return info, nil
}

func openProbed(path string, size int64, strategy Strategy) (*Source, error) {
	const op = "open"
	f, err := os.Open(path)
	if err != nil {
		return nil, classify(op, path, err)
	}

	s := &Source{path: path, size: size, strategy: strategy}
	switch strategy {
	case Mapped:
		data, err := mapFile(f, size)
		if err != nil {
			f.Close()
			return nil, domain.Errorf(domain.KindIO, op, "memory map %s", path).Wrap(err)
		}
		s.data = data
		s.file = f
	default:
		data := make([]byte, size)
		_, err := io.ReadFull(f, data)
		f.Close()
		if err != nil {
			return nil, domain.Errorf(domain.KindIO, op, "read %s", path).Wrap(err)
		}
		s.data = data
	}
	return s, nil
}

func classify(op, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return domain.Errorf(domain.KindNotFound, op, "%s does not exist", path).Wrap(err)
	case errors.Is(err, fs.ErrPermission):
		return domain.Errorf(domain.KindPermissionDenied, op, "cannot read %s", path).Wrap(err)
	default:
		return domain.Errorf(domain.KindIO, op, "%s", path).Wrap(err)
	}
}

// Path returns the path the source was opened from.
func (s *Source) Path() string { return s.path }

// Len returns the total number of bytes.
func (s *Source) Len() int64 { return s.size }

// Strategy returns the backing strategy chosen at open time.
func (s *Source) Strategy() Strategy { return s.strategy }

// Mapped reports whether the source is memory mapped.
func (s *Source) Mapped() bool { return s.strategy == Mapped }

// Read returns a copy of bytes [start, end). The copy stays valid after Close.
func (s *Source) Read(start, end int64) ([]byte, error) {
	var out []byte
	err := s.View(start, end, func(b []byte) error {
		out = make([]byte, len(b))
		copy(out, b)
		return nil
	})
	return out, err
}

// View calls fn with bytes [start, end) without copying. The slice must not
// be retained after fn returns: for mapped sources it aliases the mapping.
func (s *Source) View(start, end int64, fn func([]byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return domain.Errorf(domain.KindClosed, "read", "%s is closed", s.path)
	}
	if start < 0 || end < start || end > s.size {
		return domain.Errorf(domain.KindOutOfBounds, "read", "range [%d, %d) outside source", start, end).
			With("start", start).
			With("end", end).
			With("length", s.size)
	}
	return fn(s.data[start:end])
}

// Close releases the buffer or mapping. It is safe to call more than once.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.strategy == Mapped && s.data != nil {
		if err := unmapFile(s.data); err != nil {
			errs = append(errs, err)
		}
	}
	s.data = nil
	if s.file != nil {
		if err := s.file.Close(); err != nil {
			errs = append(errs, err)
		}
		s.file = nil
	}
	if len(errs) > 0 {
		return domain.Errorf(domain.KindIO, "close", "%s", s.path).Wrap(errors.Join(errs...))
	}
	return nil
}
