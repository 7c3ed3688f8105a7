//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package source

import (
	"errors"
	"os"
)

// Without mmap every file is buffered; StrategyFor never selects Mapped.
const mmapSupported = false

func mapFile(f *os.File, size int64) ([]byte, error) {
	return nil, errors.New("memory mapping is not supported on this platform")
}

func unmapFile(data []byte) error { return nil }
