//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package source

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const mmapSupported = true

// mapFile maps the whole file read-only. The caller keeps f open until the
// mapping is released.
func mapFile(f *os.File, size int64) ([]byte, error) {
	if int64(int(size)) != size {
		return nil, fmt.Errorf("file size %d exceeds address space", size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	// Frames are visited out of order when seeking. The hint is advisory.
	_ = unix.Madvise(data, unix.MADV_RANDOM)
	return data, nil
}

func unmapFile(data []byte) error {
	return unix.Munmap(data)
}
