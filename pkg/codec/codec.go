package codec

import (
	"encoding/binary"

	"github.com/bft-labs/rawframe/internal/domain"
)

// ByteRange is the minimal view Decode needs. *source.Source satisfies it.
type ByteRange interface {
	Len() int64
	View(start, end int64, fn func([]byte) error) error
}

// FrameSize returns width*height*bytesPerSample. It does not validate cfg.
func FrameSize(cfg domain.FrameConfig) int64 {
	return int64(cfg.Width) * int64(cfg.Height) * int64(cfg.BytesPerSample())
}

// TotalFrames returns floor(max(0, length-offset) / frameSize), the number of
// complete frames after the offset. It returns 0 for an empty frame size.
func TotalFrames(cfg domain.FrameConfig, length int64) int64 {
	size := FrameSize(cfg)
	if size <= 0 {
		return 0
	}
	avail := length - cfg.Offset
	if avail <= 0 {
		return 0
	}
	return avail / size
}

// FrameBounds returns the absolute [start, end) of frame index.
func FrameBounds(cfg domain.FrameConfig, index int64) (start, end int64) {
	size := FrameSize(cfg)
	start = cfg.Offset + index*size
	return start, start + size
}

// ValidateParameters checks cfg, then that the offset lies inside the file,
// then that at least one full frame fits after it.
func ValidateParameters(cfg domain.FrameConfig, length int64) error {
	const op = "validate parameters"
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Offset >= length {
		return domain.Errorf(domain.KindOffsetExceedsFileSize, op,
			"offset %d is beyond file size %d", cfg.Offset, length).
			With("offset", cfg.Offset).
			With("file_size", length)
	}
	size := FrameSize(cfg)
	avail := length - cfg.Offset
	if avail < size {
		return domain.Errorf(domain.KindFileTooSmallForOneFrame, op,
			"one frame needs %d bytes but only %d are available", size, avail).
			With("required", size).
			With("available", avail)
	}
	return nil
}

// Decode reads frame index from src and returns its samples as a grid.
// It has no side effects and may run concurrently for different indices.
func Decode(cfg domain.FrameConfig, src ByteRange, index int64) (domain.Grid, error) {
	const op = "decode"
	if err := cfg.Validate(); err != nil {
		return domain.Grid{}, err
	}

	length := src.Len()
	total := TotalFrames(cfg, length)
	if index < 0 || index >= total {
		return domain.Grid{}, domain.Errorf(domain.KindFrameIndexOutOfRange, op,
			"frame %d outside [0, %d)", index, total).
			With("index", index).
			With("total", total)
	}

	start, end := FrameBounds(cfg, index)
	if end > length {
		return domain.Grid{}, domain.Errorf(domain.KindInsufficientData, op,
			"frame ends at %d but source has %d bytes", end, length).
			With("required", end).
			With("available", length)
	}

	var samples []int32
	err := src.View(start, end, func(b []byte) error {
		samples = unpack(cfg, b)
		return nil
	})
	if err != nil {
		return domain.Grid{}, err
	}
	return domain.NewGrid(cfg.Kind(), cfg.Width, cfg.Height, samples)
}

// unpack converts raw frame bytes into samples per cfg's kind and byte order.
func unpack(cfg domain.FrameConfig, b []byte) []int32 {
	if cfg.SampleBits == 8 {
		out := make([]int32, len(b))
		for i, v := range b {
			out[i] = int32(v)
		}
		return out
	}

	var order binary.ByteOrder = binary.LittleEndian
	if cfg.ByteOrder == domain.BigEndian {
		order = binary.BigEndian
	}
	out := make([]int32, len(b)/2)
	for i := range out {
		u := order.Uint16(b[2*i:])
		if cfg.Signed {
			out[i] = int32(int16(u))
		} else {
			out[i] = int32(u)
		}
	}
	return out
}
