// Package codec decodes fixed-geometry grayscale frames out of flat binary
// data.
//
// A file is a leading skip of Offset bytes followed by back-to-back frames of
// Width*Height samples, each one byte (unsigned) or two bytes (unsigned or
// two's-complement, little or big endian). Trailing bytes that do not make up
// a whole frame are ignored.
//
//	cfg := domain.FrameConfig{Width: 640, Height: 512, SampleBits: 16, ByteOrder: domain.BigEndian}
//	if err := codec.ValidateParameters(cfg, src.Len()); err != nil {
//	    return err
//	}
//	grid, err := codec.Decode(cfg, src, 3)
//
// [FrameSize] and [TotalFrames] are the same arithmetic Decode uses, exposed
// for bounds display.
package codec
