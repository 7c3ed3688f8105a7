package domain

// SampleKind tags a decoded grid with its numeric interpretation.
type SampleKind int

const (
	Unsigned8 SampleKind = iota
	Unsigned16
	Signed16
)

// String returns "u8", "u16" or "s16".
func (k SampleKind) String() string {
	switch k {
	case Unsigned8:
		return "u8"
	case Unsigned16:
		return "u16"
	case Signed16:
		return "s16"
	default:
		return "unknown"
	}
}

// Bits is the declared sample width.
func (k SampleKind) Bits() int {
	if k == Unsigned8 {
		return 8
	}
	return 16
}

// Range returns the full declared numeric range of the kind.
func (k SampleKind) Range() (lo, hi int32) {
	switch k {
	case Unsigned16:
		return 0, 65535
	case Signed16:
		return -32768, 32767
	default:
		return 0, 255
	}
}

// Grid is an immutable height x width array of decoded samples in row-major
// order. Every kind fits in an int32, so storage is shared across variants.
type Grid struct {
	kind    SampleKind
	width   int
	height  int
	samples []int32
}

// NewGrid builds a grid from row-major samples. It fails with ShapeMismatch
// when len(samples) != width*height.
func NewGrid(kind SampleKind, width, height int, samples []int32) (Grid, error) {
	if width < 0 || height < 0 || len(samples) != width*height {
		return Grid{}, Errorf(KindShapeMismatch, "reshape", "cannot reshape samples into %dx%d", height, width).
			With("samples", int64(len(samples))).
			With("expected", int64(width)*int64(height))
	}
	return Grid{kind: kind, width: width, height: height, samples: samples}, nil
}

func (g Grid) Kind() SampleKind { return g.kind }
func (g Grid) Width() int        { return g.width }
func (g Grid) Height() int       { return g.height }
func (g Grid) Len() int          { return len(g.samples) }

// Empty reports whether the grid holds no samples.
func (g Grid) Empty() bool { return len(g.samples) == 0 }

// At returns the sample at column x, row y. It panics when out of range,
// like a slice index.
func (g Grid) At(x, y int) int32 {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic("domain: grid index out of range")
	}
	return g.samples[y*g.width+x]
}

// Contains reports whether (x, y) addresses a sample.
func (g Grid) Contains(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Row returns a copy of row y.
func (g Grid) Row(y int) []int32 {
	out := make([]int32, g.width)
	copy(out, g.samples[y*g.width:(y+1)*g.width])
	return out
}

// Rows returns a copy of the grid as nested slices.
func (g Grid) Rows() [][]int32 {
	out := make([][]int32, g.height)
	for y := range out {
		out[y] = g.Row(y)
	}
	return out
}

// Each calls fn for every sample in row-major order.
func (g Grid) Each(fn func(i int, v int32)) {
	for i, v := range g.samples {
		fn(i, v)
	}
}

// Values returns a copy of the flat sample sequence.
func (g Grid) Values() []int32 {
	out := make([]int32, len(g.samples))
	copy(out, g.samples)
	return out
}
