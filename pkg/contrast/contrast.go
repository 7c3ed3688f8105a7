package contrast

import (
	"image"
	"math"
	"sort"

	"github.com/bft-labs/rawframe/internal/domain"
)

// Default percentile bounds for Stretch.
const (
	DefaultLow  = 0.1
	DefaultHigh = 99.9
)

// Mid is the output level for a constant grid.
const Mid = 128

// flatEpsilon is the smallest vmax-vmin treated as a real range.
const flatEpsilon = 1e-10

// Mode selects how samples are mapped onto 0..255.
type Mode int

const (
	// Percentile stretches [P(low), P(high)] onto the display range.
	Percentile Mode = iota
	// Linear maps the full declared range of the sample kind.
	Linear
)

func (m Mode) String() string {
	if m == Linear {
		return "linear"
	}
	return "percentile"
}

// Mapper holds a mapping mode and its percentile bounds.
type Mapper struct {
	Mode Mode
	Low  float64
	High float64
}

// DefaultMapper returns a percentile mapper over 0.1..99.9.
func DefaultMapper() Mapper {
	return Mapper{Mode: Percentile, Low: DefaultLow, High: DefaultHigh}
}

// ModeFor returns Linear when linear is set, Percentile otherwise.
func ModeFor(linear bool) Mode {
	if linear {
		return Linear
	}
	return Percentile
}

// Validate checks 0 <= Low < High <= 100.
func (m Mapper) Validate() error {
	if m.Low < 0 || m.High > 100 || m.Low >= m.High {
		return domain.Errorf(domain.KindInvalidConfiguration, "contrast",
			"percentiles must satisfy 0 <= low < high <= 100, got %g and %g", m.Low, m.High)
	}
	return nil
}

// Map converts grid to an 8-bit image using the mapper's mode.
func (m Mapper) Map(grid domain.Grid) *image.Gray {
	if m.Mode == Linear {
		return LinearMap(grid)
	}
	return Stretch(grid, m.Low, m.High)
}

// Stretch clips grid to its [low, high] percentiles and maps that window
// linearly onto 0..255. A constant grid maps to all Mid. The mapping is
// non-decreasing in the input value.
func Stretch(grid domain.Grid, low, high float64) *image.Gray {
	img := newGray(grid)
	if grid.Empty() {
		return img
	}

	sorted := sortedValues(grid)
	vmin := percentileSorted(sorted, low)
	vmax := percentileSorted(sorted, high)
	span := vmax - vmin

	if span < flatEpsilon {
		for i := range img.Pix {
			img.Pix[i] = Mid
		}
		return img
	}

	grid.Each(func(i int, v int32) {
		f := float64(v)
		if f < vmin {
			f = vmin
		} else if f > vmax {
			f = vmax
		}
		img.Pix[i] = uint8((f - vmin) / span * 255)
	})
	return img
}

// LinearMap maps the full declared range of the grid's kind onto 0..255:
// identity for u8, v*255/65535 for u16, and the shifted equivalent for s16.
func LinearMap(grid domain.Grid) *image.Gray {
	img := newGray(grid)
	lo, hi := grid.Kind().Range()
	span := int64(hi) - int64(lo)
	grid.Each(func(i int, v int32) {
		img.Pix[i] = uint8((int64(v) - int64(lo)) * 255 / span)
	})
	return img
}

// PercentileOf returns the p-th percentile (0..100) of the grid's samples,
// linearly interpolated between closest ranks. It returns 0 for an empty
// grid.
func PercentileOf(grid domain.Grid, p float64) float64 {
	if grid.Empty() {
		return 0
	}
	return percentileSorted(sortedValues(grid), p)
}

func sortedValues(grid domain.Grid) []float64 {
	out := make([]float64, 0, grid.Len())
	grid.Each(func(_ int, v int32) { out = append(out, float64(v)) })
	sort.Float64s(out)
	return out
}

// percentileSorted interpolates at rank p/100*(n-1) of a sorted slice.
func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	p = math.Max(0, math.Min(100, p))
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func newGray(grid domain.Grid) *image.Gray {
	return image.NewGray(image.Rect(0, 0, grid.Width(), grid.Height()))
}
