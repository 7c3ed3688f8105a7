package contrast

import (
	"math"

	"github.com/bft-labs/rawframe/internal/domain"
)

// Stats summarises a grid's samples.
type Stats struct {
	Count int
	Min   int32
	Max   int32
	Mean  float64
	// Std is the population standard deviation.
	Std float64
}

// StatsOf computes min, max, mean and population standard deviation.
// An empty grid yields the zero Stats.
func StatsOf(grid domain.Grid) Stats {
	if grid.Empty() {
		return Stats{}
	}

	s := Stats{Count: grid.Len(), Min: math.MaxInt32, Max: math.MinInt32}
	var sum float64
	grid.Each(func(_ int, v int32) {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		sum += float64(v)
	})
	s.Mean = sum / float64(s.Count)

	var sq float64
	grid.Each(func(_ int, v int32) {
		d := float64(v) - s.Mean
		sq += d * d
	})
	s.Std = math.Sqrt(sq / float64(s.Count))
	return s
}

// Histogram is a set of equal-width bins.
type Histogram struct {
	// Edges has len(Counts)+1 entries; bin i covers [Edges[i], Edges[i+1]),
	// the last bin is closed on the right.
	Edges  []float64
	Counts []int
}

// HistogramOf bins the grid's samples into bins equal-width bins spanning
// [min, max]. A constant grid spans [v-0.5, v+0.5] and an empty grid [0, 1].
func HistogramOf(grid domain.Grid, bins int) (Histogram, error) {
	if bins <= 0 {
		return Histogram{}, domain.Errorf(domain.KindInvalidConfiguration, "histogram",
			"bin count must be positive").With("bins", int64(bins))
	}

	lo, hi := 0.0, 1.0
	if !grid.Empty() {
		st := StatsOf(grid)
		lo, hi = float64(st.Min), float64(st.Max)
		if lo == hi {
			lo, hi = lo-0.5, hi+0.5
		}
	}

	h := Histogram{Edges: make([]float64, bins+1), Counts: make([]int, bins)}
	width := (hi - lo) / float64(bins)
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	h.Edges[bins] = hi

	grid.Each(func(_ int, v int32) {
		idx := int((float64(v) - lo) * float64(bins) / (hi - lo))
		if idx >= bins {
			idx = bins - 1
		}
		h.Counts[idx]++
	})
	return h, nil
}
