package aggregate

import (
	"fmt"

	"github.com/aretw0/simreport/pkg/domain"
)

// NormalizedHistogram is the mean per-step count of every bin in [MinBin, MaxBin).
type NormalizedHistogram struct {
	MinBin int
	MaxBin int // exclusive
	Steps  int
	Merged map[int]int
	Means  map[int]float64
}

// Empty reports whether no bin was observed.
func (h NormalizedHistogram) Empty() bool {
	return h.MaxBin <= h.MinBin
}

// Bins returns the dense bin range [MinBin, MaxBin).
func (h NormalizedHistogram) Bins() []int {
	if h.Empty() {
		return nil
	}
	bins := make([]int, 0, h.MaxBin-h.MinBin)
	for b := h.MinBin; b < h.MaxBin; b++ {
		bins = append(bins, b)
	}
	return bins
}

// RenderedBins returns Bins without bin 0, whose baseline count would dominate
// the axis scale. Bin 0 still contributes to Means.
func (h NormalizedHistogram) RenderedBins() []int {
	bins := h.Bins()
	out := bins[:0:0]
	for _, b := range bins {
		if b != 0 {
			out = append(out, b)
		}
	}
	return out
}

// AggregateDistribution merges per-step histograms and divides each dense bin's
// total by the channel's step count.
func AggregateDistribution(values []domain.ChannelValue) (NormalizedHistogram, error) {
	if len(values) == 0 {
		return NormalizedHistogram{}, fmt.Errorf("distribution has no steps: %w", domain.ErrEmptyRun)
	}

	h := NormalizedHistogram{Steps: len(values), Merged: make(map[int]int)}
	observed := false
	for step, v := range values {
		hist, ok := v.(domain.Histogram)
		if !ok {
			return NormalizedHistogram{}, unexpected(step, domain.KindHistogram, v)
		}
		for bin, count := range hist {
			if !observed || bin < h.MinBin {
				h.MinBin = bin
			}
			if !observed || bin+1 > h.MaxBin {
				h.MaxBin = bin + 1
			}
			observed = true
			h.Merged[bin] += count
		}
	}

	h.Means = make(map[int]float64, h.MaxBin-h.MinBin)
	for _, b := range h.Bins() {
		h.Means[b] = float64(h.Merged[b]) / float64(h.Steps)
	}
	return h, nil
}
