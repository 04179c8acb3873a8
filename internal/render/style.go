package render

import (
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Intensity returns the path parameter of point j out of n, t = j/(n-1).
// A single-point path is drawn at full intensity.
func Intensity(j, n int) float64 {
	if n <= 1 {
		return 1
	}
	return float64(j) / float64(n-1)
}

// Alpha maps t in [0,1] linearly onto [minOpacity, 1] and scales it to a color channel.
func Alpha(minOpacity, t float64) uint8 {
	t = math.Max(0, math.Min(1, t))
	a := minOpacity + (1-minOpacity)*t
	return uint8(math.Round(a * 255))
}

// span returns a non-degenerate range covering values, with a margin.
func span(values ...[]float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, vs := range values {
		for _, v := range vs {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 1
	}
	if hi == lo {
		pad := math.Max(math.Abs(lo)*0.1, 1)
		return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func indexes(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

func lineStyle(c drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: c,
		StrokeWidth: 2,
	}
}

func background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}
}
