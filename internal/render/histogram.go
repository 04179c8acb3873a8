package render

import (
	"math"
	"strconv"

	"github.com/aretw0/simreport/internal/aggregate"
	"github.com/wcharczuk/go-chart/v2"
)

// histogramChart draws the mean count of every rendered bin.
func (r *Renderer) histogramChart(title string, h aggregate.NormalizedHistogram) (chart.BarChart, error) {
	bins := h.RenderedBins()
	if len(bins) == 0 {
		return chart.BarChart{}, ErrNothingToDraw
	}

	top := 0.0
	bars := make([]chart.Value, 0, len(bins))
	for _, b := range bins {
		mean := h.Means[b]
		top = math.Max(top, mean)
		bars = append(bars, chart.Value{
			Label: strconv.Itoa(b),
			Value: mean,
			Style: chart.Style{FillColor: r.opts.Color(0), StrokeColor: r.opts.Color(0)},
		})
	}
	if top == 0 {
		top = 1
	}

	// Bars plus equal gaps must fit inside the canvas.
	slot := max((r.opts.Width-120)/len(bins), 2)
	barWidth := max(slot*2/3, 1)

	return chart.BarChart{
		Title:      title + " (bin 0 omitted)",
		Width:      r.opts.Width,
		Height:     r.opts.Height,
		Background: background(),
		BarWidth:   barWidth,
		BarSpacing: max(slot-barWidth, 1),
		XAxis:      chart.Style{},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1}},
		Bars:       bars,
	}, nil
}
