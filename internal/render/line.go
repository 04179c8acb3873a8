package render

import (
	"github.com/aretw0/simreport/internal/aggregate"
	"github.com/wcharczuk/go-chart/v2"
)

func (r *Renderer) scalarChart(title string, ys []float64) (chart.Chart, error) {
	if len(ys) == 0 {
		return chart.Chart{}, ErrNothingToDraw
	}
	xs := indexes(len(ys))

	return chart.Chart{
		Title:      title,
		Width:      r.opts.Width,
		Height:     r.opts.Height,
		Background: background(),
		XAxis:      chart.XAxis{Name: "step", Range: span(xs)},
		YAxis:      chart.YAxis{Range: span(ys)},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: title, XValues: xs, YValues: ys, Style: lineStyle(r.opts.Color(0))},
		},
	}, nil
}

// groupedChart draws one series per key; each series is indexed by its own length.
func (r *Renderer) groupedChart(title string, g aggregate.GroupedSeries) (chart.Chart, error) {
	if g.Len() == 0 {
		return chart.Chart{}, ErrNothingToDraw
	}

	var allX, allY [][]float64
	series := make([]chart.Series, 0, g.Len())
	for i, key := range g.Keys {
		ys := g.Values[key]
		xs := indexes(len(ys))
		allX = append(allX, xs)
		allY = append(allY, ys)
		series = append(series, chart.ContinuousSeries{
			Name:    key,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(r.opts.Color(i)),
		})
	}

	ch := chart.Chart{
		Title:      title,
		Width:      r.opts.Width,
		Height:     r.opts.Height,
		Background: background(),
		XAxis:      chart.XAxis{Name: "step", Range: span(allX...)},
		YAxis:      chart.YAxis{Range: span(allY...)},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch, nil
}
