package render

import (
	"github.com/aretw0/simreport/internal/aggregate"
	"github.com/wcharczuk/go-chart/v2"
)

// trajectoryChart draws one path per entity. Each segment is its own series so
// its alpha can follow the direction of travel.
func (r *Renderer) trajectoryChart(title string, t aggregate.Trajectories) (chart.Chart, error) {
	if t.Len() == 0 {
		return chart.Chart{}, ErrNothingToDraw
	}

	var xs, ys []float64
	var series []chart.Series
	for i, id := range t.Order {
		base := r.opts.Color(i)
		points := t.Points[id]
		n := len(points)

		for j, p := range points {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)

			c := base.WithAlpha(Alpha(r.opts.MinOpacity, Intensity(j, n)))
			if j == 0 {
				if n == 1 {
					series = append(series, chart.ContinuousSeries{
						Name:    string(id),
						XValues: []float64{p.X},
						YValues: []float64{p.Y},
						Style:   chart.Style{DotColor: c, DotWidth: 4},
					})
				}
				continue
			}
			prev := points[j-1]
			series = append(series, chart.ContinuousSeries{
				Name:    string(id),
				XValues: []float64{prev.X, p.X},
				YValues: []float64{prev.Y, p.Y},
				Style: chart.Style{
					StrokeColor: c,
					StrokeWidth: 2,
					DotColor:    c,
					DotWidth:    3,
				},
			})
		}
	}

	return chart.Chart{
		Title:      title,
		Width:      r.opts.Width,
		Height:     r.opts.Height,
		Background: background(),
		XAxis:      chart.XAxis{Name: "x", Range: span(xs)},
		YAxis:      chart.YAxis{Name: "y", Range: span(ys)},
		Series:     series,
	}, nil
}
