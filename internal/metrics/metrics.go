// Package metrics exposes pipeline counters to Prometheus.
package metrics

import (
	"context"

	"github.com/aretw0/simreport/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline collectors.
type Metrics struct {
	Rendered *prometheus.CounterVec
	Skipped  *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Reports  prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Rendered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "simreport_charts_rendered_total",
				Help: "Total number of charts written",
			},
			[]string{"kind"},
		),
		Skipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "simreport_charts_skipped_total",
				Help: "Total number of channels without a chart",
			},
			[]string{"reason"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "simreport_render_seconds",
				Help:    "Duration of chart aggregation and rendering",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"kind"},
		),
		Reports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simreport_reports_composed_total",
			Help: "Total number of report indexes written",
		}),
	}

	for _, c := range []prometheus.Collector{m.Rendered, m.Skipped, m.Duration, m.Reports} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnChartRendered: func(_ context.Context, e *domain.ChartEvent) {
			m.Rendered.WithLabelValues(string(e.Kind)).Inc()
			m.Duration.WithLabelValues(string(e.Kind)).Observe(e.Duration.Seconds())
		},
		OnChartSkipped: func(_ context.Context, e *domain.ChartEvent) {
			m.Skipped.WithLabelValues(e.Reason).Inc()
		},
		OnReportComposed: func(context.Context, *domain.ReportEvent) {
			m.Reports.Inc()
		},
	}
}
