// Package render draws aggregated channels into image files with go-chart.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/aretw0/simreport/internal/aggregate"
	"github.com/aretw0/simreport/internal/fsutil"
	"github.com/aretw0/simreport/pkg/domain"
	"github.com/wcharczuk/go-chart/v2"
)

// ErrNothingToDraw is returned when a chart would have no marks.
var ErrNothingToDraw = errors.New("nothing to draw")

// Chart is one aggregated channel ready to be drawn.
// Data holds aggregate.Trajectories, []float64, aggregate.GroupedSeries or
// aggregate.NormalizedHistogram.
type Chart struct {
	Channel string
	Title   string
	// File is the base filename; the extension comes from Options.Format.
	File string
	Data any
}

// Kind returns the chart kind implied by Data.
func (c Chart) Kind() (domain.ChartKind, error) {
	switch c.Data.(type) {
	case aggregate.Trajectories:
		return domain.ChartTrajectory, nil
	case []float64:
		return domain.ChartScalarLine, nil
	case aggregate.GroupedSeries:
		return domain.ChartGroupLine, nil
	case aggregate.NormalizedHistogram:
		return domain.ChartHistogram, nil
	}
	return "", fmt.Errorf("unsupported chart data %T", c.Data)
}

// Renderer writes charts into a plots directory. It is safe for concurrent use.
type Renderer struct {
	opts Options
}

// New creates a Renderer after validating opts.
func New(opts Options) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render options: %w", err)
	}
	opts.Palette = append([]string(nil), opts.Palette...)
	return &Renderer{opts: opts}, nil
}

// Options returns a copy of the renderer's options.
func (r *Renderer) Options() Options {
	o := r.opts
	o.Palette = append([]string(nil), o.Palette...)
	return o
}

// Filename returns the artifact filename of c.
func (r *Renderer) Filename(c Chart) string {
	return c.File + r.opts.Format.Ext()
}

// EnsureDir creates the plots directory if it does not exist.
func EnsureDir(dir string) error {
	return fsutil.EnsureDir(dir)
}

// Render draws c into dir and returns the artifact describing the written file.
// Rendering the same chart twice overwrites the file with identical content.
func (r *Renderer) Render(ctx context.Context, c Chart, dir string) (domain.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return domain.Artifact{}, err
	}

	kind, err := c.Kind()
	if err != nil {
		return domain.Artifact{}, err
	}

	var buf bytes.Buffer
	if err := r.draw(c, &buf); err != nil {
		return domain.Artifact{}, err
	}

	if err := EnsureDir(dir); err != nil {
		return domain.Artifact{}, err
	}
	name := r.Filename(c)
	if err := fsutil.WriteFileAtomic(filepath.Join(dir, name), buf.Bytes()); err != nil {
		return domain.Artifact{}, err
	}

	return domain.Artifact{Channel: c.Channel, Filename: name, Kind: kind, Title: c.Title}, nil
}

func (r *Renderer) draw(c Chart, buf *bytes.Buffer) error {
	provider := r.provider()

	switch data := c.Data.(type) {
	case aggregate.Trajectories:
		ch, err := r.trajectoryChart(c.Title, data)
		if err != nil {
			return err
		}
		return wrapDraw(ch.Render(provider, buf))
	case []float64:
		ch, err := r.scalarChart(c.Title, data)
		if err != nil {
			return err
		}
		return wrapDraw(ch.Render(provider, buf))
	case aggregate.GroupedSeries:
		ch, err := r.groupedChart(c.Title, data)
		if err != nil {
			return err
		}
		return wrapDraw(ch.Render(provider, buf))
	case aggregate.NormalizedHistogram:
		ch, err := r.histogramChart(c.Title, data)
		if err != nil {
			return err
		}
		return wrapDraw(ch.Render(provider, buf))
	}
	return fmt.Errorf("unsupported chart data %T", c.Data)
}

func (r *Renderer) provider() chart.RendererProvider {
	if r.opts.Format == FormatSVG {
		return chart.SVG
	}
	return chart.PNG
}

func wrapDraw(err error) error {
	if err != nil {
		return fmt.Errorf("failed to draw chart: %w", err)
	}
	return nil
}
