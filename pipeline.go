package simreport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/simreport/internal/aggregate"
	"github.com/aretw0/simreport/internal/channel"
	"github.com/aretw0/simreport/internal/compose"
	"github.com/aretw0/simreport/internal/render"
	"github.com/aretw0/simreport/pkg/domain"
	"golang.org/x/sync/errgroup"
)

// errNoChannels marks a history without a single channel value.
var errNoChannels = errors.New("history has no channel data")

// job is one planned chart.
type job struct {
	spec channel.Spec
	ch   *aggregate.Channel
}

// outcome is what a job produced: an artifact or a skip.
type outcome struct {
	artifact *domain.Artifact
	skip     *Skip
}

// RenderRun writes the charts and index of run into plotsDir.
// The run is validated before anything is written: a run whose history holds no
// channel data fails with domain.ErrMalformedRunArtifact and leaves no directory.
func (r *Reporter) RenderRun(ctx context.Context, run *domain.Run, plotsDir string) (*Result, error) {
	if run == nil {
		return nil, fmt.Errorf("run cannot be nil")
	}
	logger := r.logger.With("run", run.ID)

	stats := aggregate.Regroup(run.History, r.schema)
	if stats.Len() == 0 {
		return nil, domain.MalformedArtifact("output", run.ID, errNoChannels)
	}
	// Fail before touching the filesystem.
	if _, err := compose.FormatConfig(run.Config); err != nil {
		return nil, domain.MalformedArtifact("config", run.ID, err)
	}

	jobs := r.plan(stats)
	logger.Debug("planned report", "channels", stats.Len(), "steps", run.Steps(), "jobs", len(jobs))

	if err := render.EnsureDir(plotsDir); err != nil {
		return nil, err
	}

	outcomes := make([]outcome, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			o, err := r.execute(gctx, logger, run.ID, j, plotsDir)
			if err != nil {
				return err
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{RunID: run.ID, Artifacts: []domain.Artifact{}, Skipped: []Skip{}}
	for _, o := range outcomes {
		switch {
		case o.artifact != nil:
			result.Artifacts = append(result.Artifacts, *o.artifact)
		case o.skip != nil:
			result.Skipped = append(result.Skipped, *o.skip)
		}
	}

	path, err := compose.Compose(run.Meta, run.Config, result.Artifacts, plotsDir, r.now())
	if err != nil {
		return nil, err
	}
	result.ReportPath = path
	logger.Info("report written", "path", path, "artifacts", len(result.Artifacts), "skipped", len(result.Skipped))

	if r.hooks.OnReportComposed != nil {
		r.hooks.OnReportComposed(ctx, &domain.ReportEvent{
			EventBase: domain.EventBase{Timestamp: r.now(), Type: domain.EventReportComposed, RunID: run.ID},
			Path:      path,
			Artifacts: len(result.Artifacts),
			Skipped:   len(result.Skipped),
		})
	}
	return result, nil
}

// plan orders channels by the schema first, then unknown channels by first appearance.
func (r *Reporter) plan(stats aggregate.Stats) []job {
	jobs := make([]job, 0, stats.Len())
	planned := make(map[string]bool, stats.Len())

	for _, spec := range r.schema.Specs() {
		if ch, ok := stats.Get(spec.Name); ok {
			jobs = append(jobs, job{spec: spec, ch: ch})
			planned[spec.Name] = true
		}
	}
	for _, name := range stats.Order {
		if planned[name] {
			continue
		}
		ch, _ := stats.Get(name)
		jobs = append(jobs, job{spec: channel.Spec{Name: name, Kind: ch.Kind}, ch: ch})
	}
	return jobs
}

// execute aggregates and renders one channel. Only cancellation is returned as an
// error; every other failure becomes a skip.
func (r *Reporter) execute(ctx context.Context, logger *slog.Logger, runID string, j job, plotsDir string) (outcome, error) {
	if err := ctx.Err(); err != nil {
		return outcome{}, err
	}
	start := time.Now()
	name := j.spec.Name

	if j.ch.Kind == domain.KindOpaque {
		logger.Debug("channel has no chart", "channel", name)
		return r.skipped(ctx, runID, j, domain.SkipOpaque, nil), nil
	}
	if j.ch.Err != nil {
		return r.warn(ctx, logger, runID, j, domain.SkipInvalid, j.ch.Err), nil
	}

	data, err := aggregateChannel(j.ch)
	if err != nil {
		reason := domain.SkipInvalid
		if errors.Is(err, domain.ErrEmptyRun) {
			reason = domain.SkipEmpty
		}
		return r.warn(ctx, logger, runID, j, reason, err), nil
	}

	artifact, err := r.renderer.Render(ctx, render.Chart{
		Channel: name,
		Title:   j.spec.DisplayTitle(),
		File:    j.spec.Filename(),
		Data:    data,
	}, plotsDir)
	switch {
	case errors.Is(err, render.ErrNothingToDraw):
		return r.warn(ctx, logger, runID, j, domain.SkipEmpty, err), nil
	case ctx.Err() != nil:
		return outcome{}, ctx.Err()
	case err != nil:
		return r.warn(ctx, logger, runID, j, domain.SkipFailed, err), nil
	}

	logger.Debug("chart rendered", "channel", name, "kind", artifact.Kind, "file", artifact.Filename)
	if r.hooks.OnChartRendered != nil {
		r.hooks.OnChartRendered(ctx, &domain.ChartEvent{
			EventBase: domain.EventBase{Timestamp: r.now(), Type: domain.EventChartRendered, RunID: runID},
			Channel:   name,
			Kind:      artifact.Kind,
			Filename:  artifact.Filename,
			Duration:  time.Since(start),
		})
	}
	return outcome{artifact: &artifact}, nil
}

func (r *Reporter) warn(ctx context.Context, logger *slog.Logger, runID string, j job, reason string, err error) outcome {
	cerr := &domain.ChannelError{Channel: j.spec.Name, Err: err}
	logger.Warn("skipping channel", "channel", j.spec.Name, "kind", j.ch.Kind, "reason", reason, "err", err)
	return r.skipped(ctx, runID, j, reason, cerr)
}

func (r *Reporter) skipped(ctx context.Context, runID string, j job, reason string, err error) outcome {
	skip := &Skip{Channel: j.spec.Name, Kind: j.ch.Kind, Reason: reason}
	if err != nil {
		skip.Error = err.Error()
	}
	if r.hooks.OnChartSkipped != nil {
		r.hooks.OnChartSkipped(ctx, &domain.ChartEvent{
			EventBase: domain.EventBase{Timestamp: r.now(), Type: domain.EventChartSkipped, RunID: runID},
			Channel:   j.spec.Name,
			Reason:    reason,
			Err:       err,
		})
	}
	return outcome{skip: skip}
}

// aggregateChannel returns the chart data of a channel.
func aggregateChannel(ch *aggregate.Channel) (any, error) {
	switch ch.Kind {
	case domain.KindSample:
		return aggregate.AggregateSamples(ch.Values)
	case domain.KindScalar:
		return aggregate.AggregateScalar(ch.Values)
	case domain.KindGroupedScalar:
		return aggregate.AggregateGrouped(ch.Values)
	case domain.KindHistogram:
		return aggregate.AggregateDistribution(ch.Values)
	}
	return nil, fmt.Errorf("no aggregation for %s channels", ch.Kind)
}
