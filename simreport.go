package simreport

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/simreport/internal/adapters/file"
	"github.com/aretw0/simreport/internal/channel"
	"github.com/aretw0/simreport/internal/logging"
	"github.com/aretw0/simreport/internal/render"
	"github.com/aretw0/simreport/pkg/domain"
	"github.com/aretw0/simreport/pkg/ports"
)

// DefaultPlotsDir is the directory, relative to the run directory, that receives the report.
const DefaultPlotsDir = "plots"

// DefaultLockTTL bounds how long a crashed holder can block renders of a run.
const DefaultLockTTL = 2 * time.Minute

// Reporter is the high-level entry point of the pipeline.
// It loads a run, aggregates its channels, renders one chart per channel and
// composes the HTML index.
type Reporter struct {
	store      ports.RunStore
	schema     *channel.Schema
	renderOpts render.Options
	renderer   *render.Renderer
	plotsDir   string
	outputRoot string
	workers    int
	hooks      domain.LifecycleHooks
	locker     ports.Locker
	lockTTL    time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// Option defines a functional option for configuring the Reporter.
type Option func(*Reporter)

// WithStore reads runs from a custom RunStore instead of run directories.
func WithStore(s ports.RunStore) Option {
	return func(r *Reporter) {
		r.store = s
	}
}

// WithSchema sets the channel schema (default: channel.DefaultSchema()).
func WithSchema(s *channel.Schema) Option {
	return func(r *Reporter) {
		r.schema = s
	}
}

// WithRenderOptions sets chart appearance and image format.
func WithRenderOptions(opts render.Options) Option {
	return func(r *Reporter) {
		r.renderOpts = opts
	}
}

// WithPlotsDir sets the report directory name inside each run directory.
func WithPlotsDir(name string) Option {
	return func(r *Reporter) {
		r.plotsDir = name
	}
}

// WithOutputRoot sets where reports of runs from a non-directory store are written:
// <root>/<runID>/<plots dir>.
func WithOutputRoot(dir string) Option {
	return func(r *Reporter) {
		r.outputRoot = dir
	}
}

// WithWorkers renders up to n charts concurrently. n <= 1 renders sequentially.
func WithWorkers(n int) Option {
	return func(r *Reporter) {
		r.workers = n
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Reporter) {
		r.hooks = hooks
	}
}

// WithLocker serializes RenderReport calls targeting the same report directory.
// ttl <= 0 selects DefaultLockTTL.
func WithLocker(locker ports.Locker, ttl time.Duration) Option {
	return func(r *Reporter) {
		r.locker = locker
		r.lockTTL = ttl
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reporter) {
		r.logger = logger
	}
}

// WithClock overrides the time source of the report timestamp.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		r.now = now
	}
}

// New creates a Reporter. Without options it reads run directories from disk and
// renders PNG charts with the default channel schema.
func New(opts ...Option) (*Reporter, error) {
	r := &Reporter{
		renderOpts: render.DefaultOptions(),
		plotsDir:   DefaultPlotsDir,
		outputRoot: ".",
		workers:    1,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.store == nil {
		r.store = file.New("")
	}
	if r.schema == nil {
		r.schema = channel.DefaultSchema()
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.lockTTL <= 0 {
		r.lockTTL = DefaultLockTTL
	}
	if r.workers < 1 {
		r.workers = 1
	}
	if r.plotsDir == "" {
		return nil, fmt.Errorf("plots directory name cannot be empty")
	}

	renderer, err := render.New(r.renderOpts)
	if err != nil {
		return nil, err
	}
	r.renderer = renderer

	return r, nil
}

// runResolver is implemented by stores whose runs live in directories.
type runResolver interface {
	Resolve(runID string) (string, error)
}

// RenderReport loads the run identified by runID and writes its report.
// With the default store runID is the run directory path; symlinks such as
// runs/latest are resolved first.
func (r *Reporter) RenderReport(ctx context.Context, runID string) (*Result, error) {
	runDir := filepath.Join(r.outputRoot, runID)
	if res, ok := r.store.(runResolver); ok {
		dir, err := res.Resolve(runID)
		if err != nil {
			return nil, err
		}
		runDir = dir
	}

	plotsDir := filepath.Join(runDir, r.plotsDir)

	if r.locker != nil {
		unlock, err := r.locker.Lock(ctx, plotsDir, r.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to lock %s: %w", plotsDir, err)
		}
		defer func() {
			// Background context: the render may have ended on cancellation.
			if err := unlock(context.Background()); err != nil {
				r.logger.Warn("failed to release render lock (will expire via TTL)",
					"dir", plotsDir, "err", err)
			}
		}()
	}

	run, err := r.store.Load(ctx, runID)
	if err != nil {
		return nil, err
	}

	return r.RenderRun(ctx, run, plotsDir)
}

// PlotsDir returns the report directory name used inside run directories.
func (r *Reporter) PlotsDir() string {
	return r.plotsDir
}
