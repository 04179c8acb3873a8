package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/simreport/internal/config"
	"github.com/aretw0/simreport/internal/logging"
	"github.com/aretw0/simreport/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// CommonOptions are shared by every command that renders.
type CommonOptions struct {
	ConfigPath string
	Debug      bool
	Workers    int
	Format     string
}

// loadConfig reads --config, or simreport.yaml in the working directory, then applies
// flag overrides.
func loadConfig(opts CommonOptions) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return config.Config{}, err
	}

	if opts.Workers > 0 {
		cfg.Workers = opts.Workers
	}
	if opts.Format != "" {
		cfg.Format = opts.Format
	}
	if opts.Debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// createLogger configures the application logger on Stderr.
func createLogger(cfg config.Config) *slog.Logger {
	level, err := cfg.Level()
	if err != nil {
		return logging.NewNop()
	}
	return logging.New(level)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnChartRendered: func(ctx context.Context, e *domain.ChartEvent) {
			logger.Debug("Chart Rendered", "channel", e.Channel, "kind", e.Kind, "duration", e.Duration)
		},
		OnChartSkipped: func(ctx context.Context, e *domain.ChartEvent) {
			logger.Debug("Chart Skipped", "channel", e.Channel, "reason", e.Reason)
		},
		OnReportComposed: func(ctx context.Context, e *domain.ReportEvent) {
			logger.Debug("Report Composed", "path", e.Path, "artifacts", e.Artifacts, "skipped", e.Skipped)
		},
	}
}

// chainHooks calls every non-nil hook in order.
func chainHooks(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnChartRendered: func(ctx context.Context, e *domain.ChartEvent) {
			for _, h := range all {
				if h.OnChartRendered != nil {
					h.OnChartRendered(ctx, e)
				}
			}
		},
		OnChartSkipped: func(ctx context.Context, e *domain.ChartEvent) {
			for _, h := range all {
				if h.OnChartSkipped != nil {
					h.OnChartSkipped(ctx, e)
				}
			}
		},
		OnReportComposed: func(ctx context.Context, e *domain.ReportEvent) {
			for _, h := range all {
				if h.OnReportComposed != nil {
					h.OnReportComposed(ctx, e)
				}
			}
		},
	}
}
