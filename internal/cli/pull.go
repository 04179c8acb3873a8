package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/aretw0/simreport/internal/adapters/file"
	redisAdapter "github.com/aretw0/simreport/internal/adapters/redis"
	"github.com/aretw0/simreport/pkg/ports"
)

// PullOptions contains all the configuration for the pull command.
type PullOptions struct {
	CommonOptions
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string
	// RunID selects a namespaced run; empty reads the live simulation keys.
	RunID string
	// Out is the run directory the snapshot is written to.
	Out string
	// Render also renders the report of the snapshot.
	Render bool
}

// ExecutePull snapshots a run from redis into a run directory.
func ExecutePull(ctx context.Context, opts PullOptions, out io.Writer) error {
	if opts.Out == "" {
		return fmt.Errorf("--out is required")
	}

	store := redisAdapter.New(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, redisAdapter.WithPrefix(opts.Prefix))
	defer store.Close()

	return pull(ctx, store, opts, out)
}

func pull(ctx context.Context, src ports.RunStore, opts PullOptions, out io.Writer) error {
	cfg, err := loadConfig(opts.CommonOptions)
	if err != nil {
		return err
	}
	logger := createLogger(cfg)

	run, err := src.Load(ctx, opts.RunID)
	if err != nil {
		return err
	}

	dst := file.New(filepath.Dir(opts.Out))
	runID := filepath.Base(opts.Out)
	if err := dst.Save(ctx, runID, run); err != nil {
		return err
	}
	logger.Info("run snapshot written", "dir", opts.Out, "steps", run.Steps())
	printSystemMessage(out, "Pulled %d steps into %s", run.Steps(), opts.Out)

	if !opts.Render {
		return nil
	}
	reporter, err := createReporter(cfg, logger, nil, nil)
	if err != nil {
		return err
	}
	res, err := reporter.RenderReport(ctx, opts.Out)
	if err != nil {
		return err
	}
	printSystemMessage(out, "Report written to %s", res.ReportPath)
	return nil
}
