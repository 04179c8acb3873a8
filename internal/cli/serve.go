package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/simreport/internal/adapters/file"
	httpAdapter "github.com/aretw0/simreport/internal/adapters/http"
	"github.com/aretw0/simreport/internal/adapters/redis"
	"github.com/aretw0/simreport/internal/metrics"
	"github.com/aretw0/simreport/pkg/adapters/memory"
	"github.com/aretw0/simreport/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	backend "github.com/redis/go-redis/v9"
)

// ServeOptions contains all the configuration for the serve command.
type ServeOptions struct {
	CommonOptions
	RunsDir string
	Addr    string
	// RedisAddr, when set, serializes renders across replicas sharing RunsDir.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LockPrefix    string
}

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
const ShutdownTimeout = 5 * time.Second

// newServeHandler wires the report browser for a runs directory.
func newServeHandler(opts ServeOptions) (http.Handler, error) {
	cfg, err := loadConfig(opts.CommonOptions)
	if err != nil {
		return nil, err
	}
	logger := createLogger(cfg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	var locker ports.Locker = memory.NewLocker()
	if opts.RedisAddr != "" {
		client := backend.NewClient(&backend.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		locker = redis.NewLocker(client, opts.LockPrefix)
		logger.Debug("render locks in redis", "addr", opts.RedisAddr, "prefix", opts.LockPrefix)
	}

	store := file.New(opts.RunsDir)
	reporter, err := createReporter(cfg, logger, store, locker, m.Hooks())
	if err != nil {
		return nil, err
	}

	return httpAdapter.NewHandler(&httpAdapter.Server{
		RunsDir:  opts.RunsDir,
		Runs:     store,
		Reporter: reporter,
		Gatherer: reg,
		Logger:   logger,
	}), nil
}

// ExecuteServe serves the runs directory until ctx is cancelled.
func ExecuteServe(ctx context.Context, opts ServeOptions, out io.Writer) error {
	handler, err := newServeHandler(opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	printSystemMessage(out, "Serving reports from %s on %s", opts.RunsDir, srv.Addr)
	go func() {
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		printSystemMessage(out, "Shutting down...")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", ShutdownTimeout, err)
		}
		printSystemMessage(out, "Server stopped gracefully")
		return nil
	}
}
