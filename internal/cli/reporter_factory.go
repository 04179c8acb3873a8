package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/simreport"
	"github.com/aretw0/simreport/internal/config"
	"github.com/aretw0/simreport/pkg/domain"
	"github.com/aretw0/simreport/pkg/ports"
)

// createReporter initializes a Reporter from the resolved configuration.
// A nil store reads run directories; a nil locker leaves renders unserialized.
func createReporter(cfg config.Config, logger *slog.Logger, store ports.RunStore, locker ports.Locker, hooks ...domain.LifecycleHooks) (*simreport.Reporter, error) {
	renderOpts, err := cfg.RenderOptions()
	if err != nil {
		return nil, err
	}
	schema, err := cfg.Schema()
	if err != nil {
		return nil, err
	}

	opts := []simreport.Option{
		simreport.WithLogger(logger),
		simreport.WithRenderOptions(renderOpts),
		simreport.WithSchema(schema),
		simreport.WithPlotsDir(cfg.PlotsDir),
		simreport.WithWorkers(cfg.Workers),
		simreport.WithLifecycleHooks(chainHooks(append([]domain.LifecycleHooks{createDebugHooks(logger)}, hooks...)...)),
	}
	if store != nil {
		opts = append(opts, simreport.WithStore(store))
	}
	if locker != nil {
		opts = append(opts, simreport.WithLocker(locker, 0))
	}

	reporter, err := simreport.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing reporter: %w", err)
	}
	return reporter, nil
}
