package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/aretw0/simreport/internal/presentation/tui"
)

// DefaultRunDir is rendered when no run directory is given.
const DefaultRunDir = "runs/latest"

// RenderOptions contains all the configuration for the render command.
type RenderOptions struct {
	CommonOptions
	RunDir string
	JSON   bool
	// Styled renders the summary with glamour; set when stdout is a terminal.
	Styled bool
}

// ExecuteRender renders the report of one run directory and prints a summary to out.
func ExecuteRender(ctx context.Context, opts RenderOptions, out io.Writer) error {
	cfg, err := loadConfig(opts.CommonOptions)
	if err != nil {
		return err
	}
	logger := createLogger(cfg)

	reporter, err := createReporter(cfg, logger, nil, nil)
	if err != nil {
		return err
	}

	runDir := opts.RunDir
	if runDir == "" {
		runDir = DefaultRunDir
	}
	res, err := reporter.RenderReport(ctx, runDir)
	if err != nil {
		return err
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	var style func(string) (string, error)
	if opts.Styled {
		style, err = tui.NewRenderer("")
		if err != nil {
			logger.Debug("falling back to plain summary", "err", err)
			style = nil
		}
	}
	return tui.PrintSummary(out, res, style)
}
