// Command gen-run writes a synthetic run directory, for demos and manual testing
// of the report pipeline without running a simulation.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/aretw0/simreport/internal/adapters/file"
	"github.com/aretw0/simreport/internal/synth"
	"github.com/spf13/cobra"
)

func main() {
	opts := synth.DefaultOptions()
	var runsDir string

	cmd := &cobra.Command{
		Use:   "gen-run",
		Short: "Write a synthetic run and point runs/latest at it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := synth.Generate(opts)
			if err != nil {
				return err
			}

			store := file.New(runsDir)
			runID := time.Now().Format("2006-01-02T15-04-05")
			if err := store.Save(cmd.Context(), runID, run); err != nil {
				return err
			}
			if err := store.Link(runID, "latest"); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d steps in %s\n", run.Steps(), store.Dir(runID))
			return nil
		},
		SilenceUsage: true,
	}

	f := cmd.Flags()
	f.StringVar(&runsDir, "dir", "runs", "directory holding run directories")
	f.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	f.IntVar(&opts.Steps, "steps", opts.Steps, "number of steps")
	f.IntVar(&opts.Population, "population", opts.Population, "number of agents")
	f.Float64Var(&opts.SampleRate, "sample-rate", opts.SampleRate, "share of agents recorded in the sample channel")
	f.IntVar(&opts.Publishers, "publishers", opts.Publishers, "number of publishers")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
