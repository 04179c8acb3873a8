package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/simreport/internal/cli"
	"github.com/aretw0/simreport/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [run-dir]",
	Short: "Render the report of a run directory",
	Long:  `Renders one chart per channel of the run into <run-dir>/plots and writes index.html. Defaults to runs/latest.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		jsonMode, _ := cmd.Flags().GetBool("json")
		opts := cli.RenderOptions{
			CommonOptions: commonOptions(cmd),
			RunDir:        cli.DefaultRunDir,
			JSON:          jsonMode,
			Styled:        !jsonMode && tui.IsTerminal(os.Stdout),
		}
		if len(args) > 0 {
			opts.RunDir = args[0]
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		if err := cli.ExecuteRender(ctx, opts, os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().Bool("json", false, "Print the result as JSON instead of a summary")

	// 'render' is the default if no command is provided.
	rootCmd.Args = renderCmd.Args
	rootCmd.Run = renderCmd.Run
	rootCmd.Flags().Bool("json", false, "Print the result as JSON instead of a summary")
}
