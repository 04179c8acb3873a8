package main

import (
	"fmt"
	"os"

	"github.com/aretw0/simreport/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "simreport",
	Short: "simreport renders the charts and HTML report of a simulation run",
	Long:  `simreport reads a run directory (config.yaml + output.json), charts every recorded channel and writes plots/index.html.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to simreport.yaml (default: ./simreport.yaml if present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().Int("workers", 0, "Charts rendered in parallel (overrides config)")
	rootCmd.PersistentFlags().String("format", "", "Image format: png or svg (overrides config)")
}

// commonOptions reads the persistent flags.
func commonOptions(cmd *cobra.Command) cli.CommonOptions {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	workers, _ := cmd.Flags().GetInt("workers")
	format, _ := cmd.Flags().GetString("format")
	return cli.CommonOptions{
		ConfigPath: configPath,
		Debug:      debug,
		Workers:    workers,
		Format:     format,
	}
}
