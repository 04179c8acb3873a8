package main

import (
	"fmt"
	"os"

	"github.com/aretw0/simreport"
	"github.com/aretw0/simreport/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of simreport",
	Run: func(cmd *cobra.Command, args []string) {
		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout, simreport.Version)
			return
		}
		fmt.Printf("simreport version %s\n", simreport.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
