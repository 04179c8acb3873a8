package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/simreport/internal/cli"
	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Snapshot a run from redis into a run directory",
	Long:  `Reads the config, history and status keys a running simulation syncs to redis and writes them as config.yaml and output.json.`,
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("redis")
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")
		prefix, _ := cmd.Flags().GetString("prefix")
		runID, _ := cmd.Flags().GetString("run")
		out, _ := cmd.Flags().GetString("out")
		render, _ := cmd.Flags().GetBool("render")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		err := cli.ExecutePull(ctx, cli.PullOptions{
			CommonOptions: commonOptions(cmd),
			RedisAddr:     addr,
			RedisPassword: password,
			RedisDB:       db,
			Prefix:        prefix,
			RunID:         runID,
			Out:           out,
			Render:        render,
		}, os.Stdout)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
	pullCmd.Flags().String("redis", "localhost:6379", "Redis address")
	pullCmd.Flags().String("redis-password", "", "Redis password")
	pullCmd.Flags().Int("redis-db", 0, "Redis database")
	pullCmd.Flags().String("prefix", "", "Key prefix")
	pullCmd.Flags().String("run", "", "Run namespace (default: the live simulation keys)")
	pullCmd.Flags().String("out", "", "Run directory to write")
	pullCmd.Flags().Bool("render", false, "Render the report after pulling")
	_ = pullCmd.MarkFlagRequired("out")
}
