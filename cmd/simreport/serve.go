package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/simreport/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [runs-dir]",
	Short: "Browse the reports of a runs directory over HTTP",
	Long:  `Serves every run's plots directory, re-renders on POST /runs/{run}/render and exposes /health and /metrics.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		redisPassword, _ := cmd.Flags().GetString("redis-password")
		redisDB, _ := cmd.Flags().GetInt("redis-db")
		prefix, _ := cmd.Flags().GetString("lock-prefix")
		runsDir := "runs"
		if len(args) > 0 {
			runsDir = args[0]
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		err := cli.ExecuteServe(ctx, cli.ServeOptions{
			CommonOptions: commonOptions(cmd),
			RunsDir:       runsDir,
			Addr:          ":" + port,
			RedisAddr:     redisAddr,
			RedisPassword: redisPassword,
			RedisDB:       redisDB,
			LockPrefix:    prefix,
		}, os.Stdout)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for render locks shared between replicas")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database")
	serveCmd.Flags().String("lock-prefix", "simreport:", "Prefix of render lock keys")
}
