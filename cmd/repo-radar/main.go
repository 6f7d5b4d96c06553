package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kevinmichaelchen/repo-radar/internal/config"
	"github.com/kevinmichaelchen/repo-radar/internal/logger"
	"github.com/kevinmichaelchen/repo-radar/internal/pipeline"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "repo-radar",
		Short:         "GitHub topic search → dashboard data.json",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := config.Load()
			logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

			return pipeline.Run(ctx, cfg, cmd.OutOrStdout())
		},
	}

	if err := root.Execute(); err != nil {
		logger.Get().Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}
