package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/simaogato/goalnudge-backend/internal/app"
	"github.com/simaogato/goalnudge-backend/internal/config"
	"github.com/simaogato/goalnudge-backend/internal/logger"
)

// runtime holds what every subcommand needs once flags are parsed
type runtime struct {
	configPath string
	cfg        config.Config
	log        *slog.Logger
}

func newRootCmd() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:          "goalnudge",
		Short:        "Goal progress nudges for financial advisors",
		Long:         "Evaluate client goals, inspect the advisor chat knowledge base and manage the database.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(rt.configPath)
			if err != nil {
				return err
			}
			rt.cfg = cfg

			rt.log, err = logger.New(cmd.ErrOrStderr(), cfg.Log.Level)
			return err
		},
	}

	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVarP(&rt.configPath, "config", "c", "", "Path to the TOML config file (default $GOALNUDGE_CONFIG)")

	root.AddCommand(
		newEvaluateCmd(rt),
		newChunksCmd(rt),
		newSeedCmd(rt),
		newMigrateCmd(rt),
	)
	return root
}

// withApp opens the application for the duration of fn
func (rt *runtime) withApp(ctx context.Context, fn func(a *app.App) error) error {
	a, err := app.New(ctx, rt.cfg, rt.log)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
