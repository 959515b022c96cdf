package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simaogato/goalnudge-backend/internal/app"
)

func newSeedCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the demo client and goal if they are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withApp(cmd.Context(), func(a *app.App) error {
				if err := a.Seeder.Seed(cmd.Context()); err != nil {
					return fmt.Errorf("seeding demo data: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Demo data seeded")
				return nil
			})
		},
	}
}
