package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simaogato/goalnudge-backend/internal/app"
	"github.com/simaogato/goalnudge-backend/internal/cli"
)

func newEvaluateCmd(rt *runtime) *cobra.Command {
	var pending bool

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate every goal and print the message each client would receive",
		Long:  "Evaluate every goal against its latest recorded amount. Nothing is persisted or sent.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withApp(cmd.Context(), func(a *app.App) error {
				outcomes, err := a.Progress.EvaluateAll(cmd.Context(), pending)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out)
				fmt.Fprintln(out, cli.RenderTitle("GOAL EVALUATION"))
				fmt.Fprintln(out)

				if len(outcomes) == 0 {
					fmt.Fprintln(out, cli.RenderMuted("  No goals to evaluate."))
					return nil
				}

				rows := make([][]string, 0, len(outcomes))
				for _, o := range outcomes {
					rows = append(rows, []string{
						o.Client.Name,
						o.Goal.GoalType,
						cli.FormatMoney(o.Goal.CurrentAmount),
						cli.FormatMoney(o.Goal.GoalAmount),
						cli.RenderProgressBar(o.Evaluation.ProgressPercent.InexactFloat64(), 10) + " " +
							cli.FormatPercent(o.Evaluation.ProgressPercent),
						string(o.Evaluation.ProgressChange),
						cli.RenderStatus(o.Evaluation.OnTrack, "yes", "no"),
					})
				}
				fmt.Fprint(out, cli.RenderTable(cli.Table{
					Headers:    []string{"Client", "Goal", "Current", "Target", "Progress", "Change", "On track"},
					Rows:       rows,
					RightAlign: map[int]bool{2: true, 3: true},
				}))

				fmt.Fprintln(out)
				for _, o := range outcomes {
					fmt.Fprintf(out, "  %s / %s\n    %s\n", o.Client.Name, o.Goal.GoalType, o.Evaluation.Message)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&pending, "pending", false, "Only goals that have not been sent a message yet")
	return cmd
}
