package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simaogato/goalnudge-backend/internal/app"
	"github.com/simaogato/goalnudge-backend/internal/cli"
)

func newChunksCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "chunks",
		Short: "Print the knowledge base chunks the advisor chat retrieves from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withApp(cmd.Context(), func(a *app.App) error {
				chunks, err := a.Knowledge.BuildChunks(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, c := range chunks {
					fmt.Fprintln(out, cli.RenderMuted("# "+c.ID()))
					fmt.Fprintln(out, c.Text)
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%d chunks\n", len(chunks))
				return nil
			})
		},
	}
}
