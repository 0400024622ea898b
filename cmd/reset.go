package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newResetCmd(app *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the local sales history and re-run a full backfill",
		Long:  "reset wipes the persisted transaction history and rebuilds it from the live feed. Credentials are kept.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				answer, err := promptLine(cmd, "This deletes the local sales history and re-downloads it. Continue? [y/N] ")
				if err != nil {
					return err
				}
				if !strings.EqualFold(answer, "y") {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			if err := app.session.Init(cmd.Context()); err != nil {
				return fmt.Errorf("load session: %w", err)
			}
			if err := app.session.ResetData(cmd.Context()); err != nil {
				return fmt.Errorf("reset data: %w", err)
			}

			snapshot := app.session.Snapshot()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt history, %d sales tracked\n", len(snapshot.Transactions))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
