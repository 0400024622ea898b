package cmd

import (
	"fmt"

	"github.com/egemenh/salestracker/internal/adapters/render/dashboard"
	"github.com/spf13/cobra"
)

func newRefreshCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Run one sync pass and print the updated snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.session.Init(cmd.Context()); err != nil {
				return fmt.Errorf("load session: %w", err)
			}

			if err := app.session.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("refresh: %w", err)
			}

			rendered := dashboard.Render(app.session.Snapshot(), dashboard.RenderOptions{})
			_, err := fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}
