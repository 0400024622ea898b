package cmd

import (
	"fmt"

	"github.com/egemenh/salestracker/internal/adapters/render/dashboard"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *app) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print a one-shot snapshot of the tracked group",
		Long:  "status renders the locally persisted state without touching the network. Run `salestracker refresh` first for live numbers.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.session.Init(cmd.Context()); err != nil {
				return fmt.Errorf("load session: %w", err)
			}

			rendered := dashboard.Render(app.session.Snapshot(), dashboard.RenderOptions{MaxRows: rows})
			_, err := fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 0, "Maximum number of sales rows to print (0 uses the default)")

	return cmd
}
