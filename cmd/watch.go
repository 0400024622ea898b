package cmd

import (
	"context"
	"fmt"

	"github.com/egemenh/salestracker/internal/adapters/render/dashboard"
	"github.com/egemenh/salestracker/internal/domain"
	"github.com/egemenh/salestracker/internal/ports"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the live dashboard with periodic background refreshes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if err := app.session.Init(ctx); err != nil {
				return fmt.Errorf("load session: %w", err)
			}
			snapshot := app.session.Snapshot()
			if snapshot.GroupID == "" || snapshot.Cookie == "" {
				return fmt.Errorf("not logged in, run `salestracker login` first: %w", domain.ErrMissingCredentials)
			}

			go func() {
				if err := app.session.StartupSync(ctx); err != nil {
					app.logger.Warn("startup sync failed", "err", err)
				}
			}()
			go app.session.NewScheduler(ctx, ports.SystemSleeper{}).Run(ctx)

			return dashboard.Run(ctx, app.session)
		},
	}
}
