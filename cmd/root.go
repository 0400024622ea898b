package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "salestracker",
		Short:         "Track a Roblox group's sales and balance from the terminal",
		Long:          "salestracker periodically syncs the sale-transaction history and Robux balance of one tracked group, persists the merged history locally, and renders it as a live dashboard.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if verbose {
			app.logger.SetLevel(log.DebugLevel)
		}
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newWatchCmd(app),
		newStatusCmd(app),
		newRefreshCmd(app),
		newResetCmd(app),
		newLogoutCmd(app),
	)

	return rootCmd
}
