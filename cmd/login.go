package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var (
		groupID string
		cookie  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store group credentials and run the first full sync",
		Long:  "login validates the group id and .ROBLOSECURITY cookie against the live feed by running a full visible backfill. Credentials are persisted only after the backfill returns data.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cookie == "" {
				value, err := promptLine(cmd, "Paste the .ROBLOSECURITY cookie: ")
				if err != nil {
					return err
				}
				cookie = value
			}

			if err := app.session.Login(cmd.Context(), groupID, cookie); err != nil {
				return fmt.Errorf("login: %w", err)
			}

			snapshot := app.session.Snapshot()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in to group %s, %d sales tracked\n", snapshot.GroupID, len(snapshot.Transactions))
			return nil
		},
	}

	cmd.Flags().StringVar(&groupID, "group-id", "", "Roblox group id to track")
	cmd.Flags().StringVar(&cookie, "cookie", "", ".ROBLOSECURITY session cookie (prompted when omitted)")
	_ = cmd.MarkFlagRequired("group-id")

	return cmd
}

func promptLine(cmd *cobra.Command, prompt string) (string, error) {
	_, _ = fmt.Fprint(cmd.OutOrStdout(), prompt)

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
