package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"focusflow/internal/sessions"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			controller, err := opts.openController(cmd.Context(), nil, nil)
			if err != nil {
				return err
			}
			defer controller.Close()

			recent := controller.Analytics().RecentSessions(limit)
			out := cmd.OutOrStdout()
			if len(recent) == 0 {
				_, err := fmt.Fprintln(out, "No sessions recorded yet.")
				return err
			}
			for _, session := range recent {
				startedAt := session.StartedAt.In(opts.location).Format(time.DateOnly + " 15:04")
				line := fmt.Sprintf("%s  %-12s  %s", startedAt, session.Type.DisplayName(), sessions.FormatDuration(session.Duration))
				if session.Name != "" {
					line += "  " + session.Name
				}
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of sessions to show")
	return historyCmd
}
