package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"focusflow/internal/sessions"
)

func newStatsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print session statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			controller, err := opts.openController(cmd.Context(), nil, nil)
			if err != nil {
				return err
			}
			defer controller.Close()

			analytics := controller.Analytics()
			stats := analytics.Stats()
			out := cmd.OutOrStdout()
			rows := []struct {
				label string
				value string
			}{
				{"Today", fmt.Sprint(stats.Today)},
				{"This week", fmt.Sprint(stats.Week)},
				{"This month", fmt.Sprint(stats.Month)},
				{"This year", fmt.Sprint(stats.Year)},
				{"Total", fmt.Sprint(stats.Total)},
				{"Streak", fmt.Sprintf("%d days", analytics.ProductivityStreak())},
				{"Total time", sessions.FormatDuration(analytics.TotalTimeSpent())},
				{"Time today", sessions.FormatDuration(analytics.TotalTimeSpentToday())},
			}
			for _, row := range rows {
				if _, err := fmt.Fprintf(out, "%-12s %s\n", row.label+":", row.value); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
