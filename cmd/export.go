package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var output string

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export every session as CSV",
		Long: `Export every recorded session as CSV.

Examples:
  # Print to stdout
  focusflow export

  # Write to a file
  focusflow export -o sessions.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			controller, err := opts.openController(cmd.Context(), nil, nil)
			if err != nil {
				return err
			}
			defer controller.Close()

			if output == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), controller.Analytics().ExportCSV())
				return err
			}
			if err := controller.ExportCSV(output); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sessions to %s\n", controller.Store().Len(), output)
			return err
		},
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "write CSV to this file instead of stdout")
	return exportCmd
}
