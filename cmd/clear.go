package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"focusflow/internal/platform"
)

func newClearCommand(opts *rootOptions) *cobra.Command {
	var confirmed bool

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return errors.New("refusing to clear history without --yes")
			}
			// The tray app would write its in-memory sessions back.
			lock, err := platform.LockSingleInstance(opts.instanceName)
			if err != nil {
				if errors.Is(err, platform.ErrAlreadyRunning) {
					return fmt.Errorf("%s is running, quit it before clearing history", appName)
				}
				return err
			}
			defer func() {
				_ = lock.Release()
			}()

			controller, err := opts.openController(cmd.Context(), nil, nil)
			if err != nil {
				return err
			}
			defer controller.Close()

			removed := controller.Store().Len()
			if err := controller.ClearHistory(); err != nil {
				return fmt.Errorf("clear history: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d sessions\n", removed)
			return err
		},
	}
	clearCmd.Flags().BoolVar(&confirmed, "yes", false, "confirm deletion")
	return clearCmd
}
