// Package cmd implements the focusflow command line.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"focusflow/internal/app"
	"focusflow/internal/clock"
	"focusflow/internal/core/timekeeper"
	"focusflow/internal/platform"
	"focusflow/internal/storage"
)

const appName = "focusflow"

var version = "dev"

// rootOptions carries flag values and the collaborators shared by every
// subcommand.
type rootOptions struct {
	configDir string
	debug     bool

	clock        clock.Clock
	location     *time.Location
	logger       *slog.Logger
	instanceName string
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	if opts.clock == nil {
		opts.clock = clock.NewSystem()
	}
	if opts.location == nil {
		opts.location = time.Local
	}
	if opts.instanceName == "" {
		opts.instanceName = appName
	}

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "A focus timer that lives in the system tray",
		Long:          `focusflow alternates work sessions with short and long breaks and keeps a history of completed sessions.`,
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.debug {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(opts.logger)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTray(cmd.Context(), opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "",
		"directory holding settings.yaml and the session history (default: user config dir)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newStatsCommand(opts),
		newHistoryCommand(opts),
		newExportCommand(opts),
		newClearCommand(opts),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCommand(&rootOptions{}).ExecuteContext(context.Background())
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
}

func (opts *rootOptions) paths() (storage.Paths, error) {
	if opts.configDir != "" {
		return storage.Paths{Dir: opts.configDir}, nil
	}
	return storage.DefaultPaths(appName)
}

func (opts *rootOptions) openController(ctx context.Context, notifier timekeeper.Notifier, idle platform.IdleProvider) (*app.Controller, error) {
	paths, err := opts.paths()
	if err != nil {
		return nil, err
	}
	controller, err := app.Open(ctx, app.Options{
		Paths:        paths,
		Clock:        opts.clock,
		Location:     opts.location,
		Logger:       opts.logger,
		Notifier:     notifier,
		IdleProvider: idle,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", appName, err)
	}
	return controller, nil
}
