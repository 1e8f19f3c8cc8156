// Package cli implements the checklist command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/nhle/task-checklist/internal/app"
	"github.com/nhle/task-checklist/internal/model"
)

type rootOptions struct {
	configPath  string
	metricsFile string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "checklist",
		Short: "Manage task checklists and the dependencies between their items",
		Long: `checklist keeps an ordered checklist per task. Items can depend on
other items of the same checklist; an item cannot be completed while any of
its prerequisites is open, and dependencies that would form a cycle are
rejected.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", model.DefaultConfigPath(), "config file")
	root.PersistentFlags().StringVar(&opts.metricsFile, "metrics-file", "",
		"write operation counters to this file in Prometheus text format (node-exporter textfile collector)")

	root.AddCommand(
		newTaskCommand(opts),
		newItemCommand(opts),
		newDepCommand(opts),
		newValidateCommand(opts),
		newBlockedCommand(opts),
		newActivityCommand(opts),
		newNotificationsCommand(opts),
		newConfigCommand(opts),
	)
	return root
}

// ExecuteContext runs the command tree with os.Args.
func ExecuteContext(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// withApp loads the configuration, opens the application for the duration
// of fn and closes it afterwards. Counters are written to the metrics file
// even when fn fails, so rejected changes are recorded too.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(context.Context, *app.App) error) error {
	cfg, err := model.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	a, err := app.New(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	err = fn(cmd.Context(), a)
	if opts.metricsFile != "" {
		if werr := prometheus.WriteToTextfile(opts.metricsFile, a.Registry); werr != nil {
			err = errors.Join(err, fmt.Errorf("writing metrics to %s: %w", opts.metricsFile, werr))
		}
	}
	return err
}
