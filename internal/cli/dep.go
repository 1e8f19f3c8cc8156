package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/task-checklist/internal/app"
	"github.com/nhle/task-checklist/internal/render"
)

func newDepCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage dependencies between checklist items",
	}

	add := &cobra.Command{
		Use:   "add <task-id> <prerequisite-id> <dependent-id>",
		Short: "Make dependent-id wait for prerequisite-id",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				err := a.Coordinator.AddChecklistDependency(ctx, args[0], args[1], args[2], a.Actor())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s now depends on %s\n", args[2], args[1])
				return nil
			})
		},
	}

	rm := &cobra.Command{
		Use:     "rm <task-id> <prerequisite-id> <dependent-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a dependency",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				err := a.Coordinator.RemoveChecklistDependency(ctx, args[0], args[1], args[2], a.Actor())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s no longer depends on %s\n", args[2], args[1])
				return nil
			})
		},
	}

	cmd.AddCommand(add, rm)
	return cmd
}

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <task-id>",
		Short: "Check a task's dependency graph for cycles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				result, err := a.Coordinator.ValidateChecklistDependencies(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), render.Validation(result))
				if !result.IsValid {
					return errGraphInvalid
				}
				return nil
			})
		},
	}
}

func newBlockedCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "blocked <task-id>",
		Short: "List items waiting on open prerequisites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				blocked, err := a.Coordinator.GetBlockedChecklistItems(ctx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(blocked) == 0 {
					fmt.Fprintln(out, "No blocked items")
					return nil
				}
				for _, item := range blocked {
					fmt.Fprintf(out, "%s  %s\n", item.ID, item.Title)
				}
				return nil
			})
		},
	}
}
