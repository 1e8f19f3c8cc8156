package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/task-checklist/internal/app"
	"github.com/nhle/task-checklist/internal/model"
)

type itemFlags struct {
	title          string
	description    string
	hours          float64
	assignees      []string
	clearAssignees bool
}

func newItemCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Add, edit, delete and complete checklist items",
	}
	cmd.AddCommand(
		newItemAddCommand(opts),
		newItemUpdateCommand(opts),
		newItemDeleteCommand(opts),
		newItemToggleCommand(opts),
	)
	return cmd
}

func newItemAddCommand(opts *rootOptions) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "add <task-id> <title>",
		Short: "Append an item to a task's checklist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := model.ItemDraft{
				Title:       args[1],
				Description: f.description,
				Assignees:   parseUsers(f.assignees),
			}
			if cmd.Flags().Changed("hours") {
				draft.EstimatedHours = &f.hours
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				item, err := a.Coordinator.AddChecklistItem(ctx, args[0], draft, a.Actor())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added item %s\n", item.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "item description")
	cmd.Flags().Float64Var(&f.hours, "hours", 0, "estimated hours")
	cmd.Flags().StringArrayVarP(&f.assignees, "assignee", "a", nil, "assignee as id or id:name (repeatable)")
	return cmd
}

func newItemUpdateCommand(opts *rootOptions) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "update <task-id> <item-id>",
		Short: "Edit an item's title, description, estimate or assignees",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update model.ItemUpdate
			flags := cmd.Flags()
			if flags.Changed("title") {
				update.Title = &f.title
			}
			if flags.Changed("description") {
				update.Description = &f.description
			}
			if flags.Changed("hours") {
				update.EstimatedHours = &f.hours
			}
			if flags.Changed("assignee") {
				update.Assignees = parseUsers(f.assignees)
			}
			if f.clearAssignees {
				update.ClearAssignee = true
				update.Assignees = []model.User{}
			}

			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if err := a.Coordinator.UpdateChecklistItem(ctx, args[0], args[1], update, a.Actor()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated item %s\n", args[1])
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "new description")
	cmd.Flags().Float64Var(&f.hours, "hours", 0, "estimated hours")
	cmd.Flags().StringArrayVarP(&f.assignees, "assignee", "a", nil, "replace assignees, id or id:name (repeatable)")
	cmd.Flags().BoolVar(&f.clearAssignees, "clear-assignees", false, "remove every assignee")
	cmd.MarkFlagsMutuallyExclusive("assignee", "clear-assignees")
	return cmd
}

func newItemDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id> <item-id>",
		Short: "Delete an item and every dependency that references it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if err := a.Coordinator.DeleteChecklistItem(ctx, args[0], args[1], a.Actor()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %s\n", args[1])
				return nil
			})
		},
	}
}

func newItemToggleCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task-id> <item-id>",
		Short: "Complete an open item or reopen a completed one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if err := a.Coordinator.ToggleChecklistItem(ctx, args[0], args[1], a.Actor()); err != nil {
					return err
				}
				task, err := a.Store.GetTask(ctx, args[0])
				if err != nil {
					return err
				}
				item, _ := task.FindItem(args[1])
				state := "Reopened"
				if item.Completed {
					state = "Completed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %q\n", state, item.Title)
				return nil
			})
		},
	}
}

// parseUsers turns "id" or "id:name" values into users.
func parseUsers(values []string) []model.User {
	if values == nil {
		return nil
	}
	users := make([]model.User, 0, len(values))
	for _, v := range values {
		id, name, ok := strings.Cut(v, ":")
		if !ok || name == "" {
			name = id
		}
		users = append(users, model.User{ID: id, Name: name})
	}
	return users
}
