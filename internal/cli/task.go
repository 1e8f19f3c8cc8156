package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/task-checklist/internal/app"
	"github.com/nhle/task-checklist/internal/model"
	"github.com/nhle/task-checklist/internal/render"
	"github.com/nhle/task-checklist/internal/theme"
)

func newTaskCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create and inspect tasks",
	}

	var description string
	create := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a task with an empty checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				task, err := a.Store.CreateTask(ctx, model.Task{
					Title:       args[0],
					Description: description,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", task.ID)
				return nil
			})
		},
	}
	create.Flags().StringVarP(&description, "description", "d", "", "task description")

	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks with their checklist progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				tasks, err := a.Store.ListTasks(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(tasks) == 0 {
					fmt.Fprintln(out, theme.HelpStyle.Render("No tasks"))
					return nil
				}
				for _, task := range tasks {
					done, total := task.Progress()
					fmt.Fprintf(out, "%s  %s  %s %s\n",
						task.ID,
						render.Progress(done, total, 10),
						theme.StatusStyle(task.Status).Render(task.Status),
						task.Title,
					)
				}
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task and its checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				task, err := a.Store.GetTask(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), render.Task(*task, 84))
				return nil
			})
		},
	}

	cmd.AddCommand(create, list, show)
	return cmd
}
