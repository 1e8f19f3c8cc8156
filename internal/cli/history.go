package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/task-checklist/internal/app"
	"github.com/nhle/task-checklist/internal/model"
	"github.com/nhle/task-checklist/internal/render"
)

func newActivityCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "activity <task-id>",
		Short: "Show a task's checklist activity, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if _, err := a.Store.GetTask(ctx, args[0]); err != nil {
					return err
				}
				activities, err := a.Store.GetActivities(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), render.Activities(activities))
				return nil
			})
		},
	}
}

func newNotificationsCommand(opts *rootOptions) *cobra.Command {
	var (
		userID   string
		markRead []string
	)
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show unread notifications for the configured user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				for _, id := range markRead {
					if err := a.Store.MarkNotificationRead(ctx, id); err != nil {
						return err
					}
				}

				uid := userID
				if uid == "" {
					uid = a.Actor().ID
				}
				unread, err := a.Store.GetUnreadNotifications(ctx, uid)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), render.Notifications(unread))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user ID (defaults to user.id from config)")
	cmd.Flags().StringSliceVar(&markRead, "mark-read", nil, "notification IDs to mark as read first")
	return cmd
}

func newConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or initialise the configuration file",
	}

	var userID, userName string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current configuration, with defaults filled in, to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := model.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if userID != "" {
				cfg.User.ID = userID
			}
			if userName != "" {
				cfg.User.Name = userName
			}
			if err := model.SaveConfig(opts.configPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", opts.configPath)
			return nil
		},
	}
	initCmd.Flags().StringVar(&userID, "user-id", "", "acting user ID")
	initCmd.Flags().StringVar(&userName, "user-name", "", "acting user display name")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := model.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "database.path: %s\n", cfg.Database.Path)
			fmt.Fprintf(out, "log.level: %s\n", cfg.Log.Level)
			fmt.Fprintf(out, "log.format: %s\n", cfg.Log.Format)
			fmt.Fprintf(out, "user.id: %s\n", cfg.User.ID)
			fmt.Fprintf(out, "user.name: %s\n", cfg.User.Name)
			fmt.Fprintf(out, "notifications.enabled: %t\n", cfg.Notifications.Enabled)
			fmt.Fprintf(out, "notifications.action_url: %s\n", cfg.Notifications.ActionURL)
			fmt.Fprintf(out, "checklist.validate_full_graph: %t\n", cfg.Checklist.ValidateFullGraph)
			return nil
		},
	}

	cmd.AddCommand(initCmd, show)
	return cmd
}
