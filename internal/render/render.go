// Package render formats tasks, checklists and their history for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/task-checklist/internal/checklist"
	"github.com/nhle/task-checklist/internal/model"
	"github.com/nhle/task-checklist/internal/theme"
)

const timeLayout = "2006-01-02 15:04"

// ItemState returns the display state of an item within its checklist.
func ItemState(items []model.ChecklistItem, item model.ChecklistItem) string {
	switch {
	case item.Completed:
		return theme.ItemDone
	case checklist.IsBlocked(items, item.ID):
		return theme.ItemBlocked
	default:
		return theme.ItemOpen
	}
}

// Task renders a task header, its progress and its checklist.
func Task(task model.Task, width int) string {
	var sections []string

	title := theme.HeaderStyle.Render(task.Title)
	status := theme.StatusStyle(task.Status).Render(task.Status)
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", status))
	sections = append(sections, "")

	sections = append(sections, field("ID:", task.ID))
	if !task.CreatedAt.IsZero() {
		sections = append(sections, field("Created:", task.CreatedAt.Local().Format(timeLayout)))
	}
	if !task.UpdatedAt.IsZero() {
		sections = append(sections, field("Updated:", task.UpdatedAt.Local().Format(timeLayout)))
	}
	done, total := task.Progress()
	sections = append(sections, field("Progress:", Progress(done, total, 20)))

	if task.Description != "" {
		sections = append(sections, "", task.Description)
	}

	sections = append(sections, "", separator(width), "")
	sections = append(sections, Checklist(task.Checklist))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Checklist renders one line per item in checklist order. Blocked items
// list the open prerequisites they are waiting on.
func Checklist(items []model.ChecklistItem) string {
	if len(items) == 0 {
		return theme.HelpStyle.Render("No checklist items")
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		state := ItemState(items, item)
		line := fmt.Sprintf("%s %s", marker(state), theme.ItemStyle(state).Render(item.Title))
		line += theme.MetaStyle.Render("  " + item.ID)

		var extra []string
		if names := assigneeNames(item); names != "" {
			extra = append(extra, "@"+names)
		}
		if item.EstimatedHours != nil {
			extra = append(extra, fmt.Sprintf("%gh", *item.EstimatedHours))
		}
		if item.Completed && item.CompletedBy != nil {
			extra = append(extra, "done by "+item.CompletedBy.Name)
		}
		if len(extra) > 0 {
			line += "  " + theme.MetaStyle.Render(strings.Join(extra, "  "))
		}
		lines = append(lines, line)

		if state == theme.ItemBlocked {
			lines = append(lines, theme.HelpStyle.Render(
				"      waiting on: "+strings.Join(openTitles(items, item), ", ")))
		}
	}
	return strings.Join(lines, "\n")
}

// Progress renders a fixed-width completion bar, e.g. "[#####-----] 1/2".
func Progress(done, total, width int) string {
	if width <= 0 {
		width = 10
	}
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	bar := lipgloss.NewStyle().Foreground(theme.ColorGreen).Render(strings.Repeat("#", filled)) +
		theme.SeparatorStyle.Render(strings.Repeat("-", width-filled))
	return fmt.Sprintf("[%s] %d/%d", bar, done, total)
}

// Validation renders the outcome of a full dependency check.
func Validation(result checklist.ValidationResult) string {
	if result.IsValid {
		return lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("Dependency graph is valid")
	}
	lines := []string{theme.ErrorStyle.Render("Dependency graph has cycles")}
	for _, msg := range result.Errors {
		lines = append(lines, "  "+msg)
	}
	return strings.Join(lines, "\n")
}

// Activities renders an activity log, one entry per line.
func Activities(activities []model.Activity) string {
	if len(activities) == 0 {
		return theme.HelpStyle.Render("No activity")
	}
	lines := make([]string, 0, len(activities))
	for _, a := range activities {
		lines = append(lines, fmt.Sprintf("%s  %s",
			theme.MetaStyle.Render(a.CreatedAt.Local().Format(timeLayout)),
			a.Description,
		))
	}
	return strings.Join(lines, "\n")
}

// Notifications renders a user's notifications.
func Notifications(notifications []model.Notification) string {
	if len(notifications) == 0 {
		return theme.HelpStyle.Render("No unread notifications")
	}
	lines := make([]string, 0, len(notifications))
	for _, n := range notifications {
		line := fmt.Sprintf("%s %s",
			theme.NotificationStyle(string(n.Type)).Render(n.Title+":"),
			n.Message,
		)
		if n.ActionURL != "" {
			line += "  " + theme.MetaStyle.Render(n.ActionURL)
		}
		lines = append(lines, line, theme.MetaStyle.Render("  "+n.ID))
	}
	return strings.Join(lines, "\n")
}

// Error renders a failed command for the user.
func Error(err error) string {
	return theme.ErrorStyle.Render("Error: ") + err.Error()
}

func marker(state string) string {
	switch state {
	case theme.ItemDone:
		return theme.ItemStyle(state).UnsetStrikethrough().Render("[x]")
	case theme.ItemBlocked:
		return theme.ItemStyle(state).Render("[!]")
	default:
		return "[ ]"
	}
}

func field(label, value string) string {
	return fmt.Sprintf("%-10s %s", theme.MetaStyle.Render(label), theme.ValueStyle.Render(value))
}

func separator(width int) string {
	if width <= 4 {
		width = 84
	}
	return theme.SeparatorStyle.Render(strings.Repeat("─", min(width-4, 80)))
}

func assigneeNames(item model.ChecklistItem) string {
	users := item.AssigneeSet()
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Name)
	}
	return strings.Join(names, ", @")
}

func openTitles(items []model.ChecklistItem, item model.ChecklistItem) []string {
	var titles []string
	for _, dep := range item.Dependencies {
		for _, other := range items {
			if other.ID == dep && !other.Completed {
				titles = append(titles, other.Title)
			}
		}
	}
	return titles
}
