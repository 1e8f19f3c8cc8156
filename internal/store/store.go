package store

import (
	"context"
	"errors"

	"github.com/nhle/task-checklist/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// TaskRepository gives the checklist coordinator access to a task's
// checklist. The coordinator never holds on to the returned task; it reads,
// mutates a copy, and writes the whole checklist back.
type TaskRepository interface {
	// GetTask returns the task with its checklist in insertion order,
	// or an error wrapping ErrNotFound.
	GetTask(ctx context.Context, id string) (*model.Task, error)

	// SaveChecklist replaces the task's checklist with items.
	SaveChecklist(ctx context.Context, taskID string, items []model.ChecklistItem) error
}

// ActivityLog records human-readable activity entries.
type ActivityLog interface {
	RecordActivity(ctx context.Context, a model.Activity) error
}

// NotificationSink delivers notifications to users.
type NotificationSink interface {
	SendNotification(ctx context.Context, n model.Notification) error
}

// Store is the full persistence surface used by the host application.
type Store interface {
	TaskRepository
	ActivityLog
	NotificationSink

	// === Tasks ===

	CreateTask(ctx context.Context, task model.Task) (model.Task, error)
	ListTasks(ctx context.Context) ([]model.Task, error)

	// === Activities ===

	GetActivities(ctx context.Context, taskID string) ([]model.Activity, error)

	// === Notifications ===

	GetUnreadNotifications(ctx context.Context, userID string) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}
