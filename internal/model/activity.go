package model

import "time"

// ActivityType identifies what happened in an activity log entry.
type ActivityType string

const (
	ActivityChecklistItemAdded         ActivityType = "checklist_item_added"
	ActivityChecklistItemUpdated       ActivityType = "checklist_item_updated"
	ActivityChecklistItemDeleted       ActivityType = "checklist_item_deleted"
	ActivityChecklistItemCompleted     ActivityType = "checklist_item_completed"
	ActivityChecklistItemReopened      ActivityType = "checklist_item_reopened"
	ActivityChecklistDependencyAdded   ActivityType = "checklist_dependency_added"
	ActivityChecklistDependencyRemoved ActivityType = "checklist_dependency_removed"
)

// Activity is a human-readable record of a change to a task.
type Activity struct {
	ID              string       `json:"id" db:"id"`
	Type            ActivityType `json:"type" db:"type"`
	Title           string       `json:"title" db:"title"`
	Description     string       `json:"description" db:"description"`
	User            User         `json:"user" db:"-"`
	TaskID          string       `json:"taskId" db:"task_id"`
	ChecklistItemID string       `json:"checklistItemId,omitempty" db:"checklist_item_id"`
	CreatedAt       time.Time    `json:"createdAt" db:"created_at"`
}
