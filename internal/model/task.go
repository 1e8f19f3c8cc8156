package model

import "time"

// Task status constants.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Task owns an ordered checklist. Checklist order is insertion order.
type Task struct {
	ID          string          `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Status      string          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
	Checklist   []ChecklistItem `json:"checklist" db:"-"`
}

// Progress returns the number of completed checklist items and the total.
func (t Task) Progress() (done, total int) {
	for _, item := range t.Checklist {
		if item.Completed {
			done++
		}
	}
	return done, len(t.Checklist)
}

// FindItem returns the checklist item with the given ID.
func (t Task) FindItem(id string) (ChecklistItem, bool) {
	for _, item := range t.Checklist {
		if item.ID == id {
			return item, true
		}
	}
	return ChecklistItem{}, false
}
