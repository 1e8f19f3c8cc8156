package model

import (
	"slices"
	"time"
)

// ChecklistItem is a unit of work inside a task's checklist.
//
// Dependencies lists the IDs of items that must be completed before this
// item can be completed. BlockedBy is the mirror list: the IDs of items that
// list this item in their Dependencies.
type ChecklistItem struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Completed      bool       `json:"completed"`
	CompletedBy    *User      `json:"completedBy,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	Assignee       *User      `json:"assignee,omitempty"`
	Assignees      []User     `json:"assignees,omitempty"`
	EstimatedHours *float64   `json:"estimatedHours,omitempty"`
	Dependencies   []string   `json:"dependencies"`
	BlockedBy      []string   `json:"blockedBy"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// AssigneeSet returns the single assignee and all multi-assignees,
// deduplicated by user ID, in that order.
func (i ChecklistItem) AssigneeSet() []User {
	var users []User
	if i.Assignee != nil {
		users = append(users, *i.Assignee)
	}
	for _, u := range i.Assignees {
		if !HasUser(users, u.ID) {
			users = append(users, u)
		}
	}
	return users
}

// HasDependency reports whether id is one of the item's prerequisites.
func (i ChecklistItem) HasDependency(id string) bool {
	return slices.Contains(i.Dependencies, id)
}

// Clone returns a deep copy of the item.
func (i ChecklistItem) Clone() ChecklistItem {
	c := i
	if i.CompletedBy != nil {
		u := *i.CompletedBy
		c.CompletedBy = &u
	}
	if i.CompletedAt != nil {
		t := *i.CompletedAt
		c.CompletedAt = &t
	}
	if i.Assignee != nil {
		u := *i.Assignee
		c.Assignee = &u
	}
	if i.EstimatedHours != nil {
		h := *i.EstimatedHours
		c.EstimatedHours = &h
	}
	if i.Assignees != nil {
		c.Assignees = append([]User(nil), i.Assignees...)
	}
	c.Dependencies = append([]string{}, i.Dependencies...)
	c.BlockedBy = append([]string{}, i.BlockedBy...)
	return c
}

// CloneChecklist deep-copies a checklist.
func CloneChecklist(items []ChecklistItem) []ChecklistItem {
	if items == nil {
		return nil
	}
	out := make([]ChecklistItem, len(items))
	for idx, item := range items {
		out[idx] = item.Clone()
	}
	return out
}

// ItemDraft holds the caller-supplied fields for a new checklist item.
type ItemDraft struct {
	Title          string
	Description    string
	Assignee       *User
	Assignees      []User
	EstimatedHours *float64
}

// ItemUpdate is a partial update of a checklist item. Nil pointers leave
// the field unchanged. A nil Assignees slice leaves the list unchanged; an
// empty non-nil slice clears it.
//
// Completion state and dependency edges are not part of an update; they
// change only through toggle and the dependency operations.
type ItemUpdate struct {
	Title          *string
	Description    *string
	Assignee       *User
	ClearAssignee  bool
	Assignees      []User
	EstimatedHours *float64
}
