package checklist

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nhle/task-checklist/internal/model"
)

// indexOf returns the position of the item with the given ID, or -1.
func indexOf(items []model.ChecklistItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// AddItem appends a new open item built from draft. The item starts with no
// dependency edges.
func AddItem(
	items []model.ChecklistItem,
	draft model.ItemDraft,
	id string,
	now time.Time,
) ([]model.ChecklistItem, model.ChecklistItem, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return items, model.ChecklistItem{}, fmt.Errorf("%w: title must not be empty", ErrInvalidItem)
	}
	if draft.EstimatedHours != nil && *draft.EstimatedHours < 0 {
		return items, model.ChecklistItem{}, fmt.Errorf("%w: estimated hours must not be negative", ErrInvalidItem)
	}

	item := model.ChecklistItem{
		ID:             id,
		Title:          strings.TrimSpace(draft.Title),
		Description:    draft.Description,
		Assignee:       draft.Assignee,
		Assignees:      draft.Assignees,
		EstimatedHours: draft.EstimatedHours,
		Dependencies:   []string{},
		BlockedBy:      []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	item = item.Clone()

	return append(items, item), item, nil
}

// UpdateItem merges update into the item and refreshes UpdatedAt.
func UpdateItem(
	items []model.ChecklistItem,
	itemID string,
	update model.ItemUpdate,
	now time.Time,
) error {
	idx := indexOf(items, itemID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidItem)
	}
	if update.EstimatedHours != nil && *update.EstimatedHours < 0 {
		return fmt.Errorf("%w: estimated hours must not be negative", ErrInvalidItem)
	}

	item := &items[idx]
	if update.Title != nil {
		item.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		item.Description = *update.Description
	}
	if update.ClearAssignee {
		item.Assignee = nil
	} else if update.Assignee != nil {
		u := *update.Assignee
		item.Assignee = &u
	}
	if update.Assignees != nil {
		item.Assignees = append([]model.User(nil), update.Assignees...)
	}
	if update.EstimatedHours != nil {
		h := *update.EstimatedHours
		item.EstimatedHours = &h
	}
	item.UpdatedAt = now
	return nil
}

// DeleteItem removes the item and strips its ID from every other item's
// edge lists.
func DeleteItem(items []model.ChecklistItem, itemID string, now time.Time) ([]model.ChecklistItem, error) {
	idx := indexOf(items, itemID)
	if idx < 0 {
		return items, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	items = slices.Delete(items, idx, idx+1)
	for i := range items {
		deps := removeID(items[i].Dependencies, itemID)
		blocked := removeID(items[i].BlockedBy, itemID)
		if len(deps) != len(items[i].Dependencies) || len(blocked) != len(items[i].BlockedBy) {
			items[i].UpdatedAt = now
		}
		items[i].Dependencies = deps
		items[i].BlockedBy = blocked
	}
	return items, nil
}

// ToggleItem flips the completion state. Completing records who and when;
// reopening clears both. It does not consult the dependency graph.
func ToggleItem(items []model.ChecklistItem, itemID string, actor model.User, now time.Time) error {
	idx := indexOf(items, itemID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	item := &items[idx]

	if item.Completed {
		item.Completed = false
		item.CompletedBy = nil
		item.CompletedAt = nil
	} else {
		by := actor
		at := now
		item.Completed = true
		item.CompletedBy = &by
		item.CompletedAt = &at
	}
	item.UpdatedAt = now
	return nil
}

// removeID returns ids without any occurrence of id.
func removeID(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// appendUnique appends id unless it is already present.
func appendUnique(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}
