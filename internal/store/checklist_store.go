package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/task-checklist/internal/model"
)

// checklistItemRow is the storage shape of a checklist item. User values and
// edge lists are kept as JSON text.
type checklistItemRow struct {
	ID             string     `db:"id"`
	TaskID         string     `db:"task_id"`
	Title          string     `db:"title"`
	Description    string     `db:"description"`
	Completed      int        `db:"completed"`
	CompletedBy    string     `db:"completed_by"`
	CompletedAt    *time.Time `db:"completed_at"`
	Assignee       string     `db:"assignee"`
	Assignees      string     `db:"assignees"`
	EstimatedHours *float64   `db:"estimated_hours"`
	Dependencies   string     `db:"dependencies"`
	BlockedBy      string     `db:"blocked_by"`
	SortOrder      int        `db:"sort_order"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// SaveChecklist replaces all checklist items of a task in one transaction.
func (s *SQLiteStore) SaveChecklist(
	ctx context.Context,
	taskID string,
	items []model.ChecklistItem,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE tasks SET updated_at = ? WHERE id = ?", time.Now().UTC(), taskID)
	if err != nil {
		return fmt.Errorf("touching task %s: %w", taskID, err)
	}
	if err := requireAffected(result, "task "+taskID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM checklist_items WHERE task_id = ?", taskID); err != nil {
		return fmt.Errorf("clearing checklist of task %s: %w", taskID, err)
	}

	if err := insertChecklist(ctx, tx, taskID, items); err != nil {
		return err
	}
	return tx.Commit()
}

// insertChecklist writes items with sort_order matching their position.
func insertChecklist(
	ctx context.Context,
	tx *sqlx.Tx,
	taskID string,
	items []model.ChecklistItem,
) error {
	if len(items) == 0 {
		return nil
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO checklist_items (
			id, task_id, title, description,
			completed, completed_by, completed_at,
			assignee, assignees, estimated_hours,
			dependencies, blocked_by, sort_order,
			created_at, updated_at
		) VALUES (
			?, ?, ?, ?,
			?, ?, ?,
			?, ?, ?,
			?, ?, ?,
			?, ?
		)`)
	if err != nil {
		return fmt.Errorf("preparing checklist insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range items {
		row, err := toChecklistRow(taskID, i+1, item)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx,
			row.ID, row.TaskID, row.Title, row.Description,
			row.Completed, row.CompletedBy, row.CompletedAt,
			row.Assignee, row.Assignees, row.EstimatedHours,
			row.Dependencies, row.BlockedBy, row.SortOrder,
			row.CreatedAt, row.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting checklist item %s: %w", item.ID, err)
		}
	}
	return nil
}

// getChecklist returns the items of a task ordered by sort_order.
func (s *SQLiteStore) getChecklist(ctx context.Context, taskID string) ([]model.ChecklistItem, error) {
	var rows []checklistItemRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM checklist_items WHERE task_id = ? ORDER BY sort_order", taskID)
	if err != nil {
		return nil, fmt.Errorf("querying checklist of task %s: %w", taskID, err)
	}

	items := make([]model.ChecklistItem, 0, len(rows))
	for _, row := range rows {
		item, err := fromChecklistRow(row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func toChecklistRow(taskID string, sortOrder int, item model.ChecklistItem) (checklistItemRow, error) {
	row := checklistItemRow{
		ID:             item.ID,
		TaskID:         taskID,
		Title:          item.Title,
		Description:    item.Description,
		Completed:      boolToInt(item.Completed),
		EstimatedHours: item.EstimatedHours,
		SortOrder:      sortOrder,
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
	}
	if item.CompletedAt != nil {
		at := item.CompletedAt.UTC()
		row.CompletedAt = &at
	}

	var err error
	if row.CompletedBy, err = marshalOptionalUser(item.CompletedBy); err != nil {
		return row, fmt.Errorf("marshaling completed_by for item %s: %w", item.ID, err)
	}
	if row.Assignee, err = marshalOptionalUser(item.Assignee); err != nil {
		return row, fmt.Errorf("marshaling assignee for item %s: %w", item.ID, err)
	}
	if row.Assignees, err = marshalJSON(nonNil(item.Assignees)); err != nil {
		return row, fmt.Errorf("marshaling assignees for item %s: %w", item.ID, err)
	}
	if row.Dependencies, err = marshalJSON(nonNil(item.Dependencies)); err != nil {
		return row, fmt.Errorf("marshaling dependencies for item %s: %w", item.ID, err)
	}
	if row.BlockedBy, err = marshalJSON(nonNil(item.BlockedBy)); err != nil {
		return row, fmt.Errorf("marshaling blocked_by for item %s: %w", item.ID, err)
	}
	return row, nil
}

func fromChecklistRow(row checklistItemRow) (model.ChecklistItem, error) {
	item := model.ChecklistItem{
		ID:             row.ID,
		Title:          row.Title,
		Description:    row.Description,
		Completed:      row.Completed != 0,
		CompletedAt:    row.CompletedAt,
		EstimatedHours: row.EstimatedHours,
		Dependencies:   []string{},
		BlockedBy:      []string{},
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}

	var err error
	if item.CompletedBy, err = unmarshalOptionalUser(row.CompletedBy); err != nil {
		return item, fmt.Errorf("unmarshaling completed_by for item %s: %w", row.ID, err)
	}
	if item.Assignee, err = unmarshalOptionalUser(row.Assignee); err != nil {
		return item, fmt.Errorf("unmarshaling assignee for item %s: %w", row.ID, err)
	}
	if err := unmarshalJSON(row.Assignees, &item.Assignees); err != nil {
		return item, fmt.Errorf("unmarshaling assignees for item %s: %w", row.ID, err)
	}
	if len(item.Assignees) == 0 {
		item.Assignees = nil
	}
	if err := unmarshalJSON(row.Dependencies, &item.Dependencies); err != nil {
		return item, fmt.Errorf("unmarshaling dependencies for item %s: %w", row.ID, err)
	}
	if err := unmarshalJSON(row.BlockedBy, &item.BlockedBy); err != nil {
		return item, fmt.Errorf("unmarshaling blocked_by for item %s: %w", row.ID, err)
	}
	return item, nil
}

func marshalOptionalUser(u *model.User) (string, error) {
	if u == nil {
		return "", nil
	}
	return marshalJSON(u)
}

func unmarshalOptionalUser(s string) (*model.User, error) {
	if s == "" {
		return nil, nil
	}
	var u model.User
	if err := json.Unmarshal([]byte(s), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalJSON[T any](s string, dst *[]T) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), dst)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
