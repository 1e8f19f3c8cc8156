package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/task-checklist/internal/model"
)

// RecordActivity inserts an activity entry. Generates a UUID if ID is empty.
func (s *SQLiteStore) RecordActivity(ctx context.Context, a model.Activity) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (
			id, type, title, description, user_id, user_name,
			task_id, checklist_item_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.Type), a.Title, a.Description, a.User.ID, a.User.Name,
		a.TaskID, a.ChecklistItemID, a.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording activity: %w", err)
	}
	return nil
}

// GetActivities retrieves a task's activity entries, newest first.
func (s *SQLiteStore) GetActivities(ctx context.Context, taskID string) ([]model.Activity, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, type, title, description, user_id, user_name,
			task_id, checklist_item_id, created_at
		FROM activities WHERE task_id = ?
		ORDER BY created_at DESC, rowid DESC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("querying activities for task %s: %w", taskID, err)
	}
	defer rows.Close()

	var activities []model.Activity
	for rows.Next() {
		var (
			a       model.Activity
			actType string
		)
		if err := rows.Scan(
			&a.ID, &actType, &a.Title, &a.Description, &a.User.ID, &a.User.Name,
			&a.TaskID, &a.ChecklistItemID, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		a.Type = model.ActivityType(actType)
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
