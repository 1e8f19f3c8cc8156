package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/task-checklist/internal/model"
)

func TestMemoryStore_TaskLifecycle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	task, err := s.CreateTask(ctx, model.Task{Title: "Plan"})
	require.NoError(t, err)

	items := []model.ChecklistItem{{ID: "a", Title: "A", Dependencies: []string{}, BlockedBy: []string{}}}
	require.NoError(t, s.SaveChecklist(ctx, task.ID, items))

	// Mutating the caller's slice must not leak into the store.
	items[0].Title = "changed"

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, got.Checklist, 1)
	assert.Equal(t, "A", got.Checklist[0].Title)

	got.Checklist[0].Dependencies = append(got.Checklist[0].Dependencies, "x")
	again, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Checklist[0].Dependencies)
}

func TestMemoryStore_NotFound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.GetTask(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = s.SaveChecklist(ctx, "missing", nil)
	assert.True(t, errors.Is(err, ErrNotFound))

	err = s.MarkNotificationRead(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore_DuplicateTaskID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.CreateTask(ctx, model.Task{ID: "t1", Title: "One"})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, model.Task{ID: "t1", Title: "Again"})
	require.Error(t, err)
}

func TestMemoryStore_ActivitiesAndNotifications(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.RecordActivity(ctx, model.Activity{TaskID: "t1", Title: "first"}))
	require.NoError(t, s.RecordActivity(ctx, model.Activity{TaskID: "t1", Title: "second"}))
	require.NoError(t, s.RecordActivity(ctx, model.Activity{TaskID: "t2", Title: "other"}))

	acts, err := s.GetActivities(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, acts, 2)
	assert.Equal(t, "second", acts[0].Title)

	require.NoError(t, s.SendNotification(ctx, model.Notification{ID: "n1", UserID: "u1"}))
	require.NoError(t, s.SendNotification(ctx, model.Notification{ID: "n2", UserID: "u1"}))
	require.NoError(t, s.MarkNotificationRead(ctx, "n1"))

	unread, err := s.GetUnreadNotifications(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "n2", unread[0].ID)
	assert.Len(t, s.Notifications(), 2)
}
