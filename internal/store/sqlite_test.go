package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/task-checklist/internal/model"
	"github.com/nhle/task-checklist/internal/store"
	"github.com/nhle/task-checklist/internal/testutil"
)

func TestSQLiteStore_CreateAndGetTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	created, err := s.CreateTask(ctx, model.Task{Title: "Launch", Description: "v1"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.TaskStatusTodo, created.Status)

	got, err := s.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Launch", got.Title)
	assert.Equal(t, "v1", got.Description)
	assert.Empty(t, got.Checklist)
}

func TestSQLiteStore_CreateTaskRejectsEmptyTitle(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.CreateTask(context.Background(), model.Task{Title: "  "})
	require.Error(t, err)
}

func TestSQLiteStore_GetTaskNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.GetTask(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestSQLiteStore_SaveChecklistRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	task := testutil.NewTestTask(t, s, "Release")

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	hours := 1.5
	ada := model.User{ID: "u1", Name: "Ada"}
	items := []model.ChecklistItem{
		{
			ID: "a", Title: "Write code", Completed: true,
			CompletedBy: &ada, CompletedAt: &now,
			Dependencies: []string{}, BlockedBy: []string{"b"},
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "b", Title: "Ship", Assignee: &ada,
			Assignees:      []model.User{ada, {ID: "u2", Name: "Bob"}},
			EstimatedHours: &hours,
			Dependencies:   []string{"a"}, BlockedBy: []string{},
			CreatedAt: now, UpdatedAt: now,
		},
	}

	require.NoError(t, s.SaveChecklist(ctx, task.ID, items))

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, got.Checklist, 2)

	a, b := got.Checklist[0], got.Checklist[1]
	assert.Equal(t, "a", a.ID)
	assert.True(t, a.Completed)
	require.NotNil(t, a.CompletedBy)
	assert.Equal(t, ada, *a.CompletedBy)
	require.NotNil(t, a.CompletedAt)
	assert.True(t, now.Equal(*a.CompletedAt))
	assert.Equal(t, []string{"b"}, a.BlockedBy)
	assert.Empty(t, a.Dependencies)
	assert.Nil(t, a.EstimatedHours)

	assert.Equal(t, "b", b.ID)
	assert.False(t, b.Completed)
	assert.Nil(t, b.CompletedBy)
	assert.Nil(t, b.CompletedAt)
	require.NotNil(t, b.Assignee)
	assert.Equal(t, "u1", b.Assignee.ID)
	assert.Len(t, b.Assignees, 2)
	require.NotNil(t, b.EstimatedHours)
	assert.Equal(t, 1.5, *b.EstimatedHours)
	assert.Equal(t, []string{"a"}, b.Dependencies)
}

func TestSQLiteStore_SaveChecklistReplacesItems(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	task := testutil.NewTestTask(t, s, "Release")

	now := time.Now().UTC()
	first := []model.ChecklistItem{
		{ID: "a", Title: "A", CreatedAt: now, UpdatedAt: now},
		{ID: "b", Title: "B", CreatedAt: now, UpdatedAt: now},
	}
	require.NoError(t, s.SaveChecklist(ctx, task.ID, first))
	require.NoError(t, s.SaveChecklist(ctx, task.ID, first[1:]))

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, got.Checklist, 1)
	assert.Equal(t, "b", got.Checklist[0].ID)
}

func TestSQLiteStore_SaveChecklistUnknownTask(t *testing.T) {
	s := testutil.NewTestStore(t)

	err := s.SaveChecklist(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestSQLiteStore_ListTasks(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	testutil.NewTestTask(t, s, "One")
	testutil.NewTestTask(t, s, "Two")

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestSQLiteStore_Activities(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordActivity(ctx, model.Activity{
		Type: model.ActivityChecklistItemAdded, Title: "Checklist item added",
		User: model.User{ID: "u1", Name: "Ada"}, TaskID: "t1", ChecklistItemID: "a",
		CreatedAt: base,
	}))
	require.NoError(t, s.RecordActivity(ctx, model.Activity{
		Type: model.ActivityChecklistItemCompleted, Title: "Checklist item completed",
		User: model.User{ID: "u1", Name: "Ada"}, TaskID: "t1", ChecklistItemID: "a",
		CreatedAt: base.Add(time.Minute),
	}))
	require.NoError(t, s.RecordActivity(ctx, model.Activity{
		Type: model.ActivityChecklistItemAdded, Title: "other", TaskID: "t2",
	}))

	activities, err := s.GetActivities(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, model.ActivityChecklistItemCompleted, activities[0].Type)
	assert.Equal(t, "Ada", activities[0].User.Name)
	assert.Equal(t, "a", activities[1].ChecklistItemID)
}

func TestSQLiteStore_Notifications(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SendNotification(ctx, model.Notification{
		ID: "n1", Title: "Unblocked", Message: "go", Type: model.NotificationSuccess, UserID: "u1",
	}))
	require.NoError(t, s.SendNotification(ctx, model.Notification{
		ID: "n2", Title: "Assigned", Message: "yours", UserID: "u2",
	}))

	unread, err := s.GetUnreadNotifications(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, model.NotificationSuccess, unread[0].Type)

	require.NoError(t, s.MarkNotificationRead(ctx, "n1"))
	unread, err = s.GetUnreadNotifications(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, unread)

	err = s.MarkNotificationRead(ctx, "missing")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	unread, err = s.GetUnreadNotifications(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, model.NotificationInfo, unread[0].Type)
}
