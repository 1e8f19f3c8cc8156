package testutil

import (
	"context"
	"testing"

	"github.com/nhle/task-checklist/internal/model"
	"github.com/nhle/task-checklist/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestTask creates a task with the given title in s and returns it.
func NewTestTask(t *testing.T, s interface {
	CreateTask(ctx context.Context, task model.Task) (model.Task, error)
}, title string) model.Task {
	t.Helper()

	task, err := s.CreateTask(context.Background(), model.Task{Title: title})
	if err != nil {
		t.Fatalf("creating test task: %v", err)
	}
	return task
}
