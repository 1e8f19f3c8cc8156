package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/task-checklist/internal/model"
)

// MemoryStore is an in-process Store. Every read and write copies the
// checklist so callers never share slices with the store.
type MemoryStore struct {
	mu            sync.RWMutex
	tasks         map[string]*model.Task
	order         []string
	activities    []model.Activity
	notifications []model.Notification
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tasks: make(map[string]*model.Task)}
}

// CreateTask stores a new task. Generates a UUID if ID is empty.
func (s *MemoryStore) CreateTask(_ context.Context, task model.Task) (model.Task, error) {
	if strings.TrimSpace(task.Title) == "" {
		return model.Task{}, fmt.Errorf("task title must not be empty")
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Status == "" {
		task.Status = model.TaskStatusTodo
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	task.Checklist = model.CloneChecklist(task.Checklist)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[task.ID]; exists {
		return model.Task{}, fmt.Errorf("task %s already exists", task.ID)
	}
	stored := task
	s.tasks[task.ID] = &stored
	s.order = append(s.order, task.ID)

	task.Checklist = model.CloneChecklist(stored.Checklist)
	return task, nil
}

// GetTask returns a copy of the task.
func (s *MemoryStore) GetTask(_ context.Context, id string) (*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	out := *t
	out.Checklist = model.CloneChecklist(t.Checklist)
	return &out, nil
}

// ListTasks returns all tasks in creation order.
func (s *MemoryStore) ListTasks(_ context.Context) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]model.Task, 0, len(s.order))
	for _, id := range s.order {
		t := *s.tasks[id]
		t.Checklist = model.CloneChecklist(t.Checklist)
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// SaveChecklist replaces the task's checklist.
func (s *MemoryStore) SaveChecklist(_ context.Context, taskID string, items []model.ChecklistItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	t.Checklist = model.CloneChecklist(items)
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// RecordActivity appends an activity entry.
func (s *MemoryStore) RecordActivity(_ context.Context, a model.Activity) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = append(s.activities, a)
	return nil
}

// GetActivities returns the task's activity entries, newest first.
func (s *MemoryStore) GetActivities(_ context.Context, taskID string) ([]model.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Activity
	for _, a := range s.activities {
		if a.TaskID == taskID {
			out = append(out, a)
		}
	}
	slices.Reverse(out)
	return out, nil
}

// SendNotification stores a notification for its recipient.
func (s *MemoryStore) SendNotification(_ context.Context, n model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
	return nil
}

// GetUnreadNotifications returns the user's unread notifications, newest first.
func (s *MemoryStore) GetUnreadNotifications(_ context.Context, userID string) ([]model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Notification
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			out = append(out, n)
		}
	}
	slices.Reverse(out)
	return out, nil
}

// MarkNotificationRead marks a single notification as read.
func (s *MemoryStore) MarkNotificationRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			return nil
		}
	}
	return fmt.Errorf("notification %s: %w", id, ErrNotFound)
}

// Notifications returns every stored notification in send order.
func (s *MemoryStore) Notifications() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notifications)
}

// Activities returns every stored activity in record order.
func (s *MemoryStore) Activities() []model.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.activities)
}
