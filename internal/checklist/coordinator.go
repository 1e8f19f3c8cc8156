package checklist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/task-checklist/internal/metrics"
	"github.com/nhle/task-checklist/internal/model"
	"github.com/nhle/task-checklist/internal/store"
)

// Operation names used for logging and metrics.
const (
	opAddItem          = "add_item"
	opUpdateItem       = "update_item"
	opDeleteItem       = "delete_item"
	opToggleItem       = "toggle_item"
	opAddDependency    = "add_dependency"
	opRemoveDependency = "remove_dependency"
	opValidate         = "validate"
	opBlocked          = "blocked"
)

// Coordinator is the entry point for checklist mutations. It loads a task's
// checklist from the repository, validates the change, writes the new
// checklist back, and then emits activity entries and notifications.
//
// A Coordinator holds no checklist state of its own; the host decides the
// lifetime of the repository it is given.
type Coordinator struct {
	tasks         store.TaskRepository
	activities    store.ActivityLog
	notifications store.NotificationSink

	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string

	validateFullGraph    bool
	notificationsEnabled bool
	actionURL            string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithMetrics sets the counters updated by each operation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithIDGenerator replaces the UUID generator used for new items.
func WithIDGenerator(newID func() string) Option {
	return func(c *Coordinator) { c.newID = newID }
}

// WithFullGraphValidation toggles re-validation of every existing edge
// before a new dependency is accepted.
func WithFullGraphValidation(enabled bool) Option {
	return func(c *Coordinator) { c.validateFullGraph = enabled }
}

// WithNotifications toggles notification delivery and sets the action URL
// template; "{taskId}" in the template is replaced with the task ID.
func WithNotifications(enabled bool, actionURL string) Option {
	return func(c *Coordinator) {
		c.notificationsEnabled = enabled
		c.actionURL = actionURL
	}
}

// NewCoordinator creates a Coordinator over the given collaborators.
func NewCoordinator(
	tasks store.TaskRepository,
	activities store.ActivityLog,
	notifications store.NotificationSink,
	opts ...Option,
) *Coordinator {
	c := &Coordinator{
		tasks:                tasks,
		activities:           activities,
		notifications:        notifications,
		logger:               slog.New(slog.DiscardHandler),
		now:                  func() time.Time { return time.Now().UTC() },
		newID:                func() string { return uuid.New().String() },
		validateFullGraph:    true,
		notificationsEnabled: true,
		actionURL:            "/tasks/{taskId}",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddChecklistItem appends a new item to the task's checklist.
func (c *Coordinator) AddChecklistItem(
	ctx context.Context,
	taskID string,
	draft model.ItemDraft,
	actor model.User,
) (model.ChecklistItem, error) {
	task, err := c.loadTask(ctx, taskID)
	if err != nil {
		return model.ChecklistItem{}, c.finish(ctx, opAddItem, taskID, err)
	}

	items, item, err := AddItem(model.CloneChecklist(task.Checklist), draft, c.newID(), c.now())
	if err != nil {
		return model.ChecklistItem{}, c.finish(ctx, opAddItem, taskID, err)
	}
	if err := c.save(ctx, taskID, items); err != nil {
		return model.ChecklistItem{}, c.finish(ctx, opAddItem, taskID, err)
	}

	c.record(ctx, model.Activity{
		Type:            model.ActivityChecklistItemAdded,
		Title:           "Checklist item added",
		Description:     fmt.Sprintf("%s added %q to %q", actor.Name, item.Title, task.Title),
		User:            actor,
		TaskID:          taskID,
		ChecklistItemID: item.ID,
	})
	return item, c.finish(ctx, opAddItem, taskID, nil)
}

// UpdateChecklistItem applies a partial update. Every assignee that was not
// on the item before, other than actor, is notified.
func (c *Coordinator) UpdateChecklistItem(
	ctx context.Context,
	taskID, itemID string,
	update model.ItemUpdate,
	actor model.User,
) error {
	task, err := c.loadTask(ctx, taskID)
	if err != nil {
		return c.finish(ctx, opUpdateItem, taskID, err)
	}

	items := model.CloneChecklist(task.Checklist)
	idx := indexOf(items, itemID)
	if idx < 0 {
		return c.finish(ctx, opUpdateItem, taskID, fmt.Errorf("%w: %s", ErrItemNotFound, itemID))
	}
	before := items[idx].AssigneeSet()

	if err := UpdateItem(items, itemID, update, c.now()); err != nil {
		return c.finish(ctx, opUpdateItem, taskID, err)
	}
	if err := c.save(ctx, taskID, items); err != nil {
		return c.finish(ctx, opUpdateItem, taskID, err)
	}

	item := items[idx]
	for _, u := range item.AssigneeSet() {
		if u.ID == actor.ID || model.HasUser(before, u.ID) {
			continue
		}
		c.notify(ctx, "assigned", model.Notification{
			Title:     "Checklist item assigned",
			Message:   fmt.Sprintf("%s assigned you to %q in %q", actor.Name, item.Title, task.Title),
			Type:      model.NotificationInfo,
			UserID:    u.ID,
			ActionURL: c.actionURLFor(taskID),
		})
	}

	c.record(ctx, model.Activity{
		Type:            model.ActivityChecklistItemUpdated,
		Title:           "Checklist item updated",
		Description:     fmt.Sprintf("%s updated %q", actor.Name, item.Title),
		User:            actor,
		TaskID:          taskID,
		ChecklistItemID: itemID,
	})
	return c.finish(ctx, opUpdateItem, taskID, nil)
}

// DeleteChecklistItem removes an item and every dependency edge touching it.
func (c *Coordinator) DeleteChecklistItem(
	ctx context.Context,
	taskID, itemID string,
	actor model.User,
) error {
	task, err := c.loadTask(ctx, taskID)
	if err != nil {
		return c.finish(ctx, opDeleteItem, taskID, err)
	}

	deleted, ok := task.FindItem(itemID)
	if !ok {
		return c.finish(ctx, opDeleteItem, taskID, fmt.Errorf("%w: %s", ErrItemNotFound, itemID))
	}
	items, err := DeleteItem(model.CloneChecklist(task.Checklist), itemID, c.now())
	if err != nil {
		return c.finish(ctx, opDeleteItem, taskID, err)
	}
	if err := c.save(ctx, taskID, items); err != nil {
		return c.finish(ctx, opDeleteItem, taskID, err)
	}

	c.record(ctx, model.Activity{
		Type:            model.ActivityChecklistItemDeleted,
		Title:           "Checklist item deleted",
		Description:     fmt.Sprintf("%s deleted %q", actor.Name, deleted.Title),
		User:            actor,
		TaskID:          taskID,
		ChecklistItemID: itemID,
	})
	return c.finish(ctx, opDeleteItem, taskID, nil)
}

// ToggleChecklistItem flips an item's completion state. Completing a blocked
// item fails with a *ToggleRefusedError and leaves the checklist unchanged.
// After a completion, assignees of items that just became unblocked are
// notified.
func (c *Coordinator) ToggleChecklistItem(
	ctx context.Context,
	taskID, itemID string,
	actor model.User,
) error {
	task, err := c.loadTask(ctx, taskID)
	if err != nil {
		return c.finish(ctx, opToggleItem, taskID, err)
	}

	items := model.CloneChecklist(task.Checklist)
	idx := indexOf(items, itemID)
	if idx < 0 {
		return c.finish(ctx, opToggleItem, taskID, fmt.Errorf("%w: %s", ErrItemNotFound, itemID))
	}

	if open := openPrerequisites(items, itemID); len(open) > 0 {
		blockers := make([]string, len(open))
		for i, p := range open {
			blockers[i] = p.Title
		}
		return c.finish(ctx, opToggleItem, taskID, &ToggleRefusedError{
			Title:    items[idx].Title,
			Blockers: blockers,
		})
	}

	wasBlocked := blockedSet(items)
	if err := ToggleItem(items, itemID, actor, c.now()); err != nil {
		return c.finish(ctx, opToggleItem, taskID, err)
	}
	if err := c.save(ctx, taskID, items); err != nil {
		return c.finish(ctx, opToggleItem, taskID, err)
	}

	item := items[idx]
	if !item.Completed {
		c.record(ctx, model.Activity{
			Type:            model.ActivityChecklistItemReopened,
			Title:           "Checklist item reopened",
			Description:     fmt.Sprintf("%s reopened %q", actor.Name, item.Title),
			User:            actor,
			TaskID:          taskID,
			ChecklistItemID: itemID,
		})
		return c.finish(ctx, opToggleItem, taskID, nil)
	}

	c.record(ctx, model.Activity{
		Type:            model.ActivityChecklistItemCompleted,
		Title:           "Checklist item completed",
		Description:     fmt.Sprintf("%s completed %q", actor.Name, item.Title),
		User:            actor,
		TaskID:          taskID,
		ChecklistItemID: itemID,
	})

	for _, other := range items {
		if other.ID == itemID || !wasBlocked[other.ID] || IsBlocked(items, other.ID) {
			continue
		}
		for _, u := range other.AssigneeSet() {
			if u.ID == actor.ID {
				continue
			}
			c.notify(ctx, "unblocked", model.Notification{
				Title:     "Checklist item unblocked",
				Message:   fmt.Sprintf("%q is ready: %q was completed by %s", other.Title, item.Title, actor.Name),
				Type:      model.NotificationSuccess,
				UserID:    u.ID,
				ActionURL: c.actionURLFor(taskID),
			})
		}
	}
	return c.finish(ctx, opToggleItem, taskID, nil)
}

// AddChecklistDependency makes toItemID depend on fromItemID: fromItemID
// must be completed before toItemID can be. Edges that would close a cycle,
// including self-dependencies, fail with a *CyclicDependencyError and leave
// the checklist unchanged. Adding an existing edge is a no-op.
func (c *Coordinator) AddChecklistDependency(
	ctx context.Context,
	taskID, fromItemID, toItemID string,
	actor model.User,
) error {
	task, err := c.loadTask(ctx, taskID)
	if err != nil {
		return c.finish(ctx, opAddDependency, taskID, err)
	}

	items := model.CloneChecklist(task.Checklist)
	fromIdx, toIdx, err := edgeEndpoints(items, fromItemID, toItemID)
	if err != nil {
		return c.finish(ctx, opAddDependency, taskID, err)
	}
	if items[toIdx].HasDependency(fromItemID) && fromItemID != toItemID {
		return c.finish(ctx, opAddDependency, taskID, nil)
	}

	if err := c.checkAcyclic(items, fromItemID, toItemID); err != nil {
		return c.finish(ctx, opAddDependency, taskID, err)
	}

	now := c.now()
	items[toIdx].Dependencies = appendUnique(items[toIdx].Dependencies, fromItemID)
	items[toIdx].UpdatedAt = now
	items[fromIdx].BlockedBy = appendUnique(items[fromIdx].BlockedBy, toItemID)
	items[fromIdx].UpdatedAt = now

	if err := c.save(ctx, taskID, items); err != nil {
		return c.finish(ctx, opAddDependency, taskID, err)
	}

	c.record(ctx, model.Activity{
		Type:  model.ActivityChecklistDependencyAdded,
		Title: "Checklist dependency added",
		Description: fmt.Sprintf("%s made %q depend on %q",
			actor.Name, items[toIdx].Title, items[fromIdx].Title),
		User:            actor,
		TaskID:          taskID,
		ChecklistItemID: toItemID,
	})
	return c.finish(ctx, opAddDependency, taskID, nil)
}

// RemoveChecklistDependency removes the edge "toItemID depends on
// fromItemID". Removing an edge that does not exist is a no-op.
func (c *Coordinator) RemoveChecklistDependency(
	ctx context.Context,
	taskID, fromItemID, toItemID string,
	actor model.User,
) error {
	task, err := c.loadTask(ctx, taskID)
	if err != nil {
		return c.finish(ctx, opRemoveDependency, taskID, err)
	}

	items := model.CloneChecklist(task.Checklist)
	fromIdx, toIdx, err := edgeEndpoints(items, fromItemID, toItemID)
	if err != nil {
		return c.finish(ctx, opRemoveDependency, taskID, err)
	}

	deps := removeID(items[toIdx].Dependencies, fromItemID)
	blocked := removeID(items[fromIdx].BlockedBy, toItemID)
	if len(deps) == len(items[toIdx].Dependencies) && len(blocked) == len(items[fromIdx].BlockedBy) {
		return c.finish(ctx, opRemoveDependency, taskID, nil)
	}

	now := c.now()
	items[toIdx].Dependencies = deps
	items[toIdx].UpdatedAt = now
	items[fromIdx].BlockedBy = blocked
	items[fromIdx].UpdatedAt = now

	if err := c.save(ctx, taskID, items); err != nil {
		return c.finish(ctx, opRemoveDependency, taskID, err)
	}

	c.record(ctx, model.Activity{
		Type:  model.ActivityChecklistDependencyRemoved,
		Title: "Checklist dependency removed",
		Description: fmt.Sprintf("%s removed the dependency of %q on %q",
			actor.Name, items[toIdx].Title, items[fromIdx].Title),
		User:            actor,
		TaskID:          taskID,
		ChecklistItemID: toItemID,
	})
	return c.finish(ctx, opRemoveDependency, taskID, nil)
}

// ValidateChecklistDependencies checks the task's whole dependency graph.
func (c *Coordinator) ValidateChecklistDependencies(ctx context.Context, taskID string) (ValidationResult, error) {
	task, err := c.loadTask(ctx, taskID)
	if err != nil {
		return ValidationResult{}, c.finish(ctx, opValidate, taskID, err)
	}
	result := Validate(task.Checklist)
	if !result.IsValid {
		c.logger.WarnContext(ctx, "dependency graph has cycles",
			"task_id", taskID, "items", len(result.Errors))
	}
	return result, c.finish(ctx, opValidate, taskID, nil)
}

// GetBlockedChecklistItems returns the task's blocked items in checklist order.
func (c *Coordinator) GetBlockedChecklistItems(ctx context.Context, taskID string) ([]model.ChecklistItem, error) {
	task, err := c.loadTask(ctx, taskID)
	if err != nil {
		return nil, c.finish(ctx, opBlocked, taskID, err)
	}
	return BlockedItems(task.Checklist), c.finish(ctx, opBlocked, taskID, nil)
}

// checkAcyclic rejects the edge "toID depends on fromID" when it, or the
// existing graph, contains a cycle.
func (c *Coordinator) checkAcyclic(items []model.ChecklistItem, fromID, toID string) error {
	if fromID == toID {
		return &CyclicDependencyError{Titles: titlesOf(items, []string{fromID})}
	}

	if c.validateFullGraph {
		onCycle := cyclicItems(items)
		if len(onCycle) > 0 {
			var ids []string
			for _, item := range items {
				if onCycle[item.ID] {
					ids = append(ids, item.ID)
				}
			}
			return &CyclicDependencyError{Titles: titlesOf(items, ids)}
		}
	}

	if WouldCreateCycle(items, fromID, toID) {
		path := dependencyPath(items, fromID, toID)
		if path == nil {
			// toID would reach a cycle that does not pass through fromID.
			path = []string{fromID}
		}
		return &CyclicDependencyError{Titles: titlesOf(items, append([]string{toID}, path...))}
	}
	return nil
}

func edgeEndpoints(items []model.ChecklistItem, fromID, toID string) (int, int, error) {
	fromIdx := indexOf(items, fromID)
	if fromIdx < 0 {
		return -1, -1, fmt.Errorf("%w: %s", ErrItemNotFound, fromID)
	}
	toIdx := indexOf(items, toID)
	if toIdx < 0 {
		return -1, -1, fmt.Errorf("%w: %s", ErrItemNotFound, toID)
	}
	return fromIdx, toIdx, nil
}

func (c *Coordinator) loadTask(ctx context.Context, taskID string) (*model.Task, error) {
	task, err := c.tasks.GetTask(ctx, taskID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading task %s: %w", taskID, err)
	}
	return task, nil
}

func (c *Coordinator) save(ctx context.Context, taskID string, items []model.ChecklistItem) error {
	err := c.tasks.SaveChecklist(ctx, taskID, items)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if err != nil {
		return fmt.Errorf("saving checklist of task %s: %w", taskID, err)
	}
	return nil
}

// record appends an activity entry. Failures are logged, not returned.
func (c *Coordinator) record(ctx context.Context, a model.Activity) {
	if c.activities == nil {
		return
	}
	a.ID = uuid.New().String()
	a.CreatedAt = c.now()
	if err := c.activities.RecordActivity(ctx, a); err != nil {
		c.logger.WarnContext(ctx, "recording activity failed",
			"type", string(a.Type), "task_id", a.TaskID, "error", err)
	}
}

// notify delivers a notification. Failures are logged, not returned.
func (c *Coordinator) notify(ctx context.Context, kind string, n model.Notification) {
	if c.notifications == nil || !c.notificationsEnabled {
		return
	}
	n.ID = uuid.New().String()
	n.Read = false
	n.CreatedAt = c.now()
	if err := c.notifications.SendNotification(ctx, n); err != nil {
		c.logger.WarnContext(ctx, "sending notification failed",
			"kind", kind, "user_id", n.UserID, "error", err)
		return
	}
	c.metrics.NotificationSent(kind)
}

// finish logs and counts the outcome of an operation and returns err.
func (c *Coordinator) finish(ctx context.Context, op, taskID string, err error) error {
	result := metrics.ResultOK
	switch {
	case err == nil:
	case errors.Is(err, ErrCyclicDependency):
		result = metrics.ResultRejected
		c.metrics.CycleRejected()
	case errors.Is(err, ErrToggleRefused):
		result = metrics.ResultRejected
		c.metrics.ToggleRefused()
	case errors.Is(err, ErrInvalidItem):
		result = metrics.ResultRejected
	case errors.Is(err, ErrTaskNotFound), errors.Is(err, ErrItemNotFound):
		result = metrics.ResultNotFound
	default:
		result = metrics.ResultError
	}
	c.metrics.ObserveOperation(op, result)

	switch result {
	case metrics.ResultOK:
		c.logger.DebugContext(ctx, "checklist operation", "op", op, "task_id", taskID)
	case metrics.ResultError:
		c.logger.ErrorContext(ctx, "checklist operation failed", "op", op, "task_id", taskID, "error", err)
	default:
		c.logger.InfoContext(ctx, "checklist operation rejected",
			"op", op, "task_id", taskID, "result", result, "error", err)
	}
	return err
}

func (c *Coordinator) actionURLFor(taskID string) string {
	return strings.ReplaceAll(c.actionURL, "{taskId}", taskID)
}
