package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/task-checklist/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Each :memory: connection is its own database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// CreateTask inserts a new task and any checklist items it carries.
// Generates a UUID if ID is empty.
func (s *SQLiteStore) CreateTask(ctx context.Context, task model.Task) (model.Task, error) {
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

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Task{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Description, task.Status,
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("creating task: %w", err)
	}

	if err := insertChecklist(ctx, tx, task.ID, task.Checklist); err != nil {
		return model.Task{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Task{}, fmt.Errorf("committing task %s: %w", task.ID, err)
	}
	return task, nil
}

// GetTask retrieves a task with its checklist in insertion order.
func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var tasks []model.Task
	err := s.db.SelectContext(ctx, &tasks,
		"SELECT id, title, description, status, created_at, updated_at FROM tasks WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	task := tasks[0]

	items, err := s.getChecklist(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Checklist = items
	return &task, nil
}

// ListTasks retrieves all tasks, oldest first, with their checklists.
func (s *SQLiteStore) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.SelectContext(ctx, &tasks,
		"SELECT id, title, description, status, created_at, updated_at FROM tasks ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}

	for i := range tasks {
		items, err := s.getChecklist(ctx, tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i].Checklist = items
	}
	return tasks, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// requireAffected returns ErrNotFound, naming what, when the statement
// touched no rows.
func requireAffected(result sql.Result, what string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows for %s: %w", what, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
