// Package app wires configuration, persistence, logging and metrics into a
// ready-to-use checklist Coordinator.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nhle/task-checklist/internal/checklist"
	"github.com/nhle/task-checklist/internal/logging"
	"github.com/nhle/task-checklist/internal/metrics"
	"github.com/nhle/task-checklist/internal/model"
	"github.com/nhle/task-checklist/internal/store"
)

// App holds the long-lived collaborators of one process.
type App struct {
	Config      *model.AppConfig
	Store       *store.SQLiteStore
	Coordinator *checklist.Coordinator
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Registry    *prometheus.Registry
}

// New opens the configured database and builds the Coordinator over it.
// Log output goes to logOut.
func New(cfg *model.AppConfig, logOut io.Writer) (*App, error) {
	logger := logging.New(cfg.Log, logOut)

	if cfg.Database.Path != ":memory:" {
		dir := filepath.Dir(cfg.Database.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		s.Close()
		return nil, err
	}

	coord := checklist.NewCoordinator(s, s, s,
		checklist.WithLogger(logger),
		checklist.WithMetrics(m),
		checklist.WithFullGraphValidation(cfg.Checklist.ValidateFullGraph),
		checklist.WithNotifications(cfg.Notifications.Enabled, cfg.Notifications.ActionURL),
	)

	logger.Debug("app initialised", "database", cfg.Database.Path)

	return &App{
		Config:      cfg,
		Store:       s,
		Coordinator: coord,
		Logger:      logger,
		Metrics:     m,
		Registry:    reg,
	}, nil
}

// Actor returns the configured acting user.
func (a *App) Actor() model.User {
	return a.Config.User
}

// Close releases the database.
func (a *App) Close() error {
	return a.Store.Close()
}
