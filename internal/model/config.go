package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds settings for the SQLite-backed task repository.
type DatabaseConfig struct {
	// Path is the SQLite database file. ":memory:" keeps everything in RAM.
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `mapstructure:"level" yaml:"level"`

	// Format is "text" or "json".
	Format string `mapstructure:"format" yaml:"format"`
}

// NotificationConfig controls the notifications emitted on checklist changes.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// ActionURL is a template for the link attached to notifications.
	// The placeholder {taskId} is replaced with the task ID.
	ActionURL string `mapstructure:"action_url" yaml:"action_url"`
}

// ChecklistConfig holds dependency-graph policy settings.
type ChecklistConfig struct {
	// ValidateFullGraph re-validates every existing edge before accepting a
	// new dependency, in addition to the targeted cycle check.
	ValidateFullGraph bool `mapstructure:"validate_full_graph" yaml:"validate_full_graph"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database      DatabaseConfig     `mapstructure:"database" yaml:"database"`
	Log           LogConfig          `mapstructure:"log" yaml:"log"`
	User          User               `mapstructure:"user" yaml:"user"`
	Notifications NotificationConfig `mapstructure:"notifications" yaml:"notifications"`
	Checklist     ChecklistConfig    `mapstructure:"checklist" yaml:"checklist"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskchecklist/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskchecklist", "config.yaml")
}

// DefaultDatabasePath returns the default SQLite file location.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "checklist.db")
	}
	return filepath.Join(home, ".local", "share", "taskchecklist", "checklist.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{Path: DefaultDatabasePath()},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		User: User{ID: "local", Name: "Local User"},
		Notifications: NotificationConfig{
			Enabled:   true,
			ActionURL: "/tasks/{taskId}",
		},
		Checklist: ChecklistConfig{ValidateFullGraph: true},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults double as the key set AutomaticEnv consults during Unmarshal.
	def := defaultAppConfig()
	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("user.id", def.User.ID)
	v.SetDefault("user.name", def.User.Name)
	v.SetDefault("notifications.enabled", def.Notifications.Enabled)
	v.SetDefault("notifications.action_url", def.Notifications.ActionURL)
	v.SetDefault("checklist.validate_full_graph", def.Checklist.ValidateFullGraph)

	v.SetEnvPrefix("TASKCHECKLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		_, missing := err.(*os.PathError)
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			missing = true
		}
		if !missing {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database.path", cfg.Database.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("user.id", cfg.User.ID)
	v.Set("user.name", cfg.User.Name)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.action_url", cfg.Notifications.ActionURL)
	v.Set("checklist.validate_full_graph", cfg.Checklist.ValidateFullGraph)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
