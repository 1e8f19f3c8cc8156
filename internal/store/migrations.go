package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'todo' CHECK(status IN ('todo', 'in_progress', 'done')),
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS checklist_items (
	id              TEXT PRIMARY KEY,
	task_id         TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	completed       INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	completed_by    TEXT NOT NULL DEFAULT '',
	completed_at    DATETIME,
	assignee        TEXT NOT NULL DEFAULT '',
	assignees       TEXT NOT NULL DEFAULT '[]',
	estimated_hours REAL,
	dependencies    TEXT NOT NULL DEFAULT '[]',
	blocked_by      TEXT NOT NULL DEFAULT '[]',
	sort_order      INTEGER NOT NULL DEFAULT 0,
	created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_checklist_items_task_id ON checklist_items(task_id, sort_order);

CREATE TABLE IF NOT EXISTS activities (
	id                TEXT PRIMARY KEY,
	type              TEXT NOT NULL,
	title             TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	user_id           TEXT NOT NULL DEFAULT '',
	user_name         TEXT NOT NULL DEFAULT '',
	task_id           TEXT NOT NULL,
	checklist_item_id TEXT NOT NULL DEFAULT '',
	created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_activities_task_id ON activities(task_id, created_at);

CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	title      TEXT NOT NULL,
	message    TEXT NOT NULL,
	type       TEXT NOT NULL DEFAULT 'info' CHECK(type IN ('info', 'success', 'warning', 'error')),
	read       INTEGER NOT NULL DEFAULT 0,
	action_url TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, read);
CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
