package sqlitedb

// Timestamps are whole seconds since epoch. Workflow args is a JSON blob;
// type and status are small integer enums owned by the workflows package.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	credit INTEGER NOT NULL DEFAULT 0,
	create_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS workflow (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	create_at INTEGER NOT NULL,
	args TEXT NOT NULL,
	type INTEGER NOT NULL,
	status INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_workflow_user_type ON workflow (user_id, type);

CREATE TABLE IF NOT EXISTS payment (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	create_at INTEGER NOT NULL,
	quantity INTEGER NOT NULL,
	status INTEGER NOT NULL
);
`
