package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	path           TEXT NOT NULL,
	filename       TEXT NOT NULL,
	content_hash   TEXT NOT NULL DEFAULT '',
	block_count    INTEGER NOT NULL DEFAULT 0,
	issue_count    INTEGER NOT NULL DEFAULT 0,
	image_count    INTEGER NOT NULL DEFAULT 0,
	link_count     INTEGER NOT NULL DEFAULT 0,
	table_count    INTEGER NOT NULL DEFAULT 0,
	insight_status TEXT NOT NULL DEFAULT 'disabled',
	created_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tickets (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        INTEGER NOT NULL REFERENCES runs(id),
	issue_title   TEXT NOT NULL,
	ticket_key    TEXT,
	status        TEXT NOT NULL DEFAULT 'Default',
	attached      INTEGER NOT NULL DEFAULT 0,
	attach_errors INTEGER NOT NULL DEFAULT 0,
	error         TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_path ON runs(path);
CREATE INDEX IF NOT EXISTS idx_tickets_run ON tickets(run_id);
`
