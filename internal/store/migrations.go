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

CREATE TABLE IF NOT EXISTS label_map (
	user_id      TEXT NOT NULL,
	provider     TEXT NOT NULL,
	friendly_key TEXT NOT NULL,
	path         TEXT NOT NULL,
	remote_id    TEXT NOT NULL,
	updated_at   DATETIME NOT NULL,
	PRIMARY KEY (user_id, provider, friendly_key)
);

CREATE TABLE IF NOT EXISTS team_members (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	name       TEXT NOT NULL,
	kind       TEXT NOT NULL,
	position   INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	UNIQUE (user_id, kind, position)
);

CREATE TABLE IF NOT EXISTS business_types (
	user_id       TEXT NOT NULL,
	position      INTEGER NOT NULL,
	business_type TEXT NOT NULL,
	PRIMARY KEY (user_id, position)
);

CREATE TABLE IF NOT EXISTS provisioning_runs (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	provider      TEXT NOT NULL,
	created_count INTEGER NOT NULL DEFAULT 0,
	matched_count INTEGER NOT NULL DEFAULT 0,
	error_count   INTEGER NOT NULL DEFAULT 0,
	succeeded     INTEGER NOT NULL DEFAULT 0,
	errors_json   TEXT NOT NULL DEFAULT '[]',
	ran_at        DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_label_map_user ON label_map(user_id, provider);
CREATE INDEX IF NOT EXISTS idx_team_members_user ON team_members(user_id);
CREATE INDEX IF NOT EXISTS idx_runs_user ON provisioning_runs(user_id, provider, ran_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
