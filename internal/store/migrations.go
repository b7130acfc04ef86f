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

CREATE TABLE IF NOT EXISTS accounts (
	id         TEXT PRIMARY KEY,
	handle     TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS addresses (
	account_id   TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	id           TEXT NOT NULL,
	address      TEXT NOT NULL,
	display_name TEXT NOT NULL DEFAULT '',
	is_primary   INTEGER NOT NULL DEFAULT 0,
	is_verified  INTEGER NOT NULL DEFAULT 0,
	position     INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (account_id, id)
);

CREATE TABLE IF NOT EXISTS mailboxes (
	owner    TEXT NOT NULL,
	id       TEXT NOT NULL,
	name     TEXT NOT NULL,
	kind     TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (owner, id)
);

CREATE TABLE IF NOT EXISTS messages (
	owner          TEXT NOT NULL,
	mailbox_id     TEXT NOT NULL,
	id             TEXT NOT NULL,
	sender         TEXT NOT NULL DEFAULT '',
	sender_address TEXT NOT NULL DEFAULT '',
	recipients     TEXT NOT NULL DEFAULT '[]',
	cc             TEXT NOT NULL DEFAULT '[]',
	bcc            TEXT NOT NULL DEFAULT '[]',
	subject        TEXT NOT NULL DEFAULT '',
	body           TEXT NOT NULL DEFAULT '',
	timestamp      DATETIME NOT NULL,
	is_read        INTEGER NOT NULL DEFAULT 0,
	is_starred     INTEGER NOT NULL DEFAULT 0,
	has_attachment INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (owner, mailbox_id, id)
);

CREATE INDEX IF NOT EXISTS idx_messages_owner_mailbox ON messages(owner, mailbox_id, timestamp);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS drafts (
	id              TEXT PRIMARY KEY,
	owner           TEXT NOT NULL,
	recipients      TEXT NOT NULL DEFAULT '[]',
	cc              TEXT NOT NULL DEFAULT '[]',
	bcc             TEXT NOT NULL DEFAULT '[]',
	subject         TEXT NOT NULL DEFAULT '',
	body            TEXT NOT NULL DEFAULT '',
	original_sender TEXT NOT NULL DEFAULT '',
	action_kind     TEXT NOT NULL DEFAULT '',
	updated_at      DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_drafts_owner ON drafts(owner, updated_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
