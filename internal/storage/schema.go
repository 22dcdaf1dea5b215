package storage

// Schema is the SQL schema for the memory database. All graph tables carry
// the (user_id, project_id) scope pair; project_id is the empty string for
// the general scope so it can participate in the unique indexes.
//
// Name/content uniqueness is case-insensitive and enforced here rather than
// by application-side lookups, so find-or-create paths can use
// INSERT ... ON CONFLICT DO NOTHING instead of a racy read-then-write.
const Schema = `
CREATE TABLE IF NOT EXISTS entities (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL,
    project_id  TEXT NOT NULL DEFAULT '',
    name        TEXT NOT NULL COLLATE NOCASE,
    entity_type TEXT NOT NULL,
    created_at  TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE(user_id, project_id, name)
);

CREATE TABLE IF NOT EXISTS observations (
    id           TEXT PRIMARY KEY,
    entity_id    TEXT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
    content      TEXT NOT NULL COLLATE NOCASE,
    is_user_edit INTEGER NOT NULL DEFAULT 0,
    created_at   TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at   TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE(entity_id, content)
);

CREATE TABLE IF NOT EXISTS relations (
    id            TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    project_id    TEXT NOT NULL DEFAULT '',
    from_id       TEXT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
    to_id         TEXT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
    relation_type TEXT NOT NULL COLLATE NOCASE,
    created_at    TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE(user_id, project_id, from_id, to_id, relation_type)
);

CREATE TABLE IF NOT EXISTS summaries (
    user_id           TEXT NOT NULL,
    project_id        TEXT NOT NULL DEFAULT '',
    content           TEXT NOT NULL,
    generated_at      TEXT NOT NULL DEFAULT (datetime('now')),
    entity_count      INTEGER NOT NULL,
    observation_count INTEGER NOT NULL,
    PRIMARY KEY(user_id, project_id)
);

CREATE TABLE IF NOT EXISTS connector_permissions (
    user_id    TEXT NOT NULL,
    connector  TEXT NOT NULL,
    level      INTEGER NOT NULL DEFAULT 0,
    updated_at TEXT NOT NULL DEFAULT (datetime('now')),
    PRIMARY KEY(user_id, connector)
);

CREATE TABLE IF NOT EXISTS user_settings (
    user_id        TEXT PRIMARY KEY,
    vacation_until TEXT NULL
);

CREATE INDEX IF NOT EXISTS idx_entities_scope ON entities(user_id, project_id);
CREATE INDEX IF NOT EXISTS idx_observations_entity ON observations(entity_id);
CREATE INDEX IF NOT EXISTS idx_observations_user_edit ON observations(entity_id) WHERE is_user_edit = 1;
CREATE INDEX IF NOT EXISTS idx_relations_scope ON relations(user_id, project_id);
CREATE INDEX IF NOT EXISTS idx_relations_from ON relations(from_id);
CREATE INDEX IF NOT EXISTS idx_relations_to ON relations(to_id);
`
