package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    first_name    TEXT NOT NULL DEFAULT '',
    last_name     TEXT NOT NULL DEFAULT '',
    username      TEXT NOT NULL,
    email         TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'commuter' CHECK (role IN ('admin', 'driver', 'commuter')),
    photo         BLOB,
    photo_mime    TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS lost_items (
    id          INTEGER PRIMARY KEY,
    item        TEXT NOT NULL,
    route       TEXT NOT NULL,
    sacco       TEXT NOT NULL,
    found_on    TEXT NOT NULL,
    description TEXT,
    photo       BLOB,
    photo_mime  TEXT,
    reported_by INTEGER NOT NULL REFERENCES users(id),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS claims (
    id           INTEGER PRIMARY KEY,
    lost_item_id INTEGER NOT NULL REFERENCES lost_items(id) ON DELETE CASCADE,
    claimer_name TEXT NOT NULL,
    contact_info TEXT NOT NULL,
    details      TEXT,
    claimed_by   INTEGER REFERENCES users(id),
    confirmed    INTEGER NOT NULL DEFAULT 0,
    approved     INTEGER NOT NULL DEFAULT 0,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_claims_lost_item_id ON claims(lost_item_id);

CREATE TABLE IF NOT EXISTS posts (
    id          INTEGER PRIMARY KEY,
    type        TEXT NOT NULL CHECK (type IN ('accident', 'traffic_update')),
    description TEXT NOT NULL,
    photo       BLOB,
    photo_mime  TEXT,
    posted_by   INTEGER REFERENCES users(id),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS saccos (
    id   INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS routes (
    id           INTEGER PRIMARY KEY,
    display_name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stages (
    id        INTEGER PRIMARY KEY,
    name      TEXT NOT NULL,
    latitude  REAL NOT NULL,
    longitude REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS operations (
    id            INTEGER PRIMARY KEY,
    sacco_id      INTEGER NOT NULL REFERENCES saccos(id) ON DELETE CASCADE,
    route_id      INTEGER NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
    from_stage_id INTEGER NOT NULL REFERENCES stages(id),
    to_stage_id   INTEGER REFERENCES stages(id)
);

CREATE TABLE IF NOT EXISTS ratings (
    id                 INTEGER PRIMARY KEY,
    sacco_id           INTEGER NOT NULL REFERENCES saccos(id) ON DELETE CASCADE,
    cleanliness_rating INTEGER NOT NULL CHECK (cleanliness_rating BETWEEN 1 AND 5),
    safety_rating      INTEGER NOT NULL CHECK (safety_rating BETWEEN 1 AND 5),
    service_rating     INTEGER NOT NULL CHECK (service_rating BETWEEN 1 AND 5),
    review_text        TEXT,
    rated_by           INTEGER REFERENCES users(id),
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_ratings_sacco_id ON ratings(sacco_id);
`

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{}

// Migrate runs the database schema migrations.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
