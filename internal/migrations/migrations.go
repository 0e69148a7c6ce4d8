package migrations

import (
	"database/sql"
	"fmt"
)

// initialSchema creates the contact cache and conversation summary tables.
// The schema is embedded so the binary has no runtime dependency on a
// scripts directory.
const initialSchema = `
CREATE TABLE IF NOT EXISTS contacts (
    contact_id   TEXT PRIMARY KEY,
    name         TEXT NOT NULL DEFAULT '',
    phone        TEXT NOT NULL DEFAULT '',
    phone_hash   TEXT NOT NULL DEFAULT '',
    avatar       TEXT NOT NULL DEFAULT '',
    contact_type TEXT NOT NULL DEFAULT 'client',
    is_online    INTEGER NOT NULL DEFAULT 0,
    last_seen    TIMESTAMP,
    cached_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_contacts_phone_hash ON contacts(phone_hash);
CREATE INDEX IF NOT EXISTS idx_contacts_cached_at ON contacts(cached_at);

CREATE TABLE IF NOT EXISTS conversation_summaries (
    conversation_id       TEXT PRIMARY KEY,
    contact_id            TEXT NOT NULL REFERENCES contacts(contact_id),
    status                TEXT NOT NULL DEFAULT 'new',
    assigned_to           TEXT NOT NULL DEFAULT '',
    tags                  TEXT NOT NULL DEFAULT '[]',
    unread_count          INTEGER NOT NULL DEFAULT 0,
    is_pinned             INTEGER NOT NULL DEFAULT 0,
    is_archived           INTEGER NOT NULL DEFAULT 0,
    is_encrypted          INTEGER NOT NULL DEFAULT 0,
    last_message_content  TEXT NOT NULL DEFAULT '',
    last_message_at       TIMESTAMP,
    last_message_outbound INTEGER NOT NULL DEFAULT 0,
    last_message_read     INTEGER NOT NULL DEFAULT 1,
    updated_at            TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_summaries_last_message_at
    ON conversation_summaries(last_message_at DESC);
`

// Apply runs the schema against the given database handle.
func Apply(db *sql.DB) error {
	if _, err := db.Exec(initialSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
