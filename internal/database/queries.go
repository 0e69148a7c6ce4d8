package database

// Contact queries
const (
	upsertContactQuery = `
		INSERT INTO contacts (
			contact_id, name, phone, phone_hash, avatar, contact_type,
			is_online, last_seen, cached_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(contact_id) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			phone_hash = excluded.phone_hash,
			avatar = excluded.avatar,
			contact_type = excluded.contact_type,
			is_online = excluded.is_online,
			last_seen = excluded.last_seen,
			cached_at = excluded.cached_at,
			updated_at = excluded.updated_at
	`

	selectContactQuery = `
		SELECT contact_id, name, phone, avatar, contact_type, is_online, last_seen
		FROM contacts
		WHERE contact_id = ?
	`

	selectContactByPhoneQuery = `
		SELECT contact_id, name, phone, avatar, contact_type, is_online, last_seen
		FROM contacts
		WHERE phone_hash = ?
	`

	selectAllContactsQuery = `
		SELECT contact_id, name, phone, avatar, contact_type, is_online, last_seen
		FROM contacts
		ORDER BY name
	`

	deleteOldContactsQuery = `
		DELETE FROM contacts
		WHERE cached_at < datetime('now', '-' || ? || ' days')
		  AND contact_id NOT IN (SELECT contact_id FROM conversation_summaries)
	`
)

// Conversation summary queries
const (
	upsertConversationQuery = `
		INSERT INTO conversation_summaries (
			conversation_id, contact_id, status, assigned_to, tags,
			unread_count, is_pinned, is_archived, is_encrypted,
			last_message_content, last_message_at, last_message_outbound,
			last_message_read, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(conversation_id) DO UPDATE SET
			status = excluded.status,
			assigned_to = excluded.assigned_to,
			tags = excluded.tags,
			unread_count = excluded.unread_count,
			is_pinned = excluded.is_pinned,
			is_archived = excluded.is_archived,
			is_encrypted = excluded.is_encrypted,
			last_message_content = excluded.last_message_content,
			last_message_at = excluded.last_message_at,
			last_message_outbound = excluded.last_message_outbound,
			last_message_read = excluded.last_message_read,
			updated_at = excluded.updated_at
	`

	selectConversationQuery = `
		SELECT s.conversation_id, s.status, s.assigned_to, s.tags,
		       s.unread_count, s.is_pinned, s.is_archived, s.is_encrypted,
		       s.last_message_content, s.last_message_at,
		       s.last_message_outbound, s.last_message_read,
		       c.contact_id, c.name, c.phone, c.avatar, c.contact_type,
		       c.is_online, c.last_seen
		FROM conversation_summaries s
		JOIN contacts c ON s.contact_id = c.contact_id
		WHERE s.conversation_id = ?
	`

	selectAllConversationsQuery = `
		SELECT s.conversation_id, s.status, s.assigned_to, s.tags,
		       s.unread_count, s.is_pinned, s.is_archived, s.is_encrypted,
		       s.last_message_content, s.last_message_at,
		       s.last_message_outbound, s.last_message_read,
		       c.contact_id, c.name, c.phone, c.avatar, c.contact_type,
		       c.is_online, c.last_seen
		FROM conversation_summaries s
		JOIN contacts c ON s.contact_id = c.contact_id
		ORDER BY s.is_pinned DESC, s.last_message_at DESC
	`
)
