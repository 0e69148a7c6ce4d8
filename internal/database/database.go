package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"wainbox/internal/migrations"
	"wainbox/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// Database is the sqlite-backed cache for contacts and conversation
// summaries. The conversation store writes summaries through it after every
// mutation; the directory reads both tables back at startup to rebuild the
// initial conversation set.
type Database struct {
	db        *sql.DB
	encryptor *encryptor
}

func New(dbPath string) (*Database, error) {
	if len(dbPath) == 0 || dbPath[0] == '\x00' {
		return nil, fmt.Errorf("invalid database path")
	}

	file, err := os.OpenFile(dbPath, os.O_RDWR|os.O_CREATE, 0600) // #nosec G304 - path comes from validated config
	if err != nil {
		return nil, fmt.Errorf("failed to create database file: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("failed to close database file: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrations.Apply(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	encryptor, err := NewEncryptor()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize encryptor: %w", err)
	}

	return &Database{db: db, encryptor: encryptor}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// SaveContact inserts or refreshes a cached contact. The phone number is
// encrypted at rest when encryption is enabled; lookups go through a
// deterministic salted hash column.
func (d *Database) SaveContact(ctx context.Context, contact *models.Contact) error {
	encryptedPhone, err := d.encryptor.EncryptIfEnabled(contact.Phone)
	if err != nil {
		return fmt.Errorf("failed to encrypt phone number: %w", err)
	}

	now := time.Now()
	var lastSeen interface{}
	if contact.LastSeen != nil {
		lastSeen = *contact.LastSeen
	}

	return retryableOperation(ctx, "save contact", func() error {
		_, err := d.db.ExecContext(ctx, upsertContactQuery,
			contact.ID, contact.Name, encryptedPhone, LookupHash(contact.Phone),
			contact.Avatar, string(contact.Type), contact.IsOnline, lastSeen,
			now, now)
		return err
	})
}

// GetContact returns a cached contact by id, or nil if absent.
func (d *Database) GetContact(ctx context.Context, contactID string) (*models.Contact, error) {
	return d.scanContact(d.db.QueryRowContext(ctx, selectContactQuery, contactID))
}

// GetContactByPhone returns a cached contact by phone number, or nil.
func (d *Database) GetContactByPhone(ctx context.Context, phone string) (*models.Contact, error) {
	return d.scanContact(d.db.QueryRowContext(ctx, selectContactByPhoneQuery, LookupHash(phone)))
}

// ListContacts returns all cached contacts ordered by name.
func (d *Database) ListContacts(ctx context.Context) ([]*models.Contact, error) {
	rows, err := d.db.QueryContext(ctx, selectAllContactsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var contacts []*models.Contact
	for rows.Next() {
		contact, err := d.scanContactRow(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}

// CleanupOldContacts removes cached contacts older than retentionDays that
// no conversation references.
func (d *Database) CleanupOldContacts(ctx context.Context, retentionDays int) error {
	if retentionDays <= 0 {
		return fmt.Errorf("retention days must be positive")
	}
	return retryableOperation(ctx, "cleanup old contacts", func() error {
		_, err := d.db.ExecContext(ctx, deleteOldContactsQuery, retentionDays)
		return err
	})
}

// SaveConversation upserts a conversation summary row.
func (d *Database) SaveConversation(ctx context.Context, conv *models.Conversation) error {
	tags, err := json.Marshal(conv.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	return retryableOperation(ctx, "save conversation", func() error {
		_, err := d.db.ExecContext(ctx, upsertConversationQuery,
			conv.ID, conv.Contact.ID, string(conv.Status), conv.AssignedTo,
			string(tags), conv.UnreadCount, conv.IsPinned, conv.IsArchived,
			conv.IsEncrypted, conv.LastMessage.Content, conv.LastMessage.Timestamp,
			conv.LastMessage.IsOutbound, conv.LastMessage.IsRead, time.Now())
		return err
	})
}

// GetConversation returns a stored conversation summary joined with its
// contact, or nil if absent.
func (d *Database) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	conv, err := d.scanConversation(d.db.QueryRowContext(ctx, selectConversationQuery, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return conv, err
}

// ListConversations returns all stored conversation summaries in the
// default view order (pinned first, then most recent message).
func (d *Database) ListConversations(ctx context.Context) ([]*models.Conversation, error) {
	rows, err := d.db.QueryContext(ctx, selectAllConversationsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var conversations []*models.Conversation
	for rows.Next() {
		conv, err := d.scanConversation(rows)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (d *Database) scanContact(row *sql.Row) (*models.Contact, error) {
	contact, err := d.scanContactRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return contact, err
}

func (d *Database) scanContactRow(s scanner) (*models.Contact, error) {
	var contact models.Contact
	var contactType string
	var lastSeen sql.NullTime

	if err := s.Scan(&contact.ID, &contact.Name, &contact.Phone, &contact.Avatar,
		&contactType, &contact.IsOnline, &lastSeen); err != nil {
		return nil, err
	}

	phone, err := d.encryptor.DecryptIfEnabled(contact.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt phone number: %w", err)
	}
	contact.Phone = phone
	contact.Type = models.ContactType(contactType)
	if lastSeen.Valid {
		ts := lastSeen.Time
		contact.LastSeen = &ts
	}
	return &contact, nil
}

func (d *Database) scanConversation(s scanner) (*models.Conversation, error) {
	var conv models.Conversation
	var status, contactType, tags string
	var lastMessageAt sql.NullTime
	var lastSeen sql.NullTime

	err := s.Scan(&conv.ID, &status, &conv.AssignedTo, &tags,
		&conv.UnreadCount, &conv.IsPinned, &conv.IsArchived, &conv.IsEncrypted,
		&conv.LastMessage.Content, &lastMessageAt,
		&conv.LastMessage.IsOutbound, &conv.LastMessage.IsRead,
		&conv.Contact.ID, &conv.Contact.Name, &conv.Contact.Phone,
		&conv.Contact.Avatar, &contactType, &conv.Contact.IsOnline, &lastSeen)
	if err != nil {
		return nil, err
	}

	phone, err := d.encryptor.DecryptIfEnabled(conv.Contact.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt phone number: %w", err)
	}
	conv.Contact.Phone = phone

	conv.Status = models.ConversationStatus(status)
	conv.Contact.Type = models.ContactType(contactType)
	conv.ChatType = conv.Contact.Type
	if lastMessageAt.Valid {
		conv.LastMessage.Timestamp = lastMessageAt.Time
	}
	if lastSeen.Valid {
		ts := lastSeen.Time
		conv.Contact.LastSeen = &ts
	}
	if err := json.Unmarshal([]byte(tags), &conv.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return &conv, nil
}
