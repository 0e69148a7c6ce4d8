package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"wainbox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testContact(id string) *models.Contact {
	return &models.Contact{
		ID:    id,
		Name:  "Sarah Johnson",
		Phone: "+15551234567",
		Type:  models.ContactTypeClient,
	}
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestDatabase_SaveAndGetContact(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	seen := time.Now().UTC().Truncate(time.Second)
	contact := testContact("c1")
	contact.IsOnline = true
	contact.LastSeen = &seen
	require.NoError(t, db.SaveContact(ctx, contact))

	got, err := db.GetContact(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Sarah Johnson", got.Name)
	assert.Equal(t, "+15551234567", got.Phone)
	assert.Equal(t, models.ContactTypeClient, got.Type)
	assert.True(t, got.IsOnline)
	require.NotNil(t, got.LastSeen)
	assert.True(t, got.LastSeen.Equal(seen))
}

func TestDatabase_GetContactMissing(t *testing.T) {
	db := newTestDatabase(t)

	got, err := db.GetContact(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDatabase_GetContactByPhone(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, db.SaveContact(ctx, testContact("c1")))

	got, err := db.GetContactByPhone(ctx, "+15551234567")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "c1", got.ID)

	got, err = db.GetContactByPhone(ctx, "+19990000000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDatabase_SaveContactUpsert(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	contact := testContact("c1")
	require.NoError(t, db.SaveContact(ctx, contact))

	contact.Name = "Sarah J."
	contact.IsOnline = true
	require.NoError(t, db.SaveContact(ctx, contact))

	got, err := db.GetContact(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Sarah J.", got.Name)
	assert.True(t, got.IsOnline)

	contacts, err := db.ListContacts(ctx)
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}

func TestDatabase_SaveAndGetConversation(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	contact := testContact("c1")
	require.NoError(t, db.SaveContact(ctx, contact))

	conv := &models.Conversation{
		ID:          "conv-1",
		Contact:     *contact,
		AssignedTo:  "mike",
		Tags:        []string{"vip", "billing"},
		Status:      models.ConversationStatusActive,
		UnreadCount: 3,
		IsPinned:    true,
		LastMessage: models.LastMessage{
			Content:    "See you tomorrow",
			Timestamp:  time.Now().UTC().Truncate(time.Second),
			IsOutbound: true,
		},
	}
	require.NoError(t, db.SaveConversation(ctx, conv))

	got, err := db.GetConversation(ctx, "conv-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "mike", got.AssignedTo)
	assert.Equal(t, []string{"vip", "billing"}, got.Tags)
	assert.Equal(t, models.ConversationStatusActive, got.Status)
	assert.Equal(t, 3, got.UnreadCount)
	assert.True(t, got.IsPinned)
	assert.Equal(t, "See you tomorrow", got.LastMessage.Content)
	assert.True(t, got.LastMessage.IsOutbound)
	assert.Equal(t, "Sarah Johnson", got.Contact.Name)
	assert.Equal(t, "+15551234567", got.Contact.Phone)
	assert.Equal(t, models.ContactTypeClient, got.ChatType)
}

func TestDatabase_GetConversationMissing(t *testing.T) {
	db := newTestDatabase(t)

	got, err := db.GetConversation(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDatabase_ListConversationsOrder(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	save := func(id string, pinned bool, ts time.Time) {
		contact := testContact("contact-" + id)
		contact.Phone = "+1555" + id
		require.NoError(t, db.SaveContact(ctx, contact))
		require.NoError(t, db.SaveConversation(ctx, &models.Conversation{
			ID:          id,
			Contact:     *contact,
			Tags:        []string{},
			Status:      models.ConversationStatusActive,
			IsPinned:    pinned,
			LastMessage: models.LastMessage{Content: "x", Timestamp: ts},
		}))
	}

	save("old", false, base.Add(-2*time.Hour))
	save("fresh", false, base)
	save("pinned-old", true, base.Add(-24*time.Hour))

	convs, err := db.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, convs, 3)

	assert.Equal(t, "pinned-old", convs[0].ID)
	assert.Equal(t, "fresh", convs[1].ID)
	assert.Equal(t, "old", convs[2].ID)
}

func TestDatabase_SaveConversationUpsert(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	contact := testContact("c1")
	require.NoError(t, db.SaveContact(ctx, contact))

	conv := &models.Conversation{
		ID:          "conv-1",
		Contact:     *contact,
		Tags:        []string{},
		Status:      models.ConversationStatusNew,
		LastMessage: models.LastMessage{Content: "first", Timestamp: time.Now()},
	}
	require.NoError(t, db.SaveConversation(ctx, conv))

	conv.Status = models.ConversationStatusActive
	conv.UnreadCount = 0
	conv.LastMessage.Content = "second"
	require.NoError(t, db.SaveConversation(ctx, conv))

	got, err := db.GetConversation(ctx, "conv-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.ConversationStatusActive, got.Status)
	assert.Equal(t, "second", got.LastMessage.Content)

	convs, err := db.ListConversations(ctx)
	require.NoError(t, err)
	assert.Len(t, convs, 1)
}

func TestDatabase_CleanupOldContacts(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, db.SaveContact(ctx, testContact("c1")))

	// A fresh contact survives cleanup.
	require.NoError(t, db.CleanupOldContacts(ctx, 30))

	got, err := db.GetContact(ctx, "c1")
	require.NoError(t, err)
	assert.NotNil(t, got)

	assert.Error(t, db.CleanupOldContacts(ctx, 0))
}
