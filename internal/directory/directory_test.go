package directory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"wainbox/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	contacts      []*models.Contact
	conversations []*models.Conversation
	listResult    []*models.Conversation
	listErr       error
}

func (c *fakeCache) SaveContact(_ context.Context, contact *models.Contact) error {
	c.contacts = append(c.contacts, contact)
	return nil
}

func (c *fakeCache) SaveConversation(_ context.Context, conv *models.Conversation) error {
	c.conversations = append(c.conversations, conv)
	return nil
}

func (c *fakeCache) ListConversations(_ context.Context) ([]*models.Conversation, error) {
	return c.listResult, c.listErr
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return logger
}

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadSeedFile(t *testing.T) {
	path := writeSeed(t, `[
		{"id": "c1", "name": "Sarah Johnson", "phone": "+15551230001", "type": "client", "tags": ["vip"]},
		{"name": "Mike Chen", "phone": "+15551230002", "avatar_url": "https://example.com/m.png", "type": "lead", "pinned": true, "unread": 3}
	]`)

	records, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Sarah Johnson", records[0].Name)
	assert.Equal(t, []string{"vip"}, records[0].Tags)
	assert.Equal(t, "https://example.com/m.png", records[1].AvatarURL)
	assert.True(t, records[1].Pinned)
	assert.Equal(t, 3, records[1].Unread)
}

func TestLoadSeedFile_Missing(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadSeedFile_InvalidJSON(t *testing.T) {
	path := writeSeed(t, `{"not": "an array"}`)
	_, err := LoadSeedFile(path)
	assert.Error(t, err)
}

func TestService_Seed(t *testing.T) {
	cache := &fakeCache{}
	svc := NewService(cache, testLogger())

	path := writeSeed(t, `[
		{"id": "c1", "name": "Sarah Johnson", "phone": "+15551230001", "type": "client", "status": "active"},
		{"name": "Team Standup", "phone": "+15551230002", "type": "team"},
		{"name": "Prospect", "phone": "+15551230003", "type": "lead"}
	]`)

	convs, err := svc.Seed(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, convs, 3)

	sarah := convs[0]
	assert.Equal(t, "c1", sarah.ID)
	assert.Equal(t, models.ContactTypeClient, sarah.ChatType)
	assert.Equal(t, models.ConversationStatusActive, sarah.Status)
	assert.Equal(t, []string{"customer"}, sarah.Tags)

	team := convs[1]
	assert.NotEmpty(t, team.ID, "missing id is generated")
	assert.Equal(t, []string{"internal"}, team.Tags)

	prospect := convs[2]
	assert.Equal(t, []string{"prospect"}, prospect.Tags)
	assert.Equal(t, models.ConversationStatusNew, prospect.Status)

	// Everything was written back to the cache.
	assert.Len(t, cache.contacts, 3)
	assert.Len(t, cache.conversations, 3)
}

func TestService_SeedSkipsCachedPhones(t *testing.T) {
	cached := &models.Conversation{
		ID:      "cached-1",
		Contact: models.Contact{ID: "cached-1", Name: "Sarah", Phone: "+15551230001"},
	}
	cache := &fakeCache{listResult: []*models.Conversation{cached}}
	svc := NewService(cache, testLogger())

	path := writeSeed(t, `[
		{"id": "c1", "name": "Sarah Johnson", "phone": "+15551230001", "type": "client"},
		{"id": "c2", "name": "New Contact", "phone": "+15551230009", "type": "client"}
	]`)

	convs, err := svc.Seed(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, "cached-1", convs[0].ID, "cached conversation wins over seed record")
	assert.Equal(t, "c2", convs[1].ID)
	assert.Len(t, cache.conversations, 1, "only the new record is cached")
}

func TestService_SeedWithoutFile(t *testing.T) {
	cached := &models.Conversation{ID: "cached-1", Contact: models.Contact{Phone: "+1"}}
	cache := &fakeCache{listResult: []*models.Conversation{cached}}
	svc := NewService(cache, testLogger())

	convs, err := svc.Seed(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "cached-1", convs[0].ID)
}

func TestService_SeedInvalidTypeDefaultsToClient(t *testing.T) {
	svc := NewService(nil, testLogger())

	path := writeSeed(t, `[{"id": "c1", "name": "X", "phone": "+1", "type": "martian"}]`)
	convs, err := svc.Seed(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, models.ContactTypeClient, convs[0].ChatType)
	assert.Equal(t, models.ContactTypeClient, convs[0].Contact.Type)
}

func TestService_SeedSkipsRecordsWithoutPhone(t *testing.T) {
	svc := NewService(nil, testLogger())

	path := writeSeed(t, `[
		{"id": "c1", "name": "No Phone"},
		{"id": "c2", "name": "Has Phone", "phone": "+1"}
	]`)
	convs, err := svc.Seed(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "c2", convs[0].ID)
}
