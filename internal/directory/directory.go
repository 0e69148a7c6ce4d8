package directory

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"wainbox/internal/errors"
	"wainbox/internal/models"
	"wainbox/internal/privacy"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Record is one entry of the seed file. The format tolerates a couple of
// field spellings so seed files exported from other tools load unchanged.
type Record struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Avatar    string   `json:"avatar"`
	AvatarURL string   `json:"avatar_url"`
	Type      string   `json:"type"`
	Tags      []string `json:"tags"`
	Status    string   `json:"status"`
	Pinned    bool     `json:"pinned"`
	Unread    int      `json:"unread"`
}

// Cache persists contacts and conversation summaries between runs.
type Cache interface {
	SaveContact(ctx context.Context, contact *models.Contact) error
	SaveConversation(ctx context.Context, conv *models.Conversation) error
	ListConversations(ctx context.Context) ([]*models.Conversation, error)
}

// Service builds the initial conversation set from a seed file merged with
// whatever the cache already holds.
type Service struct {
	cache  Cache
	logger *logrus.Logger
}

// NewService creates a directory service. Cache may be nil, in which case
// seeding works purely from the file.
func NewService(cache Cache, logger *logrus.Logger) *Service {
	return &Service{cache: cache, logger: logger}
}

// LoadSeedFile parses a JSON array of directory records.
func LoadSeedFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidConfig, "failed to read seed file")
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidConfig, "failed to parse seed file")
	}
	return records, nil
}

// Seed returns the initial conversations: cached summaries first, then seed
// records for contacts the cache does not know yet. Newly seeded
// conversations are written back to the cache.
func (s *Service) Seed(ctx context.Context, seedPath string) ([]*models.Conversation, error) {
	var conversations []*models.Conversation
	known := make(map[string]bool)

	if s.cache != nil {
		cached, err := s.cache.ListConversations(ctx)
		if err != nil {
			return nil, err
		}
		for _, conv := range cached {
			conversations = append(conversations, conv)
			known[conv.Contact.Phone] = true
		}
	}

	if seedPath == "" {
		return conversations, nil
	}

	records, err := LoadSeedFile(seedPath)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.Phone == "" || known[rec.Phone] {
			continue
		}
		conv := s.conversationFromRecord(rec)
		conversations = append(conversations, conv)
		known[rec.Phone] = true

		if s.cache != nil {
			if err := s.cache.SaveContact(ctx, &conv.Contact); err != nil {
				s.logger.WithError(err).WithField("phone", privacy.MaskPhoneNumber(rec.Phone)).
					Warn("Failed to cache seeded contact")
			}
			if err := s.cache.SaveConversation(ctx, conv); err != nil {
				s.logger.WithError(err).WithField("conversation_id", conv.ID).
					Warn("Failed to cache seeded conversation")
			}
		}
	}

	s.logger.WithField("count", len(conversations)).Info("Directory seeded")
	return conversations, nil
}

func (s *Service) conversationFromRecord(rec Record) *models.Conversation {
	contactType := models.ContactType(rec.Type)
	if !contactType.IsValid() {
		contactType = models.ContactTypeClient
	}
	status := models.ConversationStatus(rec.Status)
	if !status.IsValid() {
		status = models.ConversationStatusNew
	}

	avatar := rec.Avatar
	if avatar == "" {
		avatar = rec.AvatarURL
	}
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	tags := rec.Tags
	if len(tags) == 0 {
		tags = defaultTags(contactType)
	}

	return &models.Conversation{
		ID: id,
		Contact: models.Contact{
			ID:     id,
			Name:   rec.Name,
			Phone:  rec.Phone,
			Avatar: avatar,
			Type:   contactType,
		},
		LastMessage: models.LastMessage{
			Timestamp: time.Now(),
			IsRead:    true,
		},
		Tags:        tags,
		Status:      status,
		UnreadCount: rec.Unread,
		IsPinned:    rec.Pinned,
		ChatType:    contactType,
	}
}

func defaultTags(t models.ContactType) []string {
	switch t {
	case models.ContactTypeTeam:
		return []string{"internal"}
	case models.ContactTypeLead:
		return []string{"prospect"}
	default:
		return []string{"customer"}
	}
}
