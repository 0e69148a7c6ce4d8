package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wainbox/internal/bus"
	"wainbox/internal/errors"
	"wainbox/internal/media"
	"wainbox/internal/metrics"
	"wainbox/internal/models"
	"wainbox/internal/notify"
	"wainbox/internal/privacy"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Persister receives conversation summaries after every mutation. Writes are
// best effort: a failing persister is logged and never surfaces to callers.
type Persister interface {
	SaveConversation(ctx context.Context, conv *models.Conversation) error
}

// Attachment describes a file already resolved to a serving URL by the
// media storage. The URL is stored verbatim on the message.
type Attachment struct {
	URL      string
	MimeType string
	Filename string
	Size     int64
}

// SendRequest carries the inputs of a send operation. Content may be empty
// when an attachment is present; the API layer rejects empty sends, the
// store itself does not.
type SendRequest struct {
	Content    string
	Attachment *Attachment
	ReplyToID  string
}

// Options configures a Store. Seed conversations are injected explicitly so
// tests stay deterministic; nothing is baked into the package.
type Options struct {
	Seed           []*models.Conversation
	Clock          Clock
	Router         media.Router
	Notifier       notify.Notifier
	Bus            *bus.Bus
	Persister      Persister
	Logger         *logrus.Logger
	DeliveredDelay time.Duration
	ReadDelay      time.Duration
	// Sender and SenderID attribute outbound messages.
	Sender   string
	SenderID string
}

// Store is the single source of truth for conversations, the active
// conversation, and per-conversation message lists. All reads hand out
// copies; all writes go through the mutation methods below, which keep the
// denormalized LastMessage summary consistent with the message lists.
//
// Mutations are total: an unknown conversation or message id degrades to a
// no-op (pin, archive, react, mark-read) or a NOT_FOUND error (send), never
// a panic or a partial state.
type Store struct {
	mu sync.Mutex

	logger    *logrus.Logger
	clock     Clock
	router    media.Router
	notifier  notify.Notifier
	bus       *bus.Bus
	persister Persister

	deliveredDelay time.Duration
	readDelay      time.Duration
	sender         string
	senderID       string

	conversations []*models.Conversation
	index         map[string]*models.Conversation
	messages      map[string][]*models.Message
	activeID      string
	typing        map[string]bool

	timers map[string][]Timer
	closed bool
}

// NewStore creates a store over the given seed conversations.
func NewStore(opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NopNotifier{}
	}
	if opts.Bus == nil {
		opts.Bus = bus.New()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if opts.DeliveredDelay <= 0 {
		opts.DeliveredDelay = time.Second
	}
	if opts.ReadDelay <= opts.DeliveredDelay {
		opts.ReadDelay = opts.DeliveredDelay + 2*time.Second
	}
	if opts.Sender == "" {
		opts.Sender = "You"
	}

	s := &Store{
		logger:         opts.Logger,
		clock:          opts.Clock,
		router:         opts.Router,
		notifier:       opts.Notifier,
		bus:            opts.Bus,
		persister:      opts.Persister,
		deliveredDelay: opts.DeliveredDelay,
		readDelay:      opts.ReadDelay,
		sender:         opts.Sender,
		senderID:       opts.SenderID,
		index:          make(map[string]*models.Conversation),
		messages:       make(map[string][]*models.Message),
		typing:         make(map[string]bool),
		timers:         make(map[string][]Timer),
	}

	for _, conv := range opts.Seed {
		c := conv.Clone()
		s.conversations = append(s.conversations, c)
		s.index[c.ID] = c
	}

	metrics.SetGauge("conversations_total", float64(len(s.conversations)), nil, "Loaded conversations")
	return s
}

// Close cancels all pending delivery timers and rejects further sends.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, timers := range s.timers {
		for _, t := range timers {
			t.Stop()
		}
	}
	s.timers = make(map[string][]Timer)
}

// Conversations returns a snapshot of all conversations.
func (s *Store) Conversations() []*models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		out = append(out, conv.Clone())
	}
	return out
}

// Conversation returns a snapshot of one conversation.
func (s *Store) Conversation(id string) (*models.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return conv.Clone(), true
}

// Messages returns a snapshot of a conversation's message list. The second
// return distinguishes an unknown conversation from an empty thread.
func (s *Store) Messages(convID string) ([]*models.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[convID]; !ok {
		return nil, false
	}
	msgs := s.messages[convID]
	out := make([]*models.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Clone())
	}
	return out, true
}

// Active returns a snapshot of the active conversation, or nil.
func (s *Store) Active() *models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv, ok := s.index[s.activeID]; ok {
		return conv.Clone()
	}
	return nil
}

// ActiveID returns the id of the active conversation, or "".
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// SetActive makes the given conversation the active one and marks it read.
// Unknown ids are ignored; the previous active conversation is kept.
func (s *Store) SetActive(ctx context.Context, id string) bool {
	s.mu.Lock()
	conv, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		s.logger.WithField("conversation_id", id).Debug("setActive on unknown conversation")
		return false
	}
	s.activeID = id
	conv.UnreadCount = 0
	snapshot := conv.Clone()
	s.mu.Unlock()

	s.afterMutation(ctx, snapshot, bus.Event{
		Kind:           bus.KindConversationUpdated,
		ConversationID: id,
	})
	return true
}

// MarkRead zeroes the unread counter of a conversation.
func (s *Store) MarkRead(ctx context.Context, id string) {
	s.mu.Lock()
	conv, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	conv.UnreadCount = 0
	snapshot := conv.Clone()
	s.mu.Unlock()

	s.afterMutation(ctx, snapshot, bus.Event{
		Kind:           bus.KindConversationUpdated,
		ConversationID: id,
	})
}

// SendMessage appends a new outbound message to the conversation, updates
// its summary, advances a "new" conversation to "active", and schedules the
// simulated delivery confirmations.
func (s *Store) SendMessage(ctx context.Context, convID string, req SendRequest) (*models.Message, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errors.New(errors.ErrCodeStoreClosed, "store is closed")
	}
	conv, ok := s.index[convID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NewNotFoundError("conversation", convID)
	}

	now := s.clock.Now()

	msg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: convID,
		Content:        req.Content,
		Timestamp:      now,
		IsOutbound:     true,
		Status:         models.DeliveryStatusSent,
		Sender:         s.sender,
		SenderID:       s.senderID,
		Type:           models.TextMessage,
		ReplyTo:        s.resolveReplyLocked(conv, req.ReplyToID),
	}

	if req.Attachment != nil {
		att := req.Attachment
		msgType := models.DocumentMessage
		if s.router != nil {
			msgType = s.router.DetectType(att.MimeType, att.Filename)
		}
		msg.Type = msgType
		msg.Media = &models.Media{
			URL:       att.URL,
			MimeType:  att.MimeType,
			Filename:  att.Filename,
			SizeBytes: att.Size,
		}
	}

	s.appendOutboundLocked(conv, msg, lastMessageContent(req.Content, req.Attachment != nil))
	snapshot := conv.Clone()
	result := msg.Clone()
	s.mu.Unlock()

	metrics.IncrementCounter("messages_sent_total", map[string]string{
		"type": string(msg.Type),
	}, "Outbound messages sent")

	s.logger.WithFields(logrus.Fields{
		"conversation_id": convID,
		"message_id":      msg.ID,
		"message_type":    string(msg.Type),
		"content":         privacy.MaskMessageContent(req.Content),
	}).Info("Message sent")

	s.notifier.Notify(ctx, notify.Notification{
		Title:       "Message sent",
		Description: fmt.Sprintf("Message to %s sent", snapshot.Contact.DisplayName()),
	})
	s.afterMutation(ctx, snapshot, bus.Event{
		Kind:           bus.KindMessageSent,
		ConversationID: convID,
		MessageID:      msg.ID,
	})

	return result, nil
}

// SendVoiceMessage appends a voice message whose media payload carries only
// the recording duration.
func (s *Store) SendVoiceMessage(ctx context.Context, convID string, durationSec int) (*models.Message, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errors.New(errors.ErrCodeStoreClosed, "store is closed")
	}
	conv, ok := s.index[convID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NewNotFoundError("conversation", convID)
	}

	now := s.clock.Now()
	msg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: convID,
		Timestamp:      now,
		IsOutbound:     true,
		Status:         models.DeliveryStatusSent,
		Sender:         s.sender,
		SenderID:       s.senderID,
		Type:           models.VoiceMessage,
		Media:          &models.Media{DurationSec: durationSec},
	}

	s.appendOutboundLocked(conv, msg, "Voice message")
	snapshot := conv.Clone()
	result := msg.Clone()
	s.mu.Unlock()

	metrics.IncrementCounter("messages_sent_total", map[string]string{
		"type": string(models.VoiceMessage),
	}, "Outbound messages sent")

	s.notifier.Notify(ctx, notify.Notification{
		Title:       "Voice message sent",
		Description: fmt.Sprintf("Voice message to %s sent", snapshot.Contact.DisplayName()),
	})
	s.afterMutation(ctx, snapshot, bus.Event{
		Kind:           bus.KindMessageSent,
		ConversationID: convID,
		MessageID:      msg.ID,
	})

	return result, nil
}

// ToggleReaction adds, replaces, or removes the acting user's reaction on a
// message. The same emoji removes the reaction, a different emoji replaces
// it in place, and a missing one is appended; at most one reaction per user
// per message holds throughout. Unknown ids are silent no-ops.
func (s *Store) ToggleReaction(ctx context.Context, convID, msgID, userID, userName, emoji string) (*models.Message, bool) {
	s.mu.Lock()
	msg := s.findMessageLocked(convID, msgID)
	if msg == nil {
		s.mu.Unlock()
		s.logger.WithFields(logrus.Fields{
			"conversation_id": convID,
			"message_id":      msgID,
		}).Debug("toggleReaction on unknown message")
		return nil, false
	}

	if idx := msg.ReactionBy(userID); idx >= 0 {
		if msg.Reactions[idx].Emoji == emoji {
			msg.Reactions = append(msg.Reactions[:idx], msg.Reactions[idx+1:]...)
		} else {
			msg.Reactions[idx].Emoji = emoji
			msg.Reactions[idx].Timestamp = s.clock.Now()
		}
	} else {
		msg.Reactions = append(msg.Reactions, models.Reaction{
			Emoji:     emoji,
			UserID:    userID,
			UserName:  userName,
			Timestamp: s.clock.Now(),
		})
	}
	result := msg.Clone()
	s.mu.Unlock()

	s.bus.Publish(bus.Event{
		Kind:           bus.KindMessageReaction,
		ConversationID: convID,
		MessageID:      msgID,
		Timestamp:      s.clock.Now(),
	})
	return result, true
}

// SetPinned flags or unflags a conversation as pinned.
func (s *Store) SetPinned(ctx context.Context, id string, pinned bool) {
	verb := "pinned"
	if !pinned {
		verb = "unpinned"
	}
	s.setFlag(ctx, id, verb, func(conv *models.Conversation) {
		conv.IsPinned = pinned
	})
}

// SetArchived flags or unflags a conversation as archived.
func (s *Store) SetArchived(ctx context.Context, id string, archived bool) {
	verb := "archived"
	if !archived {
		verb = "unarchived"
	}
	s.setFlag(ctx, id, verb, func(conv *models.Conversation) {
		conv.IsArchived = archived
	})
}

// Assign sets (or clears) the team member responsible for a conversation.
func (s *Store) Assign(ctx context.Context, id, assignee string) {
	verb := "assigned"
	if assignee == "" {
		verb = "unassigned"
	}
	s.setFlag(ctx, id, verb, func(conv *models.Conversation) {
		conv.AssignedTo = assignee
	})
}

// AddTag appends a tag to a conversation if not already present.
func (s *Store) AddTag(ctx context.Context, id, tag string) {
	s.setFlag(ctx, id, "tagged", func(conv *models.Conversation) {
		if !conv.HasTag(tag) {
			conv.Tags = append(conv.Tags, tag)
		}
	})
}

// RemoveTag removes a tag from a conversation.
func (s *Store) RemoveTag(ctx context.Context, id, tag string) {
	s.setFlag(ctx, id, "untagged", func(conv *models.Conversation) {
		for i, t := range conv.Tags {
			if t == tag {
				conv.Tags = append(conv.Tags[:i], conv.Tags[i+1:]...)
				return
			}
		}
	})
}

// Typing reports the transient typing flag for a conversation.
func (s *Store) Typing(convID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing[convID]
}

// SetTyping flips the transient typing flag. Purely cosmetic: nothing is
// persisted and no summary changes.
func (s *Store) SetTyping(convID string, typing bool) {
	s.mu.Lock()
	if _, ok := s.index[convID]; !ok {
		s.mu.Unlock()
		return
	}
	s.typing[convID] = typing
	s.mu.Unlock()

	s.bus.Publish(bus.Event{
		Kind:           bus.KindConversationTyping,
		ConversationID: convID,
		Timestamp:      s.clock.Now(),
		Payload:        typing,
	})
}

// appendOutboundLocked appends msg, refreshes the summary, advances a new
// conversation to active, and schedules the delivery confirmations.
// Callers hold s.mu.
func (s *Store) appendOutboundLocked(conv *models.Conversation, msg *models.Message, summary string) {
	s.messages[conv.ID] = append(s.messages[conv.ID], msg)

	conv.LastMessage = models.LastMessage{
		Content:    summary,
		Timestamp:  msg.Timestamp,
		IsOutbound: true,
		IsRead:     false,
	}
	if conv.Status == models.ConversationStatusNew {
		conv.Status = models.ConversationStatusActive
	}

	s.scheduleStatusLocked(conv.ID, msg.ID, models.DeliveryStatusDelivered, s.deliveredDelay)
	s.scheduleStatusLocked(conv.ID, msg.ID, models.DeliveryStatusRead, s.readDelay)
}

// scheduleStatusLocked schedules a delivery-status transition for a message.
// Both transitions are scheduled at send time with independent delays; the
// monotonic guard in applyStatus keeps ordering correct even if a timer
// implementation fires them out of order.
func (s *Store) scheduleStatusLocked(convID, msgID string, status models.DeliveryStatus, delay time.Duration) {
	timer := s.clock.AfterFunc(delay, func() {
		s.applyStatus(convID, msgID, status)
	})
	s.timers[msgID] = append(s.timers[msgID], timer)
}

// applyStatus advances a message's delivery status. The message is looked up
// again at fire time; if it is gone the transition is a no-op, and a status
// that would move backwards is ignored.
func (s *Store) applyStatus(convID, msgID string, status models.DeliveryStatus) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	msg := s.findMessageLocked(convID, msgID)
	if msg == nil || status.Rank() <= msg.Status.Rank() {
		s.mu.Unlock()
		return
	}
	msg.Status = status
	if status == models.DeliveryStatusRead {
		delete(s.timers, msgID)
	}
	s.mu.Unlock()

	s.bus.Publish(bus.Event{
		Kind:           bus.KindMessageStatus,
		ConversationID: convID,
		MessageID:      msgID,
		Timestamp:      s.clock.Now(),
		Payload:        status,
	})
	metrics.IncrementCounter("message_status_transitions_total", map[string]string{
		"status": string(status),
	}, "Simulated delivery-status transitions")
}

func (s *Store) findMessageLocked(convID, msgID string) *models.Message {
	for _, m := range s.messages[convID] {
		if m.ID == msgID {
			return m
		}
	}
	return nil
}

// resolveReplyLocked snapshots the replied-to message at call time. A miss
// degrades to no reply reference. Callers hold s.mu.
func (s *Store) resolveReplyLocked(conv *models.Conversation, replyToID string) *models.ReplySnapshot {
	if replyToID == "" {
		return nil
	}
	target := s.findMessageLocked(conv.ID, replyToID)
	if target == nil {
		s.logger.WithFields(logrus.Fields{
			"conversation_id": conv.ID,
			"reply_to":        replyToID,
		}).Debug("replyTo message not found, dropping reference")
		return nil
	}

	sender := target.Sender
	if sender == "" && !target.IsOutbound {
		sender = conv.Contact.Name
	}
	return &models.ReplySnapshot{
		MessageID: target.ID,
		Content:   target.Content,
		Sender:    sender,
	}
}

// setFlag applies a mutation to a conversation by id, then notifies,
// publishes, and persists. Unknown ids are silent no-ops.
func (s *Store) setFlag(ctx context.Context, id, verb string, mutate func(*models.Conversation)) {
	s.mu.Lock()
	conv, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		s.logger.WithFields(logrus.Fields{
			"conversation_id": id,
			"operation":       verb,
		}).Debug("mutation on unknown conversation")
		return
	}
	mutate(conv)
	snapshot := conv.Clone()
	s.mu.Unlock()

	s.notifier.Notify(ctx, notify.Notification{
		Title:       "Conversation " + verb,
		Description: fmt.Sprintf("Conversation with %s %s", snapshot.Contact.DisplayName(), verb),
	})
	s.afterMutation(ctx, snapshot, bus.Event{
		Kind:           bus.KindConversationUpdated,
		ConversationID: id,
	})
}

// afterMutation publishes the update event and persists the summary.
// Persistence failures are logged and swallowed: mutations never fail the
// caller once applied in memory.
func (s *Store) afterMutation(ctx context.Context, snapshot *models.Conversation, evt bus.Event) {
	evt.Timestamp = s.clock.Now()
	s.bus.Publish(evt)

	if s.persister == nil {
		return
	}
	if err := s.persister.SaveConversation(ctx, snapshot); err != nil {
		s.logger.WithError(err).WithField("conversation_id", snapshot.ID).
			Warn("Failed to persist conversation summary")
	}
}

func lastMessageContent(content string, hasAttachment bool) string {
	if content != "" {
		return content
	}
	if hasAttachment {
		return "Attachment"
	}
	return "Message"
}
