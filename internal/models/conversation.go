package models

import "time"

// ConversationStatus is the workflow stage of a conversation.
type ConversationStatus string

const (
	ConversationStatusNew      ConversationStatus = "new"
	ConversationStatusActive   ConversationStatus = "active"
	ConversationStatusWaiting  ConversationStatus = "waiting"
	ConversationStatusResolved ConversationStatus = "resolved"
)

// IsValid reports whether the status is one of the known values.
func (s ConversationStatus) IsValid() bool {
	switch s {
	case ConversationStatusNew, ConversationStatusActive,
		ConversationStatusWaiting, ConversationStatusResolved:
		return true
	}
	return false
}

// LastMessage is the denormalized summary of the most recent message in a
// conversation. It is updated only through the store's mutation operations
// so it cannot drift from the message list.
type LastMessage struct {
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	IsOutbound bool      `json:"isOutbound"`
	IsRead     bool      `json:"isRead"`
}

// Conversation pairs a contact with its message thread metadata.
type Conversation struct {
	ID          string             `json:"id"`
	Contact     Contact            `json:"contact"`
	LastMessage LastMessage        `json:"lastMessage"`
	AssignedTo  string             `json:"assignedTo,omitempty"`
	Tags        []string           `json:"tags"`
	Status      ConversationStatus `json:"status"`
	UnreadCount int                `json:"unreadCount"`
	IsPinned    bool               `json:"isPinned"`
	IsArchived  bool               `json:"isArchived"`
	IsEncrypted bool               `json:"isEncrypted"`
	ChatType    ContactType        `json:"chatType"`
}

// HasTag reports whether the conversation carries the given tag.
func (c *Conversation) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	out := *c
	out.Contact = c.Contact.Clone()
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	return &out
}
