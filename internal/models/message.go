package models

import "time"

// DeliveryStatus is the lifecycle stage of an outbound message.
// It only ever advances: sent -> delivered -> read.
type DeliveryStatus string

const (
	DeliveryStatusSent      DeliveryStatus = "sent"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusRead      DeliveryStatus = "read"
)

// Rank returns the position of the status in the delivery lifecycle.
// The empty status (inbound messages) ranks below all others.
func (s DeliveryStatus) Rank() int {
	switch s {
	case DeliveryStatusSent:
		return 1
	case DeliveryStatusDelivered:
		return 2
	case DeliveryStatusRead:
		return 3
	}
	return 0
}

// MessageType classifies the payload of a message.
type MessageType string

const (
	TextMessage     MessageType = "text"
	ImageMessage    MessageType = "image"
	VideoMessage    MessageType = "video"
	VoiceMessage    MessageType = "voice"
	DocumentMessage MessageType = "document"
	AudioMessage    MessageType = "audio"
)

// Media describes an attachment carried by a message. URL points at the
// locally resolvable blob served by the media storage; it is not persisted
// beyond the session.
type Media struct {
	URL         string `json:"url"`
	MimeType    string `json:"type"`
	Filename    string `json:"filename,omitempty"`
	DurationSec int    `json:"duration,omitempty"`
	SizeBytes   int64  `json:"size,omitempty"`
}

// Reaction is an emoji annotation on a message. The store enforces at most
// one reaction per user per message.
type Reaction struct {
	Emoji     string    `json:"emoji"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Timestamp time.Time `json:"timestamp"`
}

// ReplySnapshot references the message being replied to. Content and Sender
// are copied at reply time; later changes to the original do not propagate.
type ReplySnapshot struct {
	MessageID string `json:"snapshotOf"`
	Content   string `json:"contentAtReplyTime"`
	Sender    string `json:"senderAtReplyTime"`
}

// Message is a single entry in a conversation's thread.
type Message struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversationId"`
	Content        string         `json:"content"`
	Timestamp      time.Time      `json:"timestamp"`
	IsOutbound     bool           `json:"isOutbound"`
	Status         DeliveryStatus `json:"status,omitempty"`
	Sender         string         `json:"sender,omitempty"`
	SenderID       string         `json:"senderId,omitempty"`
	Type           MessageType    `json:"type"`
	Media          *Media         `json:"media,omitempty"`
	Reactions      []Reaction     `json:"reactions,omitempty"`
	ReplyTo        *ReplySnapshot `json:"replyTo,omitempty"`
}

// ReactionBy returns the index of the given user's reaction, or -1.
func (m *Message) ReactionBy(userID string) int {
	for i, r := range m.Reactions {
		if r.UserID == userID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the message.
func (m *Message) Clone() *Message {
	out := *m
	if m.Media != nil {
		media := *m.Media
		out.Media = &media
	}
	if m.Reactions != nil {
		out.Reactions = append([]Reaction(nil), m.Reactions...)
	}
	if m.ReplyTo != nil {
		reply := *m.ReplyTo
		out.ReplyTo = &reply
	}
	return &out
}
