package models

import "time"

// ContactType categorizes who a conversation is with and drives
// display treatment and default tag sets.
type ContactType string

const (
	ContactTypeTeam   ContactType = "team"
	ContactTypeClient ContactType = "client"
	ContactTypeLead   ContactType = "lead"
)

// IsValid reports whether the contact type is one of the known values.
func (t ContactType) IsValid() bool {
	switch t {
	case ContactTypeTeam, ContactTypeClient, ContactTypeLead:
		return true
	}
	return false
}

// Contact represents a team member, client, or lead a conversation is with.
// Contacts are immutable once loaded into a conversation except for the
// presence fields (IsOnline, LastSeen), which may be refreshed.
type Contact struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Phone    string      `json:"phone"`
	Avatar   string      `json:"avatar,omitempty"`
	IsOnline bool        `json:"isOnline"`
	LastSeen *time.Time  `json:"lastSeen,omitempty"`
	Type     ContactType `json:"type"`
}

// DisplayName returns the best available name for rendering,
// falling back to the phone number when the name is empty.
func (c *Contact) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Phone
}

// Clone returns a copy of the contact.
func (c *Contact) Clone() Contact {
	out := *c
	if c.LastSeen != nil {
		ts := *c.LastSeen
		out.LastSeen = &ts
	}
	return out
}
