package filter

import (
	"testing"
	"time"

	"wainbox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conv(id, name, phone, lastContent string, opts ...func(*models.Conversation)) *models.Conversation {
	c := &models.Conversation{
		ID: id,
		Contact: models.Contact{
			ID:    id,
			Name:  name,
			Phone: phone,
			Type:  models.ContactTypeClient,
		},
		LastMessage: models.LastMessage{
			Content:   lastContent,
			Timestamp: time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC),
		},
		Status:   models.ConversationStatusActive,
		ChatType: models.ContactTypeClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func at(y int, m time.Month, d int) func(*models.Conversation) {
	return func(c *models.Conversation) {
		c.LastMessage.Timestamp = time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	}
}

func pinned(c *models.Conversation)  { c.IsPinned = true }
func lead(c *models.Conversation)    { c.ChatType = models.ContactTypeLead }
func waiting(c *models.Conversation) { c.Status = models.ConversationStatusWaiting }

func sampleConversations() []*models.Conversation {
	return []*models.Conversation{
		conv("c1", "Sarah Johnson", "+15551230001", "See you tomorrow", at(2023, 6, 10)),
		conv("c2", "Mike Chen", "+15551230002", "Thanks sarah, got it", at(2023, 6, 20)),
		conv("c3", "Ana Costa", "+15551230003", "Invoice attached", at(2023, 7, 1), pinned),
		conv("c4", "Bob Smith", "+15551230004", "Following up", at(2023, 5, 1), lead, waiting),
	}
}

func ids(convs []*models.Conversation) []string {
	out := make([]string, len(convs))
	for i, c := range convs {
		out[i] = c.ID
	}
	return out
}

func TestApply_NoCriteriaReturnsAllSorted(t *testing.T) {
	got := Apply(sampleConversations(), Criteria{})

	// Pinned first, then most recent last message first.
	assert.Equal(t, []string{"c3", "c2", "c1", "c4"}, ids(got))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	input := sampleConversations()
	Apply(input, Criteria{})

	assert.Equal(t, []string{"c1", "c2", "c3", "c4"}, ids(input))
}

func TestApply_Search(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		{"matches contact name", "Sarah", []string{"c2", "c1"}},
		{"case insensitive", "sArAh", []string{"c2", "c1"}},
		{"matches last message content", "invoice", []string{"c3"}},
		{"matches phone", "1230004", []string{"c4"}},
		{"no matches", "zzz", []string{}},
		{"empty term matches all", "", []string{"c3", "c2", "c1", "c4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(sampleConversations(), Criteria{SearchTerm: tt.term})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApply_StatusAndChatType(t *testing.T) {
	got := Apply(sampleConversations(), Criteria{Status: models.ConversationStatusWaiting})
	assert.Equal(t, []string{"c4"}, ids(got))

	got = Apply(sampleConversations(), Criteria{ChatType: models.ContactTypeLead})
	assert.Equal(t, []string{"c4"}, ids(got))

	got = Apply(sampleConversations(), Criteria{
		Status:   models.ConversationStatusActive,
		ChatType: models.ContactTypeClient,
	})
	assert.Equal(t, []string{"c3", "c2", "c1"}, ids(got))
}

func TestApply_DateRange(t *testing.T) {
	june := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	juneEnd := time.Date(2023, 6, 30, 23, 59, 59, 0, time.UTC)

	got := Apply(sampleConversations(), Criteria{
		DateRange: &DateRange{From: june, To: &juneEnd},
	})
	assert.Equal(t, []string{"c2", "c1"}, ids(got))

	// Open-ended ranges.
	got = Apply(sampleConversations(), Criteria{DateRange: &DateRange{From: june}})
	assert.Equal(t, []string{"c3", "c2", "c1"}, ids(got))

	got = Apply(sampleConversations(), Criteria{DateRange: &DateRange{To: &juneEnd}})
	assert.Equal(t, []string{"c2", "c1", "c4"}, ids(got))
}

func TestApply_DateRangeBoundariesInclusive(t *testing.T) {
	exact := time.Date(2023, 6, 10, 12, 0, 0, 0, time.UTC)

	got := Apply(sampleConversations(), Criteria{
		DateRange: &DateRange{From: exact, To: &exact},
	})
	assert.Equal(t, []string{"c1"}, ids(got))
}

func TestApply_AssigneeAndTag(t *testing.T) {
	convs := sampleConversations()
	convs[0].AssignedTo = "mike"
	convs[1].Tags = []string{"vip", "billing"}

	got := Apply(convs, Criteria{Assignee: "mike"})
	assert.Equal(t, []string{"c1"}, ids(got))

	got = Apply(convs, Criteria{Tag: "billing"})
	assert.Equal(t, []string{"c2"}, ids(got))
}

func TestApply_PredicatesAreIndependent(t *testing.T) {
	// The same criteria built facet by facet in any order give the same
	// result as all at once: the predicates are pure AND conditions.
	combined := Apply(sampleConversations(), Criteria{
		SearchTerm: "sarah",
		Status:     models.ConversationStatusActive,
	})

	step1 := Apply(sampleConversations(), Criteria{SearchTerm: "sarah"})
	step2 := Apply(step1, Criteria{Status: models.ConversationStatusActive})

	assert.Equal(t, ids(combined), ids(step2))
}

func TestApply_PinnedBeforeRecency(t *testing.T) {
	// A pinned conversation with an old last message still sorts before an
	// unpinned one with a fresh last message.
	convs := []*models.Conversation{
		conv("fresh", "A", "+1", "new", at(2024, 1, 1)),
		conv("old-pinned", "B", "+2", "old", at(2020, 1, 1), pinned),
	}

	got := Apply(convs, Criteria{})
	assert.Equal(t, []string{"old-pinned", "fresh"}, ids(got))
}

func TestApply_StableForEqualKeys(t *testing.T) {
	ts := at(2023, 6, 15)
	convs := []*models.Conversation{
		conv("x", "X", "+1", "a", ts),
		conv("y", "Y", "+2", "b", ts),
		conv("z", "Z", "+3", "c", ts),
	}

	got := Apply(convs, Criteria{})
	assert.Equal(t, []string{"x", "y", "z"}, ids(got))
}

func TestApply_EmptyInput(t *testing.T) {
	got := Apply(nil, Criteria{SearchTerm: "anything"})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestCriteria_Active(t *testing.T) {
	assert.False(t, Criteria{}.Active())
	assert.True(t, Criteria{SearchTerm: "x"}.Active())
	assert.True(t, Criteria{Status: models.ConversationStatusNew}.Active())
	assert.True(t, Criteria{DateRange: &DateRange{}}.Active())
	assert.True(t, Criteria{Assignee: "mike"}.Active())
	assert.True(t, Criteria{Tag: "vip"}.Active())
	assert.True(t, Criteria{ChatType: models.ContactTypeTeam}.Active())
}

func TestVisibleTags(t *testing.T) {
	c := conv("c1", "A", "+1", "x")

	c.Tags = []string{"one"}
	visible, hidden := VisibleTags(c)
	assert.Equal(t, []string{"one"}, visible)
	assert.Zero(t, hidden)

	c.Tags = []string{"one", "two", "three", "four"}
	visible, hidden = VisibleTags(c)
	assert.Equal(t, []string{"one", "two"}, visible)
	assert.Equal(t, 2, hidden)

	c.Tags = nil
	visible, hidden = VisibleTags(c)
	require.Empty(t, visible)
	assert.Zero(t, hidden)
}
