// Package filter derives the visible, ordered conversation list from the
// full set plus active criteria. All functions are pure: they never mutate
// their inputs and are safe to re-run on every state change.
package filter

import (
	"sort"
	"strings"
	"time"

	"wainbox/internal/constants"
	"wainbox/internal/models"
)

// DateRange restricts conversations to those whose last message falls within
// the closed interval [From, To]. To is optional; when nil the range is
// open-ended.
type DateRange struct {
	From time.Time
	To   *time.Time
}

// Criteria is the set of active filters. Zero values mean "all" for every
// facet, so the zero Criteria passes everything through.
type Criteria struct {
	Status     models.ConversationStatus
	ChatType   models.ContactType
	SearchTerm string
	DateRange  *DateRange
	Assignee   string
	Tag        string
}

// Active reports whether any filter is set. Callers use this to distinguish
// "no matches for these filters" from "no filters applied" when rendering
// an empty list.
func (c Criteria) Active() bool {
	return c.Status != "" || c.ChatType != "" || c.SearchTerm != "" ||
		c.DateRange != nil || c.Assignee != "" || c.Tag != ""
}

// Apply returns the conversations matching the criteria, ordered with pinned
// conversations first and most recent last message next. The result is
// always a new slice; the input and its order are left untouched.
//
// The predicates are independent AND-conditions, so the outcome does not
// depend on evaluation order.
func Apply(conversations []*models.Conversation, criteria Criteria) []*models.Conversation {
	result := make([]*models.Conversation, 0, len(conversations))
	for _, conv := range conversations {
		if matches(conv, criteria) {
			result = append(result, conv)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].IsPinned != result[j].IsPinned {
			return result[i].IsPinned
		}
		return result[i].LastMessage.Timestamp.After(result[j].LastMessage.Timestamp)
	})

	return result
}

func matches(conv *models.Conversation, c Criteria) bool {
	if c.ChatType != "" && conv.ChatType != c.ChatType {
		return false
	}
	if c.Status != "" && conv.Status != c.Status {
		return false
	}
	if c.SearchTerm != "" && !matchesSearch(conv, c.SearchTerm) {
		return false
	}
	if c.DateRange != nil && !matchesDateRange(conv, c.DateRange) {
		return false
	}
	if c.Assignee != "" && conv.AssignedTo != c.Assignee {
		return false
	}
	if c.Tag != "" && !conv.HasTag(c.Tag) {
		return false
	}
	return true
}

// matchesSearch checks the lower-cased term against contact name, contact
// phone, and last message content (OR across the three fields).
func matchesSearch(conv *models.Conversation, term string) bool {
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(conv.Contact.Name), needle) ||
		strings.Contains(strings.ToLower(conv.Contact.Phone), needle) ||
		strings.Contains(strings.ToLower(conv.LastMessage.Content), needle)
}

func matchesDateRange(conv *models.Conversation, r *DateRange) bool {
	ts := conv.LastMessage.Timestamp
	if ts.Before(r.From) {
		return false
	}
	if r.To != nil && ts.After(*r.To) {
		return false
	}
	return true
}

// VisibleTags caps the tags shown on a conversation row, returning the
// visible prefix and how many were hidden. Purely a rendering concern.
func VisibleTags(conv *models.Conversation) ([]string, int) {
	if len(conv.Tags) <= constants.MaxVisibleTags {
		return append([]string(nil), conv.Tags...), 0
	}
	visible := append([]string(nil), conv.Tags[:constants.MaxVisibleTags]...)
	return visible, len(conv.Tags) - constants.MaxVisibleTags
}
