package main

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"wainbox/internal/chat"
	"wainbox/internal/errors"
	"wainbox/internal/filter"
	"wainbox/internal/media"
	"wainbox/internal/models"
	"wainbox/internal/validation"

	"github.com/gorilla/mux"
)

const maxUploadMemory = 16 << 20 // 16 MiB in memory, larger files spill to disk

type sendMessageRequest struct {
	Content string `json:"content"`
	ReplyTo string `json:"replyTo,omitempty"`
}

type sendVoiceRequest struct {
	DurationSec int `json:"durationSec"`
}

type flagRequest struct {
	Pinned   *bool  `json:"pinned,omitempty"`
	Archived *bool  `json:"archived,omitempty"`
	Assignee string `json:"assignee"`
}

type tagRequest struct {
	Add    string `json:"add,omitempty"`
	Remove string `json:"remove,omitempty"`
}

type reactionRequest struct {
	Emoji    string `json:"emoji"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

type conversationListResponse struct {
	Conversations []*models.Conversation `json:"conversations"`
	Total         int                    `json:"total"`
	Filtered      bool                   `json:"filtered"`
}

// handleListConversations serves the conversation list, filterable via query
// parameters. Archived conversations are excluded unless includeArchived=true.
func (s *Server) handleListConversations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		criteria, err := criteriaFromQuery(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		all := s.store.Conversations()
		if r.URL.Query().Get("includeArchived") != "true" {
			visible := all[:0]
			for _, conv := range all {
				if !conv.IsArchived {
					visible = append(visible, conv)
				}
			}
			all = visible
		}

		result := filter.Apply(all, criteria)
		s.writeJSON(w, http.StatusOK, conversationListResponse{
			Conversations: result,
			Total:         len(result),
			Filtered:      criteria.Active(),
		})
	}
}

func (s *Server) handleGetConversation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		conv, ok := s.store.Conversation(id)
		if !ok {
			s.writeError(w, r, errors.NewNotFoundError("conversation", id))
			return
		}
		s.writeJSON(w, http.StatusOK, conv)
	}
}

func (s *Server) handleActivate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if !s.store.SetActive(r.Context(), id) {
			s.writeError(w, r, errors.NewNotFoundError("conversation", id))
			return
		}
		conv, _ := s.store.Conversation(id)
		s.writeJSON(w, http.StatusOK, conv)
	}
}

func (s *Server) handleMarkRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		s.store.MarkRead(r.Context(), id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleListMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		msgs, ok := s.store.Messages(id)
		if !ok {
			s.writeError(w, r, errors.NewNotFoundError("conversation", id))
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"messages": msgs,
			"typing":   s.store.Typing(id),
		})
	}
}

// handleSendMessage accepts either a JSON body (text, optional reply) or a
// multipart form with a "file" part plus "content" and "replyTo" fields.
func (s *Server) handleSendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var req chat.SendRequest
		if isMultipart(r) {
			parsed, err := s.parseMultipartSend(r)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			req = *parsed
		} else {
			var body sendMessageRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				s.writeError(w, r, errors.NewValidationError("body", "invalid JSON body"))
				return
			}
			req.Content = body.Content
			req.ReplyToID = body.ReplyTo
		}

		if err := validation.ValidateSendRequest(req.Content, req.Attachment != nil); err != nil {
			s.writeError(w, r, err)
			return
		}

		msg, err := s.store.SendMessage(r.Context(), id, req)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, msg)
	}
}

func (s *Server) handleSendVoice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var body sendVoiceRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeError(w, r, errors.NewValidationError("body", "invalid JSON body"))
			return
		}
		if err := validation.ValidateVoiceDuration(body.DurationSec); err != nil {
			s.writeError(w, r, err)
			return
		}

		msg, err := s.store.SendVoiceMessage(r.Context(), id, body.DurationSec)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, msg)
	}
}

func (s *Server) handlePin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var body flagRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Pinned == nil {
			s.writeError(w, r, errors.NewValidationError("pinned", "body must carry a pinned flag"))
			return
		}
		s.store.SetPinned(r.Context(), id, *body.Pinned)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleArchive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var body flagRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Archived == nil {
			s.writeError(w, r, errors.NewValidationError("archived", "body must carry an archived flag"))
			return
		}
		s.store.SetArchived(r.Context(), id, *body.Archived)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleAssign() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var body flagRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeError(w, r, errors.NewValidationError("body", "invalid JSON body"))
			return
		}
		s.store.Assign(r.Context(), id, body.Assignee)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var body tagRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeError(w, r, errors.NewValidationError("body", "invalid JSON body"))
			return
		}
		switch {
		case body.Add != "":
			if err := validation.ValidateTag(body.Add); err != nil {
				s.writeError(w, r, err)
				return
			}
			s.store.AddTag(r.Context(), id, body.Add)
		case body.Remove != "":
			s.store.RemoveTag(r.Context(), id, body.Remove)
		default:
			s.writeError(w, r, errors.NewValidationError("body", "body must carry add or remove"))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleReaction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		var body reactionRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeError(w, r, errors.NewValidationError("body", "invalid JSON body"))
			return
		}
		if err := validation.ValidateEmoji(body.Emoji); err != nil {
			s.writeError(w, r, err)
			return
		}
		if body.UserID == "" {
			s.writeError(w, r, errors.NewValidationError("userId", "userId must not be empty"))
			return
		}

		msg, ok := s.store.ToggleReaction(r.Context(), vars["id"], vars["msgID"], body.UserID, body.UserName, body.Emoji)
		if !ok {
			s.writeError(w, r, errors.NewNotFoundError("message", vars["msgID"]))
			return
		}
		s.writeJSON(w, http.StatusOK, msg)
	}
}

func (s *Server) handleMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["name"]
		f, err := s.storage.Open(name)
		if err != nil {
			s.writeError(w, r, errors.NewNotFoundError("media", name))
			return
		}
		defer f.Close()

		w.Header().Set("Content-Type", media.MimeTypeForFilename(name))
		w.Header().Set("Cache-Control", "private, max-age=86400")
		io.Copy(w, f)
	}
}

func (s *Server) parseMultipartSend(r *http.Request) (*chat.SendRequest, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, errors.NewValidationError("body", "invalid multipart form")
	}

	req := &chat.SendRequest{
		Content:   r.FormValue("content"),
		ReplyToID: r.FormValue("replyTo"),
	}

	file, header, err := r.FormFile("file")
	if err == http.ErrMissingFile {
		return req, nil
	}
	if err != nil {
		return nil, errors.NewValidationError("file", "invalid file part")
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = media.MimeTypeForFilename(header.Filename)
	}
	if err := s.media.Validate(mimeType, header.Filename, header.Size); err != nil {
		return nil, err
	}

	stored, err := s.storage.Store(file, header.Filename)
	if err != nil {
		return nil, err
	}
	req.Attachment = &chat.Attachment{
		URL:      stored.URL,
		MimeType: mimeType,
		Filename: header.Filename,
		Size:     stored.SizeBytes,
	}
	return req, nil
}

// criteriaFromQuery maps query parameters onto filter criteria. Dates accept
// either a bare day (2006-01-02) or full RFC 3339.
func criteriaFromQuery(r *http.Request) (filter.Criteria, error) {
	q := r.URL.Query()
	criteria := filter.Criteria{
		SearchTerm: q.Get("q"),
		Assignee:   q.Get("assignee"),
		Tag:        q.Get("tag"),
	}

	if v := q.Get("status"); v != "" {
		status := models.ConversationStatus(v)
		if !status.IsValid() {
			return criteria, errors.NewValidationError("status", "unknown conversation status")
		}
		criteria.Status = status
	}
	if v := q.Get("chatType"); v != "" {
		chatType := models.ContactType(v)
		if !chatType.IsValid() {
			return criteria, errors.NewValidationError("chatType", "unknown chat type")
		}
		criteria.ChatType = chatType
	}

	from, err := parseQueryTime(q.Get("from"))
	if err != nil {
		return criteria, errors.NewValidationError("from", "invalid date")
	}
	to, err := parseQueryTime(q.Get("to"))
	if err != nil {
		return criteria, errors.NewValidationError("to", "invalid date")
	}
	if from != nil {
		criteria.DateRange = &filter.DateRange{From: *from, To: to}
	} else if to != nil {
		criteria.DateRange = &filter.DateRange{To: to}
	}

	return criteria, nil
}

func parseQueryTime(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func isMultipart(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return len(ct) >= 19 && ct[:19] == "multipart/form-data"
}
