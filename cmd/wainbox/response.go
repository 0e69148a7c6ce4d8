package main

import (
	"encoding/json"
	"net/http"

	"wainbox/internal/errors"
	"wainbox/internal/tracing"

	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps application error codes to HTTP statuses and hides
// internal detail behind the user-facing message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)

	var status int
	switch code {
	case errors.ErrCodeValidationFailed, errors.ErrCodeInvalidInput, errors.ErrCodeMediaRejected:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeStoreClosed:
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}

	requestInfo := tracing.GetRequestInfo(r.Context())
	entry := s.logger.WithFields(logrus.Fields{
		"request_id": requestInfo.RequestID,
		"path":       r.URL.Path,
		"status":     status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request rejected")
	}

	s.writeJSON(w, status, errorResponse{
		Error: errors.GetUserMessage(err),
		Code:  string(code),
	})
}
