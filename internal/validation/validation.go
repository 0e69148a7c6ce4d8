package validation

import (
	"strings"
	"unicode/utf8"

	"wainbox/internal/errors"
)

const (
	// MaxMessageLength caps message content at a size comfortably above
	// WhatsApp's own 65536-character ceiling for a single message.
	MaxMessageLength = 65536

	// MaxVoiceDurationSec caps voice recordings at five minutes.
	MaxVoiceDurationSec = 300

	MaxTagLength = 48
)

// ValidateSendRequest rejects sends that carry neither text nor a file.
// Whitespace-only content counts as empty.
func ValidateSendRequest(content string, hasAttachment bool) error {
	if strings.TrimSpace(content) == "" && !hasAttachment {
		return errors.NewValidationError("content", "message must have text or an attachment")
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return errors.NewValidationError("content", "message content too long")
	}
	return nil
}

// ValidateVoiceDuration rejects non-positive or implausibly long durations.
func ValidateVoiceDuration(durationSec int) error {
	if durationSec <= 0 {
		return errors.NewValidationError("duration", "duration must be positive")
	}
	if durationSec > MaxVoiceDurationSec {
		return errors.NewValidationError("duration", "duration exceeds maximum recording length")
	}
	return nil
}

// ValidateEmoji accepts short non-empty strings. A strict emoji whitelist is
// deliberately avoided; new Unicode emoji appear faster than any table.
func ValidateEmoji(emoji string) error {
	if emoji == "" {
		return errors.NewValidationError("emoji", "emoji must not be empty")
	}
	if utf8.RuneCountInString(emoji) > 8 {
		return errors.NewValidationError("emoji", "emoji too long")
	}
	return nil
}

// ValidateTag rejects empty or oversized tags.
func ValidateTag(tag string) error {
	if strings.TrimSpace(tag) == "" {
		return errors.NewValidationError("tag", "tag must not be empty")
	}
	if utf8.RuneCountInString(tag) > MaxTagLength {
		return errors.NewValidationError("tag", "tag too long")
	}
	return nil
}
