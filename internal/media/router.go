package media

import (
	"path/filepath"
	"strings"

	"wainbox/internal/constants"
	"wainbox/internal/errors"
	"wainbox/internal/models"
)

// Router classifies attachments into message types and validates them
// against the configured size limits. Classification inspects the declared
// MIME category first (image/* -> image, video/* -> video, audio/* -> audio)
// and falls back to the filename extension; everything unrecognized is a
// document.
type Router interface {
	DetectType(mimeType, filename string) models.MessageType
	MaxSizeBytes(msgType models.MessageType) int64
	Validate(mimeType, filename string, sizeBytes int64) error
}

type router struct {
	config models.MediaConfig
}

// NewRouter creates a new Router instance.
func NewRouter(config models.MediaConfig) Router {
	return &router{config: config}
}

func (r *router) DetectType(mimeType, filename string) models.MessageType {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return models.ImageMessage
	case strings.HasPrefix(mimeType, "video/"):
		return models.VideoMessage
	case strings.HasPrefix(mimeType, "audio/"):
		return models.AudioMessage
	}

	// No usable MIME category; try the extension.
	switch {
	case r.hasAllowedExtension(filename, r.config.AllowedTypes.Image):
		return models.ImageMessage
	case r.hasAllowedExtension(filename, r.config.AllowedTypes.Video):
		return models.VideoMessage
	case r.hasAllowedExtension(filename, r.config.AllowedTypes.Audio):
		return models.AudioMessage
	}
	return models.DocumentMessage
}

func (r *router) MaxSizeBytes(msgType models.MessageType) int64 {
	const bytesPerMB = 1024 * 1024
	switch msgType {
	case models.ImageMessage:
		return int64(r.config.MaxSizeMB.Image) * bytesPerMB
	case models.VideoMessage:
		return int64(r.config.MaxSizeMB.Video) * bytesPerMB
	case models.AudioMessage:
		return int64(r.config.MaxSizeMB.Audio) * bytesPerMB
	case models.VoiceMessage:
		return int64(r.config.MaxSizeMB.Voice) * bytesPerMB
	default:
		return int64(r.config.MaxSizeMB.Document) * bytesPerMB
	}
}

func (r *router) Validate(mimeType, filename string, sizeBytes int64) error {
	msgType := r.DetectType(mimeType, filename)
	if maxSize := r.MaxSizeBytes(msgType); sizeBytes > maxSize {
		return errors.NewMediaError("file too large").
			WithContext("media_type", string(msgType)).
			WithContext("size_bytes", sizeBytes).
			WithContext("max_bytes", maxSize)
	}
	return nil
}

// MimeTypeForFilename returns the MIME type for a filename based on its
// extension, or the generic fallback for unknown extensions.
func MimeTypeForFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if mt, ok := constants.MimeTypes[ext]; ok {
		return mt
	}
	return constants.DefaultMimeType
}

// hasAllowedExtension checks if the file path has an extension that matches
// any of the allowed extensions. Supports both ".png" and "png" entries.
func (r *router) hasAllowedExtension(path string, allowedExtensions []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return false
	}
	for _, allowed := range allowedExtensions {
		if ext == strings.TrimPrefix(strings.ToLower(allowed), ".") {
			return true
		}
	}
	return false
}
