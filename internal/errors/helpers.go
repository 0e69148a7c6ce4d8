package errors

import (
	"fmt"
)

// Common error creators for frequent use cases

// NewValidationError creates a validation error with field context
func NewValidationError(field, message string) *AppError {
	return New(ErrCodeValidationFailed, message).
		WithContext("field", field).
		WithUserMessage(fmt.Sprintf("Invalid %s: %s", field, message))
}

// NewConfigError creates a configuration error
func NewConfigError(key, message string) *AppError {
	return New(ErrCodeInvalidConfig, message).
		WithContext("config_key", key).
		WithUserMessage("Configuration error")
}

// NewDatabaseError creates a database error with operation context
func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseQuery, fmt.Sprintf("database %s failed", operation)).
		WithContext("operation", operation).
		WithUserMessage("Database operation failed")
}

// NewNotFoundError creates a lookup-miss error for a resource kind and id
func NewNotFoundError(kind, id string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", kind)).
		WithContext("kind", kind).
		WithContext("id", id).
		WithUserMessage(fmt.Sprintf("%s not found", kind))
}

// NewMediaError creates a media rejection error
func NewMediaError(reason string) *AppError {
	return New(ErrCodeMediaRejected, reason).
		WithUserMessage(fmt.Sprintf("Attachment rejected: %s", reason))
}

// IsNotFound reports whether the error carries the NOT_FOUND code
func IsNotFound(err error) bool {
	return GetCode(err) == ErrCodeNotFound
}
