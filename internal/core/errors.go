package core

import "errors"

// Error codes reported to clients.
const (
	ErrCodeInvalidJSON = "invalid_json"
	ErrCodeUnknownType = "unknown_type"
	ErrCodeBadRequest  = "bad_request"
	ErrCodeInvalidRoom = "invalid_room"
	ErrCodeNotInRoom   = "not_in_room"
)

// ErrHubStopped is returned when submitting to a hub whose loop has exited.
var ErrHubStopped = errors.New("hub stopped")

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
