package core

import "errors"

// Error codes for domain errors. These travel to clients verbatim in
// error events.
const (
	ErrCodeRoomNotFound   = "room_not_found"
	ErrCodeDuplicateRoom  = "duplicate_room"
	ErrCodePersistence    = "persistence_unavailable"
	ErrCodeBadRequest     = "bad_request"
	ErrCodeInvalidMessage = "invalid_message"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrDuplicateRoom = errors.New("duplicate room")
)

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
