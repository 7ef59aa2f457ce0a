package store

import (
	"context"
	"errors"
	"time"
)

// ErrRoomNotFound is returned when an operation targets an absent room.
var ErrRoomNotFound = errors.New("room not found")

// Room is the persisted record for a conversation room.
type Room struct {
	ID           string
	CreatedAt    time.Time
	LastActivity time.Time
}

// Message is a persisted chat message. Seq is assigned by the backend
// and increases in append order within a room.
type Message struct {
	Seq       int64
	RoomID    string
	Role      string
	Body      string
	ImageURL  string
	CreatedAt time.Time
}

// Store is the durable mirror of the in-memory room history. All
// methods must be safe for concurrent use.
type Store interface {
	// CreateRoom persists a room record. Creating a room that already
	// exists is a no-op.
	CreateRoom(ctx context.Context, room *Room) error

	// AppendMessage persists a message and bumps the room's
	// last-activity. The room record is created if missing.
	AppendMessage(ctx context.Context, msg *Message) error

	// ListMessages returns a room's messages in append order. If
	// limit > 0 only the most recent limit messages are returned.
	// An unknown room yields an empty slice.
	ListMessages(ctx context.Context, roomID string, limit int) ([]*Message, error)

	// DeleteRoom removes a room and its messages. Idempotent.
	DeleteRoom(ctx context.Context, roomID string) error

	// ListRooms returns all rooms ordered by last-activity descending.
	ListRooms(ctx context.Context) ([]*Room, error)

	// Close releases the underlying backend.
	Close() error
}
