package core

import "time"

// Role identifies which side of the conversation authored a message.
type Role string

const (
	// RoleAsker is a visitor asking questions.
	RoleAsker Role = "asker"
	// RoleResponder is the human answering as the assistant.
	RoleResponder Role = "responder"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAsker || r == RoleResponder
}

// Message is the domain model for a relayed chat message. Messages are
// immutable once appended to a room.
type Message struct {
	Room      string
	Role      Role
	Body      string
	ImageURL  string
	CreatedAt time.Time
}

// RoomSummary is one directory entry: a room and its latest activity.
type RoomSummary struct {
	Room         string
	LastBody     string
	LastRole     Role
	LastActivity time.Time
}
