package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoomCreated confirms room creation and carries the new id.
	EventRoomCreated EventKind = iota
	// EventRoomMessage notifies room members about a relayed message.
	EventRoomMessage
	// EventHistory delivers message history for a room.
	EventHistory
	// EventRoomsList delivers a directory snapshot.
	EventRoomsList
	// EventRoomDeleted notifies members that their room is gone.
	EventRoomDeleted
	// EventTyping forwards a typing / stop-typing signal.
	EventTyping
	// EventError notifies the requesting client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Room     string
	Message  Message
	Messages []Message     // For EventHistory
	Rooms    []RoomSummary // For EventRoomsList
	IsTyping bool          // For EventTyping
	Error    *CoreError
}
