package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandCreateRoom creates a room with a generated or supplied id.
	CommandCreateRoom CommandKind = iota
	// CommandJoinRoom subscribes the client to a room, leaving its
	// previous room.
	CommandJoinRoom
	// CommandGetMessages requests a room's history replay.
	CommandGetMessages
	// CommandSubmit relays a chat message into a room.
	CommandSubmit
	// CommandTyping forwards an ephemeral typing signal to room members.
	CommandTyping
	// CommandDeleteRoom removes a room and its history.
	CommandDeleteRoom
	// CommandGetRooms requests a one-off directory snapshot.
	CommandGetRooms
	// CommandSubscribeRooms subscribes the client to directory updates.
	CommandSubscribeRooms
	// CommandUnsubscribeRooms cancels the directory subscription.
	CommandUnsubscribeRooms
)

// Command represents an action requested by a client.
type Command struct {
	Kind     CommandKind
	Room     string
	Role     Role
	Body     string
	ImageURL string
	IsTyping bool
}
