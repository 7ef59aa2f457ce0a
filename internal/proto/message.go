package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeCreateRoom       = "create_room"
	InboundTypeJoin             = "join"
	InboundTypeGetMessages      = "get_messages"
	InboundTypeQuestion         = "question"
	InboundTypeResponse         = "response"
	InboundTypeTyping           = "typing"
	InboundTypeStopTyping       = "stop_typing"
	InboundTypeDeleteRoom       = "delete_room"
	InboundTypeGetRooms         = "get_rooms"
	InboundTypeSubscribeRooms   = "subscribe_rooms"
	InboundTypeUnsubscribeRooms = "unsubscribe_rooms"

	OutboundTypeRoomCreated = "room_created"
	OutboundTypeChatHistory = "chat_history"
	OutboundTypeQuestion    = "question"
	OutboundTypeResponse    = "response"
	OutboundTypeRoomsList   = "rooms_list"
	OutboundTypeRoomDeleted = "room_deleted"
	OutboundTypeTyping      = "typing"
	OutboundTypeStopTyping  = "stop_typing"
	OutboundTypeError       = "error"
)

// RoomData addresses a single room; used by create_room (optional id),
// join, get_messages, typing, stop_typing and delete_room.
type RoomData struct {
	Room string `json:"room"`
}

// MsgData is a chat message from the client (question or response).
type MsgData struct {
	Room     string `json:"room"`
	Body     string `json:"body"`
	ImageURL string `json:"image_url,omitempty"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventMessage is one relayed chat message.
type EventMessage struct {
	Room     string `json:"room"`
	Role     string `json:"role"`
	Body     string `json:"body"`
	ImageURL string `json:"image_url,omitempty"`
	TS       int64  `json:"ts"`
}

// EventHistory replays a room's ordered history.
type EventHistory struct {
	Room     string         `json:"room"`
	Messages []EventMessage `json:"messages"`
}

// RoomSummary is one entry in the responder dashboard's room list.
type RoomSummary struct {
	Room         string `json:"room"`
	LastBody     string `json:"last_body,omitempty"`
	LastRole     string `json:"last_role,omitempty"`
	LastActivity int64  `json:"last_activity"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
