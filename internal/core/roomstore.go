package core

import (
	"sort"
	"time"
)

// roomState holds one room's append-only history.
type roomState struct {
	messages     []Message
	createdAt    time.Time
	lastActivity time.Time
}

// RoomStore keeps per-room ordered message history in memory. It is owned
// by the hub loop and is not safe for concurrent use.
type RoomStore struct {
	rooms map[string]*roomState
}

// NewRoomStore constructs an empty room store.
func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[string]*roomState)}
}

// Create registers a new empty room. Returns ErrDuplicateRoom if the id
// is already taken.
func (s *RoomStore) Create(roomID string) error {
	if _, exists := s.rooms[roomID]; exists {
		return ErrDuplicateRoom
	}
	now := time.Now()
	s.rooms[roomID] = &roomState{
		createdAt:    now,
		lastActivity: now,
	}
	return nil
}

// Exists reports whether the room is known.
func (s *RoomStore) Exists(roomID string) bool {
	_, ok := s.rooms[roomID]
	return ok
}

// Append adds a message to the room's history and bumps last-activity.
// Returns ErrRoomNotFound if the room does not exist; callers decide
// whether to Create first.
func (s *RoomStore) Append(roomID string, msg Message) error {
	room, ok := s.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	room.messages = append(room.messages, msg)
	room.lastActivity = msg.CreatedAt
	return nil
}

// History returns a copy of the room's ordered history. An unknown room
// yields an empty slice; "no history" is a valid answer, not an error.
// If limit > 0 only the most recent limit messages are returned.
func (s *RoomStore) History(roomID string, limit int) []Message {
	room, ok := s.rooms[roomID]
	if !ok {
		return []Message{}
	}
	msgs := room.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// Delete removes the room and its history. Deleting an absent room is a
// no-op; the return value reports whether anything was removed.
func (s *RoomStore) Delete(roomID string) bool {
	if _, ok := s.rooms[roomID]; !ok {
		return false
	}
	delete(s.rooms, roomID)
	return true
}

// List returns a directory snapshot ordered by last-activity descending.
func (s *RoomStore) List() []RoomSummary {
	out := make([]RoomSummary, 0, len(s.rooms))
	for id, room := range s.rooms {
		summary := RoomSummary{
			Room:         id,
			LastActivity: room.lastActivity,
		}
		if n := len(room.messages); n > 0 {
			last := room.messages[n-1]
			summary.LastBody = last.Body
			summary.LastRole = last.Role
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastActivity.Equal(out[j].LastActivity) {
			return out[i].LastActivity.After(out[j].LastActivity)
		}
		return out[i].Room < out[j].Room
	})
	return out
}

// Len returns the number of rooms.
func (s *RoomStore) Len() int {
	return len(s.rooms)
}

// Bootstrap preloads a room and its history, typically from durable
// storage at startup. Existing in-memory state for the room is replaced.
func (s *RoomStore) Bootstrap(roomID string, createdAt time.Time, msgs []Message) {
	room := &roomState{
		messages:     append([]Message(nil), msgs...),
		createdAt:    createdAt,
		lastActivity: createdAt,
	}
	if n := len(msgs); n > 0 {
		room.lastActivity = msgs[n-1].CreatedAt
	}
	s.rooms[roomID] = room
}
