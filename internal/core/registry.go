package core

// Registry tracks which room each connected session currently belongs
// to. A session is in at most one room; joining another implicitly
// leaves the previous one. Owned by the hub loop, not safe for
// concurrent use.
type Registry struct {
	byClient map[*Client]string
	byRoom   map[string]map[*Client]struct{}
}

// NewRegistry constructs an empty membership registry.
func NewRegistry() *Registry {
	return &Registry{
		byClient: make(map[*Client]string),
		byRoom:   make(map[string]map[*Client]struct{}),
	}
}

// Join associates the client with a room, leaving its previous room if
// any. Returns the room that was left, or "" if none.
func (r *Registry) Join(c *Client, roomID string) (left string) {
	if prev, ok := r.byClient[c]; ok {
		if prev == roomID {
			return ""
		}
		r.remove(c, prev)
		left = prev
	}
	r.byClient[c] = roomID
	members, ok := r.byRoom[roomID]
	if !ok {
		members = make(map[*Client]struct{})
		r.byRoom[roomID] = members
	}
	members[c] = struct{}{}
	return left
}

// Leave removes all membership for the client. Returns the room it was
// in, or "" if none.
func (r *Registry) Leave(c *Client) string {
	roomID, ok := r.byClient[c]
	if !ok {
		return ""
	}
	delete(r.byClient, c)
	r.remove(c, roomID)
	return roomID
}

// RoomOf returns the client's current room, or "" if not joined.
func (r *Registry) RoomOf(c *Client) string {
	return r.byClient[c]
}

// MembersOf iterates the clients currently joined to the room.
func (r *Registry) MembersOf(roomID string, fn func(*Client)) {
	for c := range r.byRoom[roomID] {
		fn(c)
	}
}

// EvictRoom drops all memberships for a deleted room and returns the
// clients that were in it.
func (r *Registry) EvictRoom(roomID string) []*Client {
	members := r.byRoom[roomID]
	if len(members) == 0 {
		delete(r.byRoom, roomID)
		return nil
	}
	out := make([]*Client, 0, len(members))
	for c := range members {
		delete(r.byClient, c)
		out = append(out, c)
	}
	delete(r.byRoom, roomID)
	return out
}

func (r *Registry) remove(c *Client, roomID string) {
	if members, ok := r.byRoom[roomID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(r.byRoom, roomID)
		}
	}
}
