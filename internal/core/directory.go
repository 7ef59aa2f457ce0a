package core

// Directory derives the responder-facing room list from the room store.
type Directory struct {
	rooms *RoomStore
}

// NewDirectory constructs a directory over the given store.
func NewDirectory(rooms *RoomStore) *Directory {
	return &Directory{rooms: rooms}
}

// Snapshot returns all rooms ordered by last activity, newest first.
// With zero rooms it returns an empty slice.
func (d *Directory) Snapshot() []RoomSummary {
	return d.rooms.List()
}
