package pebble

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/cockroachdb/pebble/v2"

	"github.com/ghostchat/ghostchat-server/internal/store"
)

// Key layout:
//
//	room\x00<roomID>                       -> JSON store.Room
//	msg\x00<roomID>\x00<8-byte BE seq>     -> JSON store.Message
//
// Sequence numbers increase monotonically per room, so iterating the
// message prefix yields append order.
type PebbleStore struct {
	db *pebble.DB

	mu   sync.Mutex
	next map[string]uint64
}

// New opens (or creates) a Pebble store at the given directory.
func New(dir string) (*PebbleStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble: %w", err)
	}
	return &PebbleStore{db: db, next: make(map[string]uint64)}, nil
}

// Close closes the underlying database.
func (s *PebbleStore) Close() error {
	return s.db.Close()
}

func roomKey(roomID string) []byte {
	key := make([]byte, 0, 5+len(roomID))
	key = append(key, "room\x00"...)
	return append(key, roomID...)
}

func msgPrefix(roomID string) []byte {
	key := make([]byte, 0, 4+len(roomID)+1)
	key = append(key, "msg\x00"...)
	key = append(key, roomID...)
	return append(key, 0)
}

func msgKey(roomID string, seq uint64) []byte {
	prefix := msgPrefix(roomID)
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], seq)
	return key
}

// prefixUpperBound returns the smallest key greater than every key with
// the given prefix.
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// nextSeq reserves the next sequence number for a room, discovering the
// current tail from the database on first use.
func (s *PebbleStore) nextSeq(roomID string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq, ok := s.next[roomID]; ok {
		s.next[roomID] = seq + 1
		return seq, nil
	}

	prefix := msgPrefix(roomID)
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return 0, err
	}
	defer it.Close()

	var seq uint64
	if it.Last() && len(it.Key()) >= len(prefix)+8 {
		seq = binary.BigEndian.Uint64(it.Key()[len(prefix):]) + 1
	}
	s.next[roomID] = seq + 1
	return seq, nil
}

// CreateRoom persists a room record. No-op if the room exists.
func (s *PebbleStore) CreateRoom(ctx context.Context, room *store.Room) error {
	key := roomKey(room.ID)
	if _, closer, err := s.db.Get(key); err == nil {
		closer.Close()
		return nil
	} else if !errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("get room: %w", err)
	}

	val, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal room: %w", err)
	}
	if err := s.db.Set(key, val, pebble.Sync); err != nil {
		return fmt.Errorf("set room: %w", err)
	}
	return nil
}

// AppendMessage persists a message under the next sequence key and
// refreshes the room record's last-activity.
func (s *PebbleStore) AppendMessage(ctx context.Context, msg *store.Message) error {
	seq, err := s.nextSeq(msg.RoomID)
	if err != nil {
		return fmt.Errorf("next seq: %w", err)
	}
	msg.Seq = int64(seq)

	val, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(msgKey(msg.RoomID, seq), val, nil); err != nil {
		return fmt.Errorf("set message: %w", err)
	}

	room := &store.Room{ID: msg.RoomID, CreatedAt: msg.CreatedAt, LastActivity: msg.CreatedAt}
	if existing, err := s.getRoom(msg.RoomID); err == nil {
		room.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, store.ErrRoomNotFound) {
		return err
	}
	roomVal, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal room: %w", err)
	}
	if err := batch.Set(roomKey(msg.RoomID), roomVal, nil); err != nil {
		return fmt.Errorf("set room: %w", err)
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (s *PebbleStore) getRoom(roomID string) (*store.Room, error) {
	val, closer, err := s.db.Get(roomKey(roomID))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, store.ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room: %w", err)
	}
	defer closer.Close()

	var room store.Room
	if err := json.Unmarshal(val, &room); err != nil {
		return nil, fmt.Errorf("unmarshal room: %w", err)
	}
	return &room, nil
}

// ListMessages returns a room's messages in append order.
func (s *PebbleStore) ListMessages(ctx context.Context, roomID string, limit int) ([]*store.Message, error) {
	prefix := msgPrefix(roomID)
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("new iter: %w", err)
	}
	defer it.Close()

	out := make([]*store.Message, 0, 64)
	for it.First(); it.Valid(); it.Next() {
		var msg store.Message
		if err := json.Unmarshal(it.Value(), &msg); err != nil {
			continue
		}
		out = append(out, &msg)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// DeleteRoom removes the room record and all its messages. Idempotent.
func (s *PebbleStore) DeleteRoom(ctx context.Context, roomID string) error {
	prefix := msgPrefix(roomID)
	if err := s.db.DeleteRange(prefix, prefixUpperBound(prefix), pebble.Sync); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	if err := s.db.Delete(roomKey(roomID), pebble.Sync); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	s.mu.Lock()
	delete(s.next, roomID)
	s.mu.Unlock()
	return nil
}

// ListRooms returns all rooms ordered by last-activity descending.
func (s *PebbleStore) ListRooms(ctx context.Context) ([]*store.Room, error) {
	prefix := []byte("room\x00")
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("new iter: %w", err)
	}
	defer it.Close()

	out := make([]*store.Room, 0, 16)
	for it.First(); it.Valid(); it.Next() {
		var room store.Room
		if err := json.Unmarshal(it.Value(), &room); err != nil {
			continue
		}
		out = append(out, &room)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastActivity.Equal(out[j].LastActivity) {
			return out[i].LastActivity.After(out[j].LastActivity)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
