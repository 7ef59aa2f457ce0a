package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ghostchat/ghostchat-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndListMessages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	const n = 25
	for i := 0; i < n; i++ {
		msg := &store.Message{
			RoomID:    "r1",
			Role:      "asker",
			Body:      fmt.Sprintf("msg-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := s.AppendMessage(ctx, msg); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if msg.Seq == 0 {
			t.Fatalf("append %d did not assign seq", i)
		}
	}

	msgs, err := s.ListMessages(ctx, "r1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != n {
		t.Fatalf("expected %d messages, got %d", n, len(msgs))
	}
	for i, msg := range msgs {
		if want := fmt.Sprintf("msg-%d", i); msg.Body != want {
			t.Fatalf("message %d out of order: got %q want %q", i, msg.Body, want)
		}
	}

	// Limit returns the most recent window, still in append order.
	tail, err := s.ListMessages(ctx, "r1", 5)
	if err != nil {
		t.Fatalf("list with limit: %v", err)
	}
	if len(tail) != 5 || tail[0].Body != "msg-20" || tail[4].Body != "msg-24" {
		t.Fatalf("wrong window: %+v", tail)
	}
}

func TestListMessagesUnknownRoom(t *testing.T) {
	s := newTestStore(t)

	msgs, err := s.ListMessages(context.Background(), "nope", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected empty slice, got %+v", msgs)
	}
}

func TestCreateRoomIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	room := &store.Room{ID: "r1", CreatedAt: now, LastActivity: now}
	if err := s.CreateRoom(ctx, room); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateRoom(ctx, room); err != nil {
		t.Fatalf("second create should be a no-op: %v", err)
	}

	rooms, err := s.ListRooms(ctx)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(rooms))
	}
}

func TestDeleteRoom(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_ = s.CreateRoom(ctx, &store.Room{ID: "r1", CreatedAt: now, LastActivity: now})
	_ = s.AppendMessage(ctx, &store.Message{RoomID: "r1", Role: "asker", Body: "bye", CreatedAt: now})

	if err := s.DeleteRoom(ctx, "r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteRoom(ctx, "r1"); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}

	rooms, err := s.ListRooms(ctx)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(rooms) != 0 {
		t.Fatalf("room survived deletion: %+v", rooms)
	}
	msgs, err := s.ListMessages(ctx, "r1", 0)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("messages survived deletion: %+v", msgs)
	}
}

func TestListRoomsOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	_ = s.AppendMessage(ctx, &store.Message{RoomID: "old", Role: "asker", Body: "a", CreatedAt: base})
	_ = s.AppendMessage(ctx, &store.Message{RoomID: "new", Role: "responder", Body: "b", CreatedAt: base.Add(time.Minute)})

	rooms, err := s.ListRooms(ctx)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(rooms))
	}
	if rooms[0].ID != "new" || rooms[1].ID != "old" {
		t.Fatalf("wrong ordering: %s, %s", rooms[0].ID, rooms[1].ID)
	}
}
