package core

import (
	"fmt"
	"testing"
	"time"
)

func TestRoomStoreAppendOrder(t *testing.T) {
	s := NewRoomStore()
	if err := s.Create("r1"); err != nil {
		t.Fatalf("create: %v", err)
	}

	const n = 100
	for i := 0; i < n; i++ {
		msg := Message{
			Room:      "r1",
			Role:      RoleAsker,
			Body:      fmt.Sprintf("msg-%d", i),
			CreatedAt: time.Now(),
		}
		if err := s.Append("r1", msg); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	history := s.History("r1", 0)
	if len(history) != n {
		t.Fatalf("expected %d messages, got %d", n, len(history))
	}
	for i, msg := range history {
		if want := fmt.Sprintf("msg-%d", i); msg.Body != want {
			t.Fatalf("message %d out of order: got %q want %q", i, msg.Body, want)
		}
	}
}

func TestRoomStoreHistoryLimit(t *testing.T) {
	s := NewRoomStore()
	if err := s.Create("r1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 10; i++ {
		_ = s.Append("r1", Message{Room: "r1", Body: fmt.Sprintf("m%d", i), CreatedAt: time.Now()})
	}

	history := s.History("r1", 3)
	if len(history) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(history))
	}
	if history[0].Body != "m7" || history[2].Body != "m9" {
		t.Fatalf("limit returned wrong window: %+v", history)
	}
}

func TestRoomStoreUnknownRoom(t *testing.T) {
	s := NewRoomStore()

	if history := s.History("nope", 0); len(history) != 0 {
		t.Fatalf("expected empty history, got %+v", history)
	}
	if err := s.Append("nope", Message{Body: "x"}); err != ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
	if s.Delete("nope") {
		t.Fatalf("deleting absent room reported removal")
	}
}

func TestRoomStoreDuplicateCreate(t *testing.T) {
	s := NewRoomStore()
	if err := s.Create("r1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create("r1"); err != ErrDuplicateRoom {
		t.Fatalf("expected ErrDuplicateRoom, got %v", err)
	}
}

func TestRoomStoreDelete(t *testing.T) {
	s := NewRoomStore()
	_ = s.Create("r1")
	_ = s.Append("r1", Message{Room: "r1", Body: "hello", CreatedAt: time.Now()})

	if !s.Delete("r1") {
		t.Fatalf("expected removal")
	}
	if len(s.History("r1", 0)) != 0 {
		t.Fatalf("history survived delete")
	}
	if len(s.List()) != 0 {
		t.Fatalf("deleted room still listed")
	}
}

func TestRoomStoreListOrdering(t *testing.T) {
	s := NewRoomStore()
	base := time.Now()

	_ = s.Create("old")
	_ = s.Append("old", Message{Room: "old", Role: RoleAsker, Body: "first", CreatedAt: base})
	_ = s.Create("new")
	_ = s.Append("new", Message{Room: "new", Role: RoleResponder, Body: "second", CreatedAt: base.Add(time.Minute)})

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(list))
	}
	if list[0].Room != "new" || list[1].Room != "old" {
		t.Fatalf("wrong ordering: %+v", list)
	}
	if list[0].LastBody != "second" || list[0].LastRole != RoleResponder {
		t.Fatalf("wrong latest message: %+v", list[0])
	}
}

func TestRoomStoreBootstrap(t *testing.T) {
	s := NewRoomStore()
	created := time.Now().Add(-time.Hour)
	msgs := []Message{
		{Room: "r1", Body: "a", CreatedAt: created.Add(time.Minute)},
		{Room: "r1", Body: "b", CreatedAt: created.Add(2 * time.Minute)},
	}

	s.Bootstrap("r1", created, msgs)

	history := s.History("r1", 0)
	if len(history) != 2 || history[1].Body != "b" {
		t.Fatalf("unexpected bootstrapped history: %+v", history)
	}
	list := s.List()
	if len(list) != 1 || !list[0].LastActivity.Equal(msgs[1].CreatedAt) {
		t.Fatalf("last activity not taken from newest message: %+v", list)
	}
}
