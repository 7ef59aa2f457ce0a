package core

import "testing"

func members(r *Registry, room string) map[string]bool {
	out := make(map[string]bool)
	r.MembersOf(room, func(c *Client) {
		out[c.ID] = true
	})
	return out
}

func TestRegistryJoinAndLeave(t *testing.T) {
	r := NewRegistry()
	alice := NewClient("a")
	bob := NewClient("b")

	if left := r.Join(alice, "general"); left != "" {
		t.Fatalf("unexpected left room: %q", left)
	}
	r.Join(bob, "general")

	got := members(r, "general")
	if !got["a"] || !got["b"] || len(got) != 2 {
		t.Fatalf("unexpected members: %v", got)
	}

	if room := r.Leave(alice); room != "general" {
		t.Fatalf("leave returned %q", room)
	}
	if got := members(r, "general"); got["a"] {
		t.Fatalf("alice still a member after leave")
	}
	if room := r.Leave(alice); room != "" {
		t.Fatalf("second leave returned %q", room)
	}
}

func TestRegistryJoinSwitchesRoom(t *testing.T) {
	r := NewRegistry()
	alice := NewClient("a")

	r.Join(alice, "first")
	if left := r.Join(alice, "second"); left != "first" {
		t.Fatalf("expected to leave first, got %q", left)
	}
	if r.RoomOf(alice) != "second" {
		t.Fatalf("wrong current room: %q", r.RoomOf(alice))
	}
	if got := members(r, "first"); len(got) != 0 {
		t.Fatalf("stale membership in first: %v", got)
	}

	// Rejoining the current room is a no-op.
	if left := r.Join(alice, "second"); left != "" {
		t.Fatalf("rejoin reported leaving %q", left)
	}
}

func TestRegistryEvictRoom(t *testing.T) {
	r := NewRegistry()
	alice := NewClient("a")
	bob := NewClient("b")
	r.Join(alice, "doomed")
	r.Join(bob, "doomed")

	evicted := r.EvictRoom("doomed")
	if len(evicted) != 2 {
		t.Fatalf("expected 2 evicted, got %d", len(evicted))
	}
	if r.RoomOf(alice) != "" || r.RoomOf(bob) != "" {
		t.Fatalf("memberships survived eviction")
	}
	if got := r.EvictRoom("doomed"); got != nil {
		t.Fatalf("second eviction returned %v", got)
	}
}
