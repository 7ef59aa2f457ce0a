package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ghostchat/ghostchat-server/internal/ids"
	"github.com/ghostchat/ghostchat-server/internal/metrics"
)

// Persister mirrors room history into durable storage. Implementations
// are called from a background goroutine, never from the hub loop
// itself, so a slow or unavailable backend cannot stall relaying.
type Persister interface {
	CreateRoom(ctx context.Context, roomID string, createdAt time.Time) error
	AppendMessage(ctx context.Context, msg Message) error
	DeleteRoom(ctx context.Context, roomID string) error
}

// Options tune hub behavior.
type Options struct {
	// AutoCreateRooms makes submit and join create unknown rooms
	// instead of rejecting them.
	AutoCreateRooms bool
	// HistoryLimit caps how many messages a history replay returns.
	// Zero means unlimited.
	HistoryLimit int
}

type inboundCommand struct {
	client *Client
	cmd    *Command
}

type persistOp struct {
	client *Client // receives the error event on failure, may be nil
	run    func(context.Context) error
	what   string
}

// Hub is the relay broker: a single goroutine owns the room store and
// membership registry and processes client commands one at a time, so
// appends and broadcasts within a room happen in acceptance order.
type Hub struct {
	log     *zerolog.Logger
	gen     ids.Generator
	opts    Options
	rooms   *RoomStore
	reg     *Registry
	dir     *Directory
	persist Persister

	clients    map[*Client]struct{}
	dirSubs    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	inbox      chan inboundCommand
	requests   chan func()
	persistCh  chan persistOp
}

// NewHub constructs a hub. persist may be nil for memory-only operation.
func NewHub(gen ids.Generator, persist Persister, opts Options, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if gen == nil {
		gen = ids.Random{}
	}
	rooms := NewRoomStore()
	return &Hub{
		log:        logger,
		gen:        gen,
		opts:       opts,
		rooms:      rooms,
		reg:        NewRegistry(),
		dir:        NewDirectory(rooms),
		persist:    persist,
		clients:    make(map[*Client]struct{}),
		dirSubs:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbox:      make(chan inboundCommand, 64),
		requests:   make(chan func(), 16),
		persistCh:  make(chan persistOp, 256),
	}
}

// Bootstrap preloads a room and its history from durable storage.
// Must be called before Run.
func (h *Hub) Bootstrap(roomID string, createdAt time.Time, msgs []Message) {
	h.rooms.Bootstrap(roomID, createdAt, msgs)
	metrics.Rooms.Set(float64(h.rooms.Len()))
}

// RegisterClient attaches a connected session to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient detaches a session, cleaning up its membership.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Run processes events until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	go h.persistLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			metrics.ConnectedSessions.Set(float64(len(h.clients)))
			go h.forward(ctx, c)
		case c := <-h.unregister:
			h.disconnect(c)
		case in := <-h.inbox:
			h.handle(in.client, in.cmd)
		case fn := <-h.requests:
			fn()
		}
	}
}

// forward pumps one client's commands into the shared inbox.
func (h *Hub) forward(ctx context.Context, c *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case cmd := <-c.Commands:
			select {
			case h.inbox <- inboundCommand{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			case <-c.done:
				return
			}
		}
	}
}

func (h *Hub) disconnect(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	delete(h.dirSubs, c)
	h.reg.Leave(c)
	close(c.done)
	metrics.ConnectedSessions.Set(float64(len(h.clients)))
}

func (h *Hub) handle(c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandCreateRoom:
		h.handleCreate(c, cmd.Room)
	case CommandJoinRoom:
		h.handleJoin(c, cmd.Room)
	case CommandGetMessages:
		c.send(&Event{
			Kind:     EventHistory,
			Room:     cmd.Room,
			Messages: h.rooms.History(cmd.Room, h.opts.HistoryLimit),
		})
	case CommandSubmit:
		h.handleSubmit(c, cmd)
	case CommandTyping:
		h.handleTyping(c, cmd)
	case CommandDeleteRoom:
		h.handleDelete(c, cmd.Room)
	case CommandGetRooms:
		c.send(&Event{Kind: EventRoomsList, Rooms: h.dir.Snapshot()})
	case CommandSubscribeRooms:
		h.dirSubs[c] = struct{}{}
		c.send(&Event{Kind: EventRoomsList, Rooms: h.dir.Snapshot()})
	case CommandUnsubscribeRooms:
		delete(h.dirSubs, c)
	default:
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeInvalidMessage, "unknown command")})
	}
}

func (h *Hub) handleCreate(c *Client, roomID string) {
	id, err := h.createRoom(roomID)
	if err != nil {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeDuplicateRoom, "room already exists")})
		return
	}
	// The creator starts out as a member of its own room.
	h.reg.Join(c, id)
	c.send(&Event{Kind: EventRoomCreated, Room: id})
	h.notifyDirectory()
}

// createRoom registers a room with the supplied id, or a generated one
// if empty. Generated ids are retried until unused.
func (h *Hub) createRoom(roomID string) (string, error) {
	if roomID == "" {
		roomID = h.gen.NewID()
		for h.rooms.Exists(roomID) {
			roomID = h.gen.NewID()
		}
	}
	if err := h.rooms.Create(roomID); err != nil {
		return "", err
	}
	h.enqueuePersist(nil, "create room", func(ctx context.Context) error {
		return h.persist.CreateRoom(ctx, roomID, time.Now())
	})
	metrics.Rooms.Set(float64(h.rooms.Len()))
	metrics.RoomsCreated.Inc()
	h.log.Info().Str("room", roomID).Msg("room created")
	return roomID, nil
}

func (h *Hub) handleJoin(c *Client, roomID string) {
	if roomID == "" {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeBadRequest, "room is required")})
		return
	}
	if !h.rooms.Exists(roomID) {
		if !h.opts.AutoCreateRooms {
			c.send(&Event{Kind: EventError, Error: coreError(ErrCodeRoomNotFound, "room does not exist")})
			return
		}
		if _, err := h.createRoom(roomID); err != nil {
			c.send(&Event{Kind: EventError, Error: coreError(ErrCodeDuplicateRoom, "room already exists")})
			return
		}
		h.notifyDirectory()
	}
	h.reg.Join(c, roomID)
}

func (h *Hub) handleSubmit(c *Client, cmd *Command) {
	if cmd.Room == "" || !cmd.Role.Valid() {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeBadRequest, "room and role are required")})
		return
	}
	if cmd.Body == "" && cmd.ImageURL == "" {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeBadRequest, "message body is empty")})
		return
	}
	if !h.rooms.Exists(cmd.Room) {
		if !h.opts.AutoCreateRooms {
			c.send(&Event{Kind: EventError, Error: coreError(ErrCodeRoomNotFound, "room does not exist")})
			return
		}
		if _, err := h.createRoom(cmd.Room); err != nil {
			c.send(&Event{Kind: EventError, Error: coreError(ErrCodeDuplicateRoom, "room already exists")})
			return
		}
	}

	// Submitting to a room implies being in it.
	h.reg.Join(c, cmd.Room)

	msg := Message{
		Room:      cmd.Room,
		Role:      cmd.Role,
		Body:      cmd.Body,
		ImageURL:  cmd.ImageURL,
		CreatedAt: time.Now(),
	}
	// Append cannot fail here: the room was just checked or created, and
	// nothing else mutates the store between the two calls on this loop.
	if err := h.rooms.Append(cmd.Room, msg); err != nil {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeRoomNotFound, "room does not exist")})
		return
	}

	h.enqueuePersist(c, "append message", func(ctx context.Context) error {
		return h.persist.AppendMessage(ctx, msg)
	})

	ev := &Event{Kind: EventRoomMessage, Room: cmd.Room, Message: msg}
	h.reg.MembersOf(cmd.Room, func(member *Client) {
		member.send(ev)
	})
	metrics.MessagesRelayed.WithLabelValues(string(cmd.Role)).Inc()
	h.notifyDirectory()
}

func (h *Hub) handleTyping(c *Client, cmd *Command) {
	if cmd.Room == "" {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeBadRequest, "room is required")})
		return
	}
	// Ephemeral: never persisted, never echoed back to the sender.
	ev := &Event{Kind: EventTyping, Room: cmd.Room, IsTyping: cmd.IsTyping}
	h.reg.MembersOf(cmd.Room, func(member *Client) {
		if member != c {
			member.send(ev)
		}
	})
	metrics.TypingSignals.Inc()
}

func (h *Hub) handleDelete(c *Client, roomID string) {
	removed := h.deleteRoom(roomID)
	// Idempotent: deleting an absent room still acks the requester.
	c.send(&Event{Kind: EventRoomDeleted, Room: roomID})
	if removed {
		h.notifyDirectory()
	}
}

func (h *Hub) deleteRoom(roomID string) bool {
	if !h.rooms.Delete(roomID) {
		return false
	}
	for _, member := range h.reg.EvictRoom(roomID) {
		member.send(&Event{Kind: EventRoomDeleted, Room: roomID})
	}
	h.enqueuePersist(nil, "delete room", func(ctx context.Context) error {
		return h.persist.DeleteRoom(ctx, roomID)
	})
	metrics.Rooms.Set(float64(h.rooms.Len()))
	h.log.Info().Str("room", roomID).Msg("room deleted")
	return true
}

// notifyDirectory pushes a fresh snapshot to subscribed dashboards.
func (h *Hub) notifyDirectory() {
	if len(h.dirSubs) == 0 {
		return
	}
	ev := &Event{Kind: EventRoomsList, Rooms: h.dir.Snapshot()}
	for sub := range h.dirSubs {
		sub.send(ev)
	}
}

// enqueuePersist hands a durable write to the persist loop. When the
// queue is full the write is dropped with a log line; live relaying is
// never blocked on storage.
func (h *Hub) enqueuePersist(c *Client, what string, run func(context.Context) error) {
	if h.persist == nil {
		return
	}
	select {
	case h.persistCh <- persistOp{client: c, run: run, what: what}:
	default:
		metrics.PersistenceFailures.Inc()
		h.log.Warn().Str("op", what).Msg("persist queue full, dropping write")
	}
}

// persistLoop applies durable writes behind the hub loop. Failures are
// reported to the submitting session only; other traffic is unaffected.
func (h *Hub) persistLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-h.persistCh:
			if err := op.run(ctx); err != nil {
				metrics.PersistenceFailures.Inc()
				h.log.Error().Err(err).Str("op", op.what).Msg("persist failed")
				if op.client != nil {
					op.client.send(&Event{
						Kind:  EventError,
						Error: coreError(ErrCodePersistence, "message delivered but not persisted"),
					})
				}
			}
		}
	}
}

// ==== Request/reply surface for the REST handlers ====

// do runs fn on the hub loop and waits for completion.
func (h *Hub) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	wrapped := func() {
		fn()
		close(done)
	}
	select {
	case h.requests <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CreateRoom creates a room on behalf of a REST caller. An empty id
// requests a generated one.
func (h *Hub) CreateRoom(ctx context.Context, roomID string) (string, error) {
	var (
		id  string
		err error
	)
	doErr := h.do(ctx, func() {
		id, err = h.createRoom(roomID)
		if err == nil {
			h.notifyDirectory()
		}
	})
	if doErr != nil {
		return "", doErr
	}
	return id, err
}

// DeleteRoom removes a room on behalf of a REST caller. Idempotent.
func (h *Hub) DeleteRoom(ctx context.Context, roomID string) error {
	return h.do(ctx, func() {
		if h.deleteRoom(roomID) {
			h.notifyDirectory()
		}
	})
}

// History returns a room's message history. Unknown rooms yield an
// empty slice.
func (h *Hub) History(ctx context.Context, roomID string) ([]Message, error) {
	var msgs []Message
	if err := h.do(ctx, func() {
		msgs = h.rooms.History(roomID, h.opts.HistoryLimit)
	}); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Snapshot returns the current room directory.
func (h *Hub) Snapshot(ctx context.Context) ([]RoomSummary, error) {
	var rooms []RoomSummary
	if err := h.do(ctx, func() {
		rooms = h.dir.Snapshot()
	}); err != nil {
		return nil, err
	}
	return rooms, nil
}
