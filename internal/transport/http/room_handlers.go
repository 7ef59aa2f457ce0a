package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ghostchat/ghostchat-server/internal/core"
	"github.com/ghostchat/ghostchat-server/internal/proto"
)

// RoomHandlers provides REST handlers for the responder dashboard. All
// writes go through the hub so they serialize with websocket traffic.
type RoomHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(hub *core.Hub, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{hub: hub, log: logger}
}

// CreateRoomRequest represents the create room request body. The id is
// optional; empty requests a generated one.
type CreateRoomRequest struct {
	ID string `json:"id"`
}

// CreateRoomResponse carries the id of the created room.
type CreateRoomResponse struct {
	Room string `json:"room"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateRoom handles room creation.
// POST /api/rooms
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.log.Debug().Err(err).Msg("invalid create room request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	roomID, err := h.hub.CreateRoom(c.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateRoom) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "room already exists"})
			return
		}
		h.log.Error().Err(err).Str("room_id", req.ID).Msg("failed to create room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("room", roomID).Msg("room created via api")
	c.JSON(http.StatusCreated, CreateRoomResponse{Room: roomID})
}

// ListRooms returns the directory snapshot.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	rooms, err := h.hub.Snapshot(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to snapshot rooms")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, roomSummaries(rooms))
}

// DeleteRoom removes a room. Idempotent: deleting an absent room still
// returns 204.
// DELETE /api/rooms/:id
func (h *RoomHandlers) DeleteRoom(c *gin.Context) {
	roomID := c.Param("id")
	if err := h.hub.DeleteRoom(c.Request.Context(), roomID); err != nil {
		h.log.Error().Err(err).Str("room", roomID).Msg("failed to delete room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMessages returns a room's history; an unknown room yields an
// empty array.
// GET /api/rooms/:id/messages
func (h *RoomHandlers) ListMessages(c *gin.Context) {
	roomID := c.Param("id")
	msgs, err := h.hub.History(c.Request.Context(), roomID)
	if err != nil {
		h.log.Error().Err(err).Str("room", roomID).Msg("failed to read history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]proto.EventMessage, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, eventMessage(msg))
	}
	c.JSON(http.StatusOK, out)
}
