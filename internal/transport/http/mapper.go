package http

import (
	"encoding/json"

	"github.com/ghostchat/ghostchat-server/internal/core"
	"github.com/ghostchat/ghostchat-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeCreateRoom:
		// Room id is optional; empty requests a generated one.
		var room proto.RoomData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &room); err != nil {
				return nil, nil, err
			}
		}
		return &core.Command{Kind: core.CommandCreateRoom, Room: room.Room}, nil, nil

	case proto.InboundTypeJoin:
		room, protoErr, err := roomData(inbound.Data)
		if protoErr != nil || err != nil {
			return nil, protoErr, err
		}
		return &core.Command{Kind: core.CommandJoinRoom, Room: room}, nil, nil

	case proto.InboundTypeGetMessages:
		room, protoErr, err := roomData(inbound.Data)
		if protoErr != nil || err != nil {
			return nil, protoErr, err
		}
		return &core.Command{Kind: core.CommandGetMessages, Room: room}, nil, nil

	case proto.InboundTypeQuestion, proto.InboundTypeResponse:
		var msg proto.MsgData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		if msg.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		role := core.RoleAsker
		if inbound.Type == proto.InboundTypeResponse {
			role = core.RoleResponder
		}
		return &core.Command{
			Kind:     core.CommandSubmit,
			Room:     msg.Room,
			Role:     role,
			Body:     msg.Body,
			ImageURL: msg.ImageURL,
		}, nil, nil

	case proto.InboundTypeTyping, proto.InboundTypeStopTyping:
		room, protoErr, err := roomData(inbound.Data)
		if protoErr != nil || err != nil {
			return nil, protoErr, err
		}
		return &core.Command{
			Kind:     core.CommandTyping,
			Room:     room,
			IsTyping: inbound.Type == proto.InboundTypeTyping,
		}, nil, nil

	case proto.InboundTypeDeleteRoom:
		room, protoErr, err := roomData(inbound.Data)
		if protoErr != nil || err != nil {
			return nil, protoErr, err
		}
		return &core.Command{Kind: core.CommandDeleteRoom, Room: room}, nil, nil

	case proto.InboundTypeGetRooms:
		return &core.Command{Kind: core.CommandGetRooms}, nil, nil

	case proto.InboundTypeSubscribeRooms:
		return &core.Command{Kind: core.CommandSubscribeRooms}, nil, nil

	case proto.InboundTypeUnsubscribeRooms:
		return &core.Command{Kind: core.CommandUnsubscribeRooms}, nil, nil

	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "unknown message type"}, nil
	}
}

func roomData(data json.RawMessage) (string, *proto.Error, error) {
	var room proto.RoomData
	if err := json.Unmarshal(data, &room); err != nil {
		return "", nil, err
	}
	if room.Room == "" {
		return "", &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
	}
	return room.Room, nil, nil
}

func eventMessage(msg core.Message) proto.EventMessage {
	return proto.EventMessage{
		Room:     msg.Room,
		Role:     string(msg.Role),
		Body:     msg.Body,
		ImageURL: msg.ImageURL,
		TS:       msg.CreatedAt.Unix(),
	}
}

func roomSummaries(rooms []core.RoomSummary) []proto.RoomSummary {
	out := make([]proto.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, proto.RoomSummary{
			Room:         room.Room,
			LastBody:     room.LastBody,
			LastRole:     string(room.LastRole),
			LastActivity: room.LastActivity.Unix(),
		})
	}
	return out
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoomCreated:
		return proto.Outbound{
			Type: proto.OutboundTypeRoomCreated,
			Data: proto.RoomData{Room: event.Room},
		}
	case core.EventRoomMessage:
		outType := proto.OutboundTypeQuestion
		if event.Message.Role == core.RoleResponder {
			outType = proto.OutboundTypeResponse
		}
		return proto.Outbound{Type: outType, Data: eventMessage(event.Message)}
	case core.EventHistory:
		messages := make([]proto.EventMessage, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, eventMessage(msg))
		}
		return proto.Outbound{
			Type: proto.OutboundTypeChatHistory,
			Data: proto.EventHistory{Room: event.Room, Messages: messages},
		}
	case core.EventRoomsList:
		return proto.Outbound{
			Type: proto.OutboundTypeRoomsList,
			Data: roomSummaries(event.Rooms),
		}
	case core.EventRoomDeleted:
		return proto.Outbound{
			Type: proto.OutboundTypeRoomDeleted,
			Data: proto.RoomData{Room: event.Room},
		}
	case core.EventTyping:
		outType := proto.OutboundTypeTyping
		if !event.IsTyping {
			outType = proto.OutboundTypeStopTyping
		}
		return proto.Outbound{Type: outType, Data: proto.RoomData{Room: event.Room}}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown event"}}
	}
}
