package http

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/vovakirdan/wirerelay/internal/core"
	"github.com/vovakirdan/wirerelay/internal/proto"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// inboundToCommand decodes one frame. Protocol problems come back as core.Reject
// so they are answered through the hub like any other command.
func inboundToCommand(data []byte) core.Command {
	var inbound proto.Inbound
	if err := json.Unmarshal(data, &inbound); err != nil {
		return core.Reject{Code: core.ErrCodeInvalidJSON, Text: "invalid JSON"}
	}

	switch inbound.Type {
	case proto.InboundTypeListRooms:
		return core.ListRooms{}
	case proto.InboundTypeSubscribe, proto.InboundTypeUnsubscribe, proto.InboundTypeListUsers:
		req := proto.RoomRequest{Room: inbound.Room}
		if err := validate.Struct(req); err != nil {
			return badRequest(err)
		}
		switch inbound.Type {
		case proto.InboundTypeSubscribe:
			return core.Subscribe{Room: req.Room}
		case proto.InboundTypeUnsubscribe:
			return core.Unsubscribe{Room: req.Room}
		default:
			return core.ListUsers{Room: req.Room}
		}
	case proto.InboundTypeMessage:
		req := proto.MessageRequest{Room: inbound.Room, Text: inbound.Message}
		if err := validate.Struct(req); err != nil {
			return badRequest(err)
		}
		return core.SendMessage{Room: req.Room, Text: req.Text}
	case proto.InboundTypeDirectMessage:
		req := proto.DirectMessageRequest{Recipient: inbound.Recipient, Text: inbound.Message}
		if err := validate.Struct(req); err != nil {
			return badRequest(err)
		}
		return core.DirectMessage{Recipient: req.Recipient, Text: req.Text}
	default:
		return core.Reject{Code: core.ErrCodeUnknownType, Text: "unknown message type"}
	}
}

func badRequest(err error) core.Reject {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return core.Reject{
			Code: core.ErrCodeBadRequest,
			Text: fmt.Sprintf("%s failed %s validation", fieldName(fe.Field()), fe.Tag()),
		}
	}
	return core.Reject{Code: core.ErrCodeBadRequest, Text: err.Error()}
}

// fieldName maps struct fields back to their wire names.
func fieldName(field string) string {
	switch field {
	case "Room":
		return "room"
	case "Text":
		return "message"
	case "Recipient":
		return "recipient"
	default:
		return field
	}
}

func outboundFromEvent(event core.Event) any {
	switch ev := event.(type) {
	case core.Connected:
		return proto.Connected{Type: proto.OutboundTypeConnected, ID: ev.ID}
	case core.Subscribed:
		return proto.RoomAck{Type: proto.OutboundTypeSubscribed, Room: ev.Room}
	case core.Unsubscribed:
		return proto.RoomAck{Type: proto.OutboundTypeUnsubscribed, Room: ev.Room}
	case core.RoomList:
		return proto.Rooms{Type: proto.OutboundTypeRooms, Rooms: nonNil(ev.Rooms)}
	case core.UserList:
		return proto.Users{Type: proto.OutboundTypeUsers, Room: ev.Room, Users: nonNil(ev.Users)}
	case core.MessagePosted:
		return proto.Message{
			Type:      proto.OutboundTypeMessage,
			Room:      ev.Room,
			From:      ev.From,
			Message:   ev.Text,
			Timestamp: ev.Timestamp.UnixMilli(),
			IsPrivate: ev.Private,
		}
	case core.Failure:
		if ev.Error == nil {
			return proto.Error{Type: proto.OutboundTypeError, Code: "unknown", Message: "unknown error"}
		}
		return proto.Error{Type: proto.OutboundTypeError, Code: ev.Error.Code, Message: ev.Error.Message}
	default:
		return proto.Error{Type: proto.OutboundTypeError, Code: "unknown", Message: "unknown event"}
	}
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
