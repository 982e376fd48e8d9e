package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/wirerelay/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:3000/ws", "WebSocket address")
	room := flag.String("room", "general", "room name")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	mustSend := func(v any) error {
		if err := wsjson.Write(ctx, conn, v); err != nil {
			return fmt.Errorf("send: %w", err)
		}
		return nil
	}

	if err := mustSend(proto.Inbound{Type: proto.InboundTypeSubscribe, Room: *room}); err != nil {
		return err
	}
	if err := mustSend(proto.Inbound{Type: proto.InboundTypeMessage, Room: *room, Message: *text}); err != nil {
		return err
	}

	for {
		var frame proto.Frame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		switch frame.Type {
		case proto.OutboundTypeConnected:
			fmt.Printf("Connected: id=%s\n", frame.ID)
		case proto.OutboundTypeSubscribed:
			fmt.Printf("Subscribed: room=%s\n", frame.Room)
		case proto.OutboundTypeRooms:
			fmt.Printf("Rooms: %v\n", frame.Rooms)
		case proto.OutboundTypeUsers:
			fmt.Printf("Users: room=%s users=%v\n", frame.Room, frame.Users)
		case proto.OutboundTypeMessage:
			fmt.Printf("Message: room=%s from=%s text=%q ts=%d\n", frame.Room, frame.From, frame.Message, frame.Timestamp)
			return nil
		case proto.OutboundTypeError:
			return fmt.Errorf("server error %s: %s", frame.Code, frame.Message)
		default:
			fmt.Printf("Received outbound: type=%s\n", frame.Type)
		}
	}
}
