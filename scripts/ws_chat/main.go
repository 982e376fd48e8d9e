package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/wirerelay/internal/proto"
)

const help = `Commands:
  /join <room>        subscribe to a room and make it current
  /leave              unsubscribe from the current room
  /rooms              list public rooms
  /users              list other users in the current room
  /dm <id> <text>     send a direct message
  <text>              send to the current room`

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:3000/ws", "WebSocket address")
	room := flag.String("room", "general", "room to join")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeSubscribe, Room: *room}); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	fmt.Printf("Connected to %s in room %s\n", *addr, *room)
	fmt.Println(help)

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn, *room)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var frame proto.Frame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		switch frame.Type {
		case proto.OutboundTypeConnected:
			fmt.Printf("your id: %s\n", frame.ID)
		case proto.OutboundTypeMessage:
			ts := time.UnixMilli(frame.Timestamp).Format(time.Kitchen)
			if frame.IsPrivate {
				fmt.Printf("[dm %s] %s: %s\n", ts, frame.From, frame.Message)
			} else {
				fmt.Printf("[%s %s] %s: %s\n", frame.Room, ts, frame.From, frame.Message)
			}
		case proto.OutboundTypeRooms:
			fmt.Printf("rooms: %s\n", strings.Join(frame.Rooms, ", "))
		case proto.OutboundTypeUsers:
			fmt.Printf("[room %s] users: %s\n", frame.Room, strings.Join(frame.Users, ", "))
		case proto.OutboundTypeSubscribed, proto.OutboundTypeUnsubscribed:
			fmt.Printf("%s %s\n", frame.Type, frame.Room)
		case proto.OutboundTypeError:
			fmt.Printf("error %s: %s\n", frame.Code, frame.Message)
		default:
			fmt.Printf("type=%s\n", frame.Type)
		}
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, room string) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	current := room
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			inbound, next := parseLine(strings.TrimSpace(line), current)
			current = next
			if inbound == nil {
				continue
			}
			if err := wsjson.Write(ctx, conn, inbound); err != nil {
				log.Printf("send error: %v", err)
				return
			}
		}
	}
}

// parseLine turns a line of input into a frame and the room that is current afterwards.
func parseLine(line, current string) (*proto.Inbound, string) {
	if line == "" {
		return nil, current
	}
	if !strings.HasPrefix(line, "/") {
		if current == "" {
			fmt.Println("no current room, use /join <room>")
			return nil, current
		}
		return &proto.Inbound{Type: proto.InboundTypeMessage, Room: current, Message: line}, current
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/join":
		if len(fields) < 2 {
			fmt.Println("usage: /join <room>")
			return nil, current
		}
		return &proto.Inbound{Type: proto.InboundTypeSubscribe, Room: fields[1]}, fields[1]
	case "/leave":
		if current == "" {
			return nil, current
		}
		return &proto.Inbound{Type: proto.InboundTypeUnsubscribe, Room: current}, ""
	case "/rooms":
		return &proto.Inbound{Type: proto.InboundTypeListRooms}, current
	case "/users":
		return &proto.Inbound{Type: proto.InboundTypeListUsers, Room: current}, current
	case "/dm":
		if len(fields) < 3 {
			fmt.Println("usage: /dm <id> <text>")
			return nil, current
		}
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(line, "/dm"), " "+fields[1]))
		return &proto.Inbound{Type: proto.InboundTypeDirectMessage, Recipient: fields[1], Message: text}, current
	default:
		fmt.Println(help)
		return nil, current
	}
}
