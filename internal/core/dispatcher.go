package core

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// DispatcherOptions tunes the relay policy.
type DispatcherOptions struct {
	// RequireMembership drops room messages from senders who are not members.
	// Private rooms always require membership.
	RequireMembership bool
	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

// Dispatcher turns client commands into directory changes and outbound envelopes.
// It holds no state besides the directory and the last issued timestamp, and
// expects to be driven by one goroutine at a time (see Hub).
type Dispatcher struct {
	dir               *Directory
	requireMembership bool
	now               func() time.Time
	lastTS            time.Time
	log               zerolog.Logger
}

// NewDispatcher builds a dispatcher over dir.
func NewDispatcher(dir *Directory, opts DispatcherOptions, logger *zerolog.Logger) *Dispatcher {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "dispatcher").Logger()
	}
	return &Dispatcher{
		dir:               dir,
		requireMembership: opts.RequireMembership,
		now:               now,
		log:               l,
	}
}

// Directory exposes the underlying directory for read-only snapshots.
func (d *Dispatcher) Directory() *Directory {
	return d.dir
}

// Connect registers a client and greets it with its id.
func (d *Dispatcher) Connect(id string) []Envelope {
	d.dir.AddClient(id)
	d.log.Debug().Str("client_id", id).Msg("client connected")
	return []Envelope{to(Connected{ID: id}, id)}
}

// Disconnect removes a client and tells the remaining clients what changed.
func (d *Dispatcher) Disconnect(id string) []Envelope {
	if !d.dir.HasClient(id) {
		return nil
	}

	var (
		out           []Envelope
		publicDeleted bool
	)
	for _, dep := range d.dir.RemoveClient(id) {
		switch dep.Transition {
		case RoomDeleted:
			d.log.Info().Str("room", dep.Room).Str("kind", dep.Kind.String()).Msg("room deleted")
			publicDeleted = publicDeleted || dep.Kind == RoomPublic
		default:
			out = append(out, d.roomUsers(dep.Room)...)
		}
	}
	if publicDeleted {
		out = append(out, d.roomListToAll())
	}
	d.log.Debug().Str("client_id", id).Msg("client disconnected")
	return out
}

// Handle processes one command from sender.
func (d *Dispatcher) Handle(sender string, cmd Command) []Envelope {
	if reject, ok := cmd.(Reject); ok {
		return []Envelope{failure(sender, reject.Code, reject.Text)}
	}
	if !d.dir.HasClient(sender) {
		d.log.Debug().Str("client_id", sender).Msg("command from unknown client ignored")
		return nil
	}

	switch c := cmd.(type) {
	case ListRooms:
		return []Envelope{to(RoomList{Rooms: d.dir.ListPublicRooms()}, sender)}
	case Subscribe:
		return d.subscribe(sender, c.Room)
	case Unsubscribe:
		return d.unsubscribe(sender, c.Room)
	case ListUsers:
		users := lo.Without(d.dir.RoomMembers(c.Room), sender)
		return []Envelope{to(UserList{Room: c.Room, Users: users}, sender)}
	case SendMessage:
		return d.sendMessage(sender, c.Room, c.Text)
	case DirectMessage:
		return d.directMessage(sender, c.Recipient, c.Text)
	default:
		return []Envelope{failure(sender, ErrCodeUnknownType, "unknown message type")}
	}
}

func (d *Dispatcher) subscribe(sender, roomName string) []Envelope {
	if IsPrivateRoomName(roomName) {
		return []Envelope{failure(sender, ErrCodeInvalidRoom, "room name is reserved")}
	}

	transition := d.dir.JoinRoom(sender, roomName, RoomPublic)
	out := []Envelope{to(Subscribed{Room: roomName}, sender)}
	if transition == RoomCreated {
		d.log.Info().Str("room", roomName).Msg("room created")
		out = append(out, d.roomListToAll())
	}
	d.log.Debug().Str("client_id", sender).Str("room", roomName).Msg("joined room")
	return append(out, d.roomUsers(roomName)...)
}

func (d *Dispatcher) unsubscribe(sender, roomName string) []Envelope {
	kind, _ := d.dir.RoomKind(roomName)
	transition := d.dir.LeaveRoom(sender, roomName)

	out := []Envelope{to(Unsubscribed{Room: roomName}, sender)}
	if transition == RoomDeleted {
		d.log.Info().Str("room", roomName).Str("kind", kind.String()).Msg("room deleted")
		if kind == RoomPublic {
			out = append(out, d.roomListToAll())
		}
		return out
	}
	d.log.Debug().Str("client_id", sender).Str("room", roomName).Msg("left room")
	return append(out, d.roomUsers(roomName)...)
}

func (d *Dispatcher) sendMessage(sender, roomName, text string) []Envelope {
	kind, ok := d.dir.RoomKind(roomName)
	if !ok {
		return nil
	}
	if (d.requireMembership || kind == RoomPrivate) && !d.dir.IsMember(sender, roomName) {
		return []Envelope{failure(sender, ErrCodeNotInRoom, "not a member of this room")}
	}
	return d.fanOut(sender, roomName, text, kind == RoomPrivate)
}

func (d *Dispatcher) directMessage(sender, recipient, text string) []Envelope {
	if !d.dir.HasClient(recipient) {
		return nil
	}

	name := PrivateRoomName(sender, recipient)
	for _, id := range []string{sender, recipient} {
		if d.dir.JoinRoom(id, name, RoomPrivate) == RoomCreated {
			d.log.Debug().Str("room", name).Msg("private room created")
		}
	}
	return d.fanOut(sender, name, text, true)
}

func (d *Dispatcher) fanOut(sender, roomName, text string, private bool) []Envelope {
	members := d.dir.RoomMembers(roomName)
	if len(members) == 0 {
		return nil
	}
	return []Envelope{{
		To: members,
		Event: MessagePosted{
			Room:      roomName,
			From:      sender,
			Text:      text,
			Timestamp: d.timestamp(),
			Private:   private,
		},
	}}
}

// roomUsers addresses the full member list to every member, the recipient included.
func (d *Dispatcher) roomUsers(roomName string) []Envelope {
	members := d.dir.RoomMembers(roomName)
	if len(members) == 0 {
		return nil
	}
	return []Envelope{{To: members, Event: UserList{Room: roomName, Users: members}}}
}

func (d *Dispatcher) roomListToAll() Envelope {
	return Envelope{To: d.dir.ClientIDs(), Event: RoomList{Rooms: d.dir.ListPublicRooms()}}
}

// timestamp never goes backwards, even if the wall clock does.
func (d *Dispatcher) timestamp() time.Time {
	ts := d.now()
	if ts.Before(d.lastTS) {
		ts = d.lastTS
	}
	d.lastTS = ts
	return ts
}

func failure(id, code, text string) Envelope {
	return to(Failure{Error: coreError(code, text)}, id)
}
