package core

import "time"

// EventKind identifies an outbound event.
type EventKind int

const (
	// EventConnected tells a new client its id.
	EventConnected EventKind = iota
	// EventSubscribed confirms a subscribe.
	EventSubscribed
	// EventUnsubscribed confirms an unsubscribe.
	EventUnsubscribed
	// EventRoomList carries public room names.
	EventRoomList
	// EventUserList carries the members of a room.
	EventUserList
	// EventMessage carries a relayed chat message.
	EventMessage
	// EventError reports a protocol or domain error to one client.
	EventError
)

// Event is sent to clients to describe what happened.
type Event interface {
	Kind() EventKind
}

// Connected is emitted once per new client.
type Connected struct {
	ID string
}

// Subscribed confirms that the client joined Room.
type Subscribed struct {
	Room string
}

// Unsubscribed confirms that the client left Room.
type Unsubscribed struct {
	Room string
}

// RoomList is a snapshot of public room names.
type RoomList struct {
	Rooms []string
}

// UserList is a snapshot of a room's members, possibly excluding the recipient.
type UserList struct {
	Room  string
	Users []string
}

// MessagePosted is a message relayed to a room.
type MessagePosted struct {
	Room      string
	From      string
	Text      string
	Timestamp time.Time
	Private   bool
}

// Failure reports an error to the client that caused it.
type Failure struct {
	Error *CoreError
}

func (Connected) Kind() EventKind     { return EventConnected }
func (Subscribed) Kind() EventKind    { return EventSubscribed }
func (Unsubscribed) Kind() EventKind  { return EventUnsubscribed }
func (RoomList) Kind() EventKind      { return EventRoomList }
func (UserList) Kind() EventKind      { return EventUserList }
func (MessagePosted) Kind() EventKind { return EventMessage }
func (Failure) Kind() EventKind       { return EventError }

// Envelope pairs an event with the clients it must reach.
type Envelope struct {
	To    []string
	Event Event
}

func to(event Event, ids ...string) Envelope {
	return Envelope{To: ids, Event: event}
}
