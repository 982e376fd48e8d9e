package core

// Command is an already-decoded request from a client.
// The set of implementations is closed; see the types below.
type Command interface {
	command()
}

// ListRooms asks for a snapshot of public room names.
type ListRooms struct{}

// Subscribe joins (and possibly creates) a public room.
type Subscribe struct {
	Room string
}

// Unsubscribe leaves a room.
type Unsubscribe struct {
	Room string
}

// ListUsers asks who else is in a room.
type ListUsers struct {
	Room string
}

// SendMessage relays text to every member of a room.
type SendMessage struct {
	Room string
	Text string
}

// DirectMessage relays text through the private room shared with Recipient.
type DirectMessage struct {
	Recipient string
	Text      string
}

// Reject carries a protocol error found while decoding a frame.
// It is routed through the core so the reply stays ordered with the client's other events.
type Reject struct {
	Code string
	Text string
}

func (ListRooms) command()     {}
func (Subscribe) command()     {}
func (Unsubscribe) command()   {}
func (ListUsers) command()     {}
func (SendMessage) command()   {}
func (DirectMessage) command() {}
func (Reject) command()        {}
