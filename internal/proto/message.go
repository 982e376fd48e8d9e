package proto

// Inbound is a frame coming from the client. Fields are used depending on Type.
type Inbound struct {
	Type      string `json:"type"`
	Room      string `json:"room,omitempty"`
	Message   string `json:"message,omitempty"`
	Recipient string `json:"recipient,omitempty"`
}

const (
	InboundTypeListRooms     = "listRooms"
	InboundTypeSubscribe     = "subscribe"
	InboundTypeUnsubscribe   = "unsubscribe"
	InboundTypeListUsers     = "listUsers"
	InboundTypeMessage       = "message"
	InboundTypeDirectMessage = "directMessage"

	OutboundTypeConnected    = "connected"
	OutboundTypeSubscribed   = "subscribed"
	OutboundTypeUnsubscribed = "unsubscribed"
	OutboundTypeRooms        = "rooms"
	OutboundTypeUsers        = "users"
	OutboundTypeMessage      = "message"
	OutboundTypeError        = "error"
)

// RoomRequest is the payload of subscribe, unsubscribe and listUsers.
type RoomRequest struct {
	Room string `validate:"required,max=128"`
}

// MessageRequest is the payload of message.
type MessageRequest struct {
	Room string `validate:"required,max=128"`
	Text string `validate:"max=4096"`
}

// DirectMessageRequest is the payload of directMessage.
type DirectMessageRequest struct {
	Recipient string `validate:"required,max=128"`
	Text      string `validate:"max=4096"`
}

// Connected tells a client the id it was assigned.
type Connected struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// RoomAck confirms subscribe and unsubscribe.
type RoomAck struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

// Rooms lists public rooms.
type Rooms struct {
	Type  string   `json:"type"`
	Rooms []string `json:"rooms"`
}

// Users lists members of a room.
type Users struct {
	Type  string   `json:"type"`
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

// Message is a relayed chat message. Timestamp is in milliseconds since epoch.
type Message struct {
	Type      string `json:"type"`
	Room      string `json:"room"`
	From      string `json:"from"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	IsPrivate bool   `json:"isPrivate,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Frame is the union of every outbound field, for clients that decode
// frames before knowing their type.
type Frame struct {
	Type      string   `json:"type"`
	ID        string   `json:"id,omitempty"`
	Room      string   `json:"room,omitempty"`
	Rooms     []string `json:"rooms,omitempty"`
	Users     []string `json:"users,omitempty"`
	From      string   `json:"from,omitempty"`
	Message   string   `json:"message,omitempty"`
	Timestamp int64    `json:"timestamp,omitempty"`
	IsPrivate bool     `json:"isPrivate,omitempty"`
	Code      string   `json:"code,omitempty"`
}
