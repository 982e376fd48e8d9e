package core

// Client is a connected participant as seen by the hub.
// The transport owns the socket; the hub only writes to Events.
type Client struct {
	ID     string
	Events chan Event
}

// NewClient constructs a client with a buffered event channel.
func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = 32
	}
	return &Client{
		ID:     id,
		Events: make(chan Event, buffer),
	}
}

// clientRecord is the directory's view of a client: the rooms it belongs to,
// in join order.
type clientRecord struct {
	id      string
	seq     uint64
	rooms   map[string]uint64
	nextPos uint64
}

func newClientRecord(id string, seq uint64) *clientRecord {
	return &clientRecord{
		id:    id,
		seq:   seq,
		rooms: make(map[string]uint64),
	}
}

func (c *clientRecord) add(roomName string) {
	if _, ok := c.rooms[roomName]; ok {
		return
	}
	c.nextPos++
	c.rooms[roomName] = c.nextPos
}

func (c *clientRecord) remove(roomName string) {
	delete(c.rooms, roomName)
}

func (c *clientRecord) roomNames() []string {
	return orderedKeys(c.rooms)
}
