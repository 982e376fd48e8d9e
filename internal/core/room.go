package core

// RoomKind tells whether a room shows up in public listings.
type RoomKind int

const (
	// RoomPublic rooms are created on demand by subscribers and listed to everyone.
	RoomPublic RoomKind = iota
	// RoomPrivate rooms back direct messages and are never listed.
	RoomPrivate
)

func (k RoomKind) String() string {
	switch k {
	case RoomPublic:
		return "public"
	case RoomPrivate:
		return "private"
	default:
		return "unknown"
	}
}

// RoomTransition is the effect a membership change had on a room's existence.
type RoomTransition int

const (
	// RoomUnchanged means the room existed before and after the change (or never existed).
	RoomUnchanged RoomTransition = iota
	// RoomCreated means the change gave the room its first member.
	RoomCreated
	// RoomDeleted means the change removed the last member.
	RoomDeleted
)

func (t RoomTransition) String() string {
	switch t {
	case RoomCreated:
		return "created"
	case RoomDeleted:
		return "deleted"
	default:
		return "unchanged"
	}
}

// ApplyMembershipChange reports what happens to a room holding size members
// when delta members are added (positive) or removed (negative).
// A room exists iff it has at least one member.
func ApplyMembershipChange(size, delta int) RoomTransition {
	after := size + delta
	switch {
	case size <= 0 && after > 0:
		return RoomCreated
	case size > 0 && after <= 0:
		return RoomDeleted
	default:
		return RoomUnchanged
	}
}

// room groups client ids subscribed to the same name.
// Members keep their join order so listings are stable.
type room struct {
	name    string
	kind    RoomKind
	seq     uint64
	members map[string]uint64
	nextPos uint64
}

func newRoom(name string, kind RoomKind, seq uint64) *room {
	return &room{
		name:    name,
		kind:    kind,
		seq:     seq,
		members: make(map[string]uint64),
	}
}

// add inserts a member. Returns true if newly added.
func (r *room) add(id string) bool {
	if _, exists := r.members[id]; exists {
		return false
	}
	r.nextPos++
	r.members[id] = r.nextPos
	return true
}

// remove deletes a member. Returns true if removed.
func (r *room) remove(id string) bool {
	if _, exists := r.members[id]; !exists {
		return false
	}
	delete(r.members, id)
	return true
}

func (r *room) has(id string) bool {
	_, ok := r.members[id]
	return ok
}

func (r *room) size() int {
	return len(r.members)
}

// memberIDs returns members in join order.
func (r *room) memberIDs() []string {
	return orderedKeys(r.members)
}
