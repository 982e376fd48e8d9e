package core

import (
	"cmp"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Directory is the in-memory index of clients and rooms.
// Every operation is total: unknown ids and room names yield empty results or no-ops.
// One lock guards the whole directory so readers never see a half-applied change.
type Directory struct {
	mu      sync.RWMutex
	clients map[string]*clientRecord
	rooms   map[string]*room
	seq     uint64
}

// RoomInfo is a point-in-time description of a room.
type RoomInfo struct {
	Name    string
	Kind    RoomKind
	Members int
}

// Departure records one room a client left and what that did to the room.
type Departure struct {
	Room       string
	Kind       RoomKind
	Transition RoomTransition
}

// Stats summarizes directory size.
type Stats struct {
	Clients int
	Rooms   int
	Public  int
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		clients: make(map[string]*clientRecord),
		rooms:   make(map[string]*room),
	}
}

// AddClient registers a client with no rooms. No-op if already registered.
func (d *Directory) AddClient(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.clients[id]; ok {
		return
	}
	d.seq++
	d.clients[id] = newClientRecord(id, d.seq)
}

// RemoveClient leaves every room the client belongs to and forgets the client.
// Departures are returned in the order the client joined the rooms.
func (d *Directory) RemoveClient(id string) []Departure {
	d.mu.Lock()
	defer d.mu.Unlock()

	client, ok := d.clients[id]
	if !ok {
		return nil
	}

	left := make([]Departure, 0, len(client.rooms))
	for _, name := range client.roomNames() {
		left = append(left, d.leaveLocked(client, name))
	}
	delete(d.clients, id)
	return left
}

// JoinRoom subscribes a client to a room, creating the room with the given kind if needed.
// The kind of an existing room is never changed.
func (d *Directory) JoinRoom(id, roomName string, kind RoomKind) RoomTransition {
	d.mu.Lock()
	defer d.mu.Unlock()

	client, ok := d.clients[id]
	if !ok {
		return RoomUnchanged
	}

	r, exists := d.rooms[roomName]
	size := 0
	if exists {
		size = r.size()
	}
	if exists && r.has(id) {
		return RoomUnchanged
	}

	transition := ApplyMembershipChange(size, 1)
	if !exists {
		d.seq++
		r = newRoom(roomName, kind, d.seq)
		d.rooms[roomName] = r
	}
	r.add(id)
	client.add(roomName)
	return transition
}

// LeaveRoom unsubscribes a client from a room, deleting the room when it empties.
func (d *Directory) LeaveRoom(id, roomName string) RoomTransition {
	d.mu.Lock()
	defer d.mu.Unlock()

	client, ok := d.clients[id]
	if !ok {
		return RoomUnchanged
	}
	return d.leaveLocked(client, roomName).Transition
}

func (d *Directory) leaveLocked(client *clientRecord, roomName string) Departure {
	client.remove(roomName)

	r, ok := d.rooms[roomName]
	if !ok || !r.has(client.id) {
		return Departure{Room: roomName, Transition: RoomUnchanged}
	}

	transition := ApplyMembershipChange(r.size(), -1)
	r.remove(client.id)
	if transition == RoomDeleted {
		delete(d.rooms, roomName)
	}
	return Departure{Room: roomName, Kind: r.kind, Transition: transition}
}

// ListPublicRooms returns public room names in creation order.
func (d *Directory) ListPublicRooms() []string {
	return lo.Map(d.PublicRooms(), func(info RoomInfo, _ int) string {
		return info.Name
	})
}

// PublicRooms returns public rooms with their member counts, in creation order.
func (d *Directory) PublicRooms() []RoomInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	public := lo.Filter(lo.Values(d.rooms), func(r *room, _ int) bool {
		return r.kind == RoomPublic
	})
	slices.SortFunc(public, func(a, b *room) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return lo.Map(public, func(r *room, _ int) RoomInfo {
		return RoomInfo{Name: r.name, Kind: r.kind, Members: r.size()}
	})
}

// RoomMembers returns the room's member ids in join order, or nil if the room does not exist.
func (d *Directory) RoomMembers(roomName string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	r, ok := d.rooms[roomName]
	if !ok {
		return nil
	}
	return r.memberIDs()
}

// RoomKind reports the kind of an existing room.
func (d *Directory) RoomKind(roomName string) (RoomKind, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	r, ok := d.rooms[roomName]
	if !ok {
		return RoomPublic, false
	}
	return r.kind, true
}

// ClientRooms returns the rooms a client belongs to in join order, or nil if unknown.
func (d *Directory) ClientRooms(id string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	client, ok := d.clients[id]
	if !ok {
		return nil
	}
	return client.roomNames()
}

// HasClient reports whether id is registered.
func (d *Directory) HasClient(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.clients[id]
	return ok
}

// IsMember reports whether id currently belongs to roomName.
func (d *Directory) IsMember(id, roomName string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	r, ok := d.rooms[roomName]
	return ok && r.has(id)
}

// ClientIDs returns every registered client in connection order.
func (d *Directory) ClientIDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	order := make(map[string]uint64, len(d.clients))
	for id, c := range d.clients {
		order[id] = c.seq
	}
	return orderedKeys(order)
}

// Stats returns current client and room counts.
func (d *Directory) Stats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return Stats{
		Clients: len(d.clients),
		Rooms:   len(d.rooms),
		Public: lo.CountBy(lo.Values(d.rooms), func(r *room) bool {
			return r.kind == RoomPublic
		}),
	}
}

// orderedKeys returns map keys sorted by their position value.
func orderedKeys(m map[string]uint64) []string {
	entries := lo.Entries(m)
	slices.SortFunc(entries, func(a, b lo.Entry[string, uint64]) int {
		return cmp.Compare(a.Value, b.Value)
	})
	return lo.Map(entries, func(e lo.Entry[string, uint64], _ int) string {
		return e.Key
	})
}
