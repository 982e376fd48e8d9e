package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestDispatcher(opts DispatcherOptions) *Dispatcher {
	if opts.Now == nil {
		opts.Now = fixedClock(testNow)
	}
	return NewDispatcher(NewDirectory(), opts, nil)
}

func connectAll(d *Dispatcher, ids ...string) {
	for _, id := range ids {
		d.Connect(id)
	}
}

func TestDispatcherConnectGreetsClient(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})

	out := d.Connect("a")
	require.Equal(t, []Envelope{{To: []string{"a"}, Event: Connected{ID: "a"}}}, out)
	assert.True(t, d.Directory().HasClient("a"))
}

func TestDispatcherSubscribeBroadcastsNewRoom(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	connectAll(d, "a", "b")

	out := d.Handle("a", Subscribe{Room: "general"})

	require.Equal(t, []Envelope{
		{To: []string{"a"}, Event: Subscribed{Room: "general"}},
		{To: []string{"a", "b"}, Event: RoomList{Rooms: []string{"general"}}},
		{To: []string{"a"}, Event: UserList{Room: "general", Users: []string{"a"}}},
	}, out)
}

func TestDispatcherSubscribeExistingRoomSkipsRoomList(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	connectAll(d, "a", "b")
	d.Handle("a", Subscribe{Room: "general"})

	out := d.Handle("b", Subscribe{Room: "general"})

	require.Equal(t, []Envelope{
		{To: []string{"b"}, Event: Subscribed{Room: "general"}},
		{To: []string{"a", "b"}, Event: UserList{Room: "general", Users: []string{"a", "b"}}},
	}, out)
}

func TestDispatcherSubscribeRejectsPrivateNamespace(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	connectAll(d, "a")

	out := d.Handle("a", Subscribe{Room: PrivateRoomName("a", "b")})

	require.Len(t, out, 1)
	fail, ok := out[0].Event.(Failure)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalidRoom, fail.Error.Code)
	assert.Empty(t, d.Directory().ClientRooms("a"))
}

func TestDispatcherUnsubscribe(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	connectAll(d, "a", "b", "c")
	d.Handle("a", Subscribe{Room: "general"})
	d.Handle("b", Subscribe{Room: "general"})

	out := d.Handle("a", Unsubscribe{Room: "general"})
	require.Equal(t, []Envelope{
		{To: []string{"a"}, Event: Unsubscribed{Room: "general"}},
		{To: []string{"b"}, Event: UserList{Room: "general", Users: []string{"b"}}},
	}, out)

	out = d.Handle("b", Unsubscribe{Room: "general"})
	require.Equal(t, []Envelope{
		{To: []string{"b"}, Event: Unsubscribed{Room: "general"}},
		{To: []string{"a", "b", "c"}, Event: RoomList{Rooms: []string{}}},
	}, out)
}

func TestDispatcherUnsubscribeUnknownRoom(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	connectAll(d, "a")

	out := d.Handle("a", Unsubscribe{Room: "ghost"})
	require.Equal(t, []Envelope{{To: []string{"a"}, Event: Unsubscribed{Room: "ghost"}}}, out)
}

func TestDispatcherListUsersExcludesRequester(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	connectAll(d, "x", "y", "z")
	for _, id := range []string{"x", "y", "z"} {
		d.Handle(id, Subscribe{Room: "lobby"})
	}

	out := d.Handle("x", ListUsers{Room: "lobby"})
	require.Equal(t, []Envelope{{To: []string{"x"}, Event: UserList{Room: "lobby", Users: []string{"y", "z"}}}}, out)

	out = d.Handle("x", ListUsers{Room: "ghost"})
	require.Len(t, out, 1)
	assert.Empty(t, out[0].Event.(UserList).Users)
}

func TestDispatcherListRooms(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	connectAll(d, "a", "b")
	d.Handle("a", Subscribe{Room: "one"})
	d.Handle("b", Subscribe{Room: "two"})
	d.Handle("a", DirectMessage{Recipient: "b", Text: "psst"})

	out := d.Handle("b", ListRooms{})
	require.Equal(t, []Envelope{{To: []string{"b"}, Event: RoomList{Rooms: []string{"one", "two"}}}}, out)
}

func TestDispatcherMessageFanOut(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	connectAll(d, "a", "b", "c", "outsider")
	for _, id := range []string{"a", "b", "c"} {
		d.Handle(id, Subscribe{Room: "lobby"})
	}

	out := d.Handle("a", SendMessage{Room: "lobby", Text: "hi"})

	want := MessagePosted{Room: "lobby", From: "a", Text: "hi", Timestamp: testNow}
	require.Equal(t, []Envelope{{To: []string{"a", "b", "c"}, Event: want}}, out)
	assert.Empty(t, eventsFor(out, "outsider"))
}

func TestDispatcherMessageToEmptyRoomIsDropped(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	connectAll(d, "a")

	assert.Empty(t, d.Handle("a", SendMessage{Room: "nowhere", Text: "hi"}))
	assert.Empty(t, d.Directory().ListPublicRooms())
}

func TestDispatcherMessageFromNonMember(t *testing.T) {
	t.Run("open model relays", func(t *testing.T) {
		d := newTestDispatcher(DispatcherOptions{})
		connectAll(d, "a", "b")
		d.Handle("b", Subscribe{Room: "lobby"})

		out := d.Handle("a", SendMessage{Room: "lobby", Text: "hello"})
		require.Len(t, out, 1)
		assert.Equal(t, []string{"b"}, out[0].To)
	})

	t.Run("strict model rejects", func(t *testing.T) {
		d := newTestDispatcher(DispatcherOptions{RequireMembership: true})
		connectAll(d, "a", "b")
		d.Handle("b", Subscribe{Room: "lobby"})

		out := d.Handle("a", SendMessage{Room: "lobby", Text: "hello"})
		require.Len(t, out, 1)
		assert.Equal(t, []string{"a"}, out[0].To)
		assert.Equal(t, ErrCodeNotInRoom, out[0].Event.(Failure).Error.Code)
	})
}

func TestDispatcherDirectMessage(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	connectAll(d, "bob", "alice", "carol")

	out := d.Handle("bob", DirectMessage{Recipient: "alice", Text: "hey"})

	room := PrivateRoomName("alice", "bob")
	require.Len(t, out, 1)
	assert.ElementsMatch(t, []string{"alice", "bob"}, out[0].To)
	assert.Equal(t, MessagePosted{Room: room, From: "bob", Text: "hey", Timestamp: testNow, Private: true}, out[0].Event)

	// The reply reuses the same room.
	out = d.Handle("alice", DirectMessage{Recipient: "bob", Text: "hi"})
	require.Len(t, out, 1)
	assert.Equal(t, room, out[0].Event.(MessagePosted).Room)

	kind, ok := d.Directory().RoomKind(room)
	require.True(t, ok)
	assert.Equal(t, RoomPrivate, kind)
	assert.Empty(t, d.Directory().ListPublicRooms())

	// Outsiders cannot post into the private room by name.
	out = d.Handle("carol", SendMessage{Room: room, Text: "let me in"})
	require.Len(t, out, 1)
	assert.Equal(t, []string{"carol"}, out[0].To)
	assert.IsType(t, Failure{}, out[0].Event)
}

func TestDispatcherDirectMessageToUnknownRecipient(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	connectAll(d, "bob")

	assert.Empty(t, d.Handle("bob", DirectMessage{Recipient: "ghost", Text: "hey"}))
	assert.Equal(t, 0, d.Directory().Stats().Rooms)
}

func TestDispatcherUnknownSenderIsIgnored(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})

	assert.Empty(t, d.Handle("ghost", ListRooms{}))
	assert.Empty(t, d.Handle("ghost", Subscribe{Room: "general"}))
	assert.Empty(t, d.Directory().ListPublicRooms())
}

func TestDispatcherRejectRepliesToSender(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	connectAll(d, "a")

	out := d.Handle("a", Reject{Code: ErrCodeInvalidJSON, Text: "invalid JSON"})
	require.Equal(t, []Envelope{{
		To:    []string{"a"},
		Event: Failure{Error: &CoreError{Code: ErrCodeInvalidJSON, Message: "invalid JSON"}},
	}}, out)
	assert.Equal(t, Stats{Clients: 1}, d.Directory().Stats())
}

func TestDispatcherDisconnect(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	connectAll(d, "x", "y", "z")
	d.Handle("x", Subscribe{Room: "r1"})
	d.Handle("y", Subscribe{Room: "r1"})
	d.Handle("x", Subscribe{Room: "r2"})

	out := d.Disconnect("x")

	require.Equal(t, []Envelope{
		{To: []string{"y"}, Event: UserList{Room: "r1", Users: []string{"y"}}},
		{To: []string{"y", "z"}, Event: RoomList{Rooms: []string{"r1"}}},
	}, out)
	assert.Nil(t, d.Disconnect("x"))
}

func TestDispatcherTimestampsNeverGoBackwards(t *testing.T) {
	times := []time.Time{testNow, testNow.Add(-time.Minute), testNow.Add(time.Second)}
	i := 0
	d := newTestDispatcher(DispatcherOptions{Now: func() time.Time {
		ts := times[i]
		i++
		return ts
	}})
	connectAll(d, "a")
	d.Handle("a", Subscribe{Room: "lobby"})

	var got []time.Time
	for range times {
		out := d.Handle("a", SendMessage{Room: "lobby", Text: "tick"})
		require.Len(t, out, 1)
		got = append(got, out[0].Event.(MessagePosted).Timestamp)
	}
	assert.Equal(t, []time.Time{testNow, testNow, testNow.Add(time.Second)}, got)
}
