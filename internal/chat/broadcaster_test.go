package chat

import (
	"testing"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// member wires a real writer into the registry and keeps the client end for
// assertions.
type member struct {
	id     uuid.UUID
	client *ws.Conn
}

func addMember(t *testing.T, registry *Registry, user string) member {
	t.Helper()
	client, server := newSocketPair(t)
	w := newClientWriter(server, clockwork.NewRealClock())
	t.Cleanup(w.stop)

	id := uuid.New()
	registry.Register(id, w)
	registry.SetUser(id, user)
	return member{id: id, client: client}
}

// addStalledMember registers a writer whose send queue accepts nothing, so
// every delivery attempt to it fails.
func addStalledMember(t *testing.T, registry *Registry) uuid.UUID {
	t.Helper()
	_, server := newSocketPair(t)
	w := &clientWriter{
		connection:  server,
		clock:       clockwork.NewRealClock(),
		sendChannel: make(chan []byte),
		doneChannel: make(chan struct{}),
	}

	id := uuid.New()
	registry.Register(id, w)
	return id
}

func TestBroadcast_DeliversToAllMembers(t *testing.T) {
	registry := NewRegistry("default")
	broadcaster := NewBroadcaster(registry)
	a := addMember(t, registry, "alice")
	b := addMember(t, registry, "bob")

	broadcaster.Broadcast("default", Event{Type: evtUserJoined, User: "carol"}, uuid.Nil)

	for _, m := range []member{a, b} {
		evt := readEvent(t, m.client)
		assert.Equal(t, evtUserJoined, evt.Type)
		assert.Equal(t, "carol", evt.User)
	}
}

func TestBroadcast_ExcludesSender(t *testing.T) {
	registry := NewRegistry("default")
	broadcaster := NewBroadcaster(registry)
	a := addMember(t, registry, "alice")
	b := addMember(t, registry, "bob")

	isTyping := true
	broadcaster.Broadcast("default", Event{Type: evtTyping, User: "alice", IsTyping: &isTyping}, a.id)

	evt := readEvent(t, b.client)
	assert.Equal(t, evtTyping, evt.Type)
	assert.Equal(t, "alice", evt.User)

	expectSilence(t, a.client)
}

func TestBroadcast_OtherRoomNotReached(t *testing.T) {
	registry := NewRegistry("default")
	broadcaster := NewBroadcaster(registry)
	a := addMember(t, registry, "alice")

	broadcaster.Broadcast("other", Event{Type: evtUserJoined, User: "bob"}, uuid.Nil)

	assert.Equal(t, 1, registry.Len())
	expectSilence(t, a.client)
}

func TestBroadcast_EvictsFailedDelivery(t *testing.T) {
	registry := NewRegistry("default")
	broadcaster := NewBroadcaster(registry)
	a := addMember(t, registry, "alice")
	stalled := addStalledMember(t, registry)
	c := addMember(t, registry, "carol")
	require.Equal(t, 3, registry.Len())

	broadcaster.Broadcast("default", Event{Type: evtUserJoined, User: "dave"}, uuid.Nil)

	_, ok := registry.Get(stalled)
	assert.False(t, ok, "failed recipient must be evicted")
	assert.Equal(t, 2, registry.Len())

	// Survivors got the first event and keep receiving afterwards.
	broadcaster.Broadcast("default", Event{Type: evtUserLeft, User: "dave"}, uuid.Nil)
	for _, conn := range []*ws.Conn{a.client, c.client} {
		evt := readEvent(t, conn)
		assert.Equal(t, evtUserJoined, evt.Type)
		evt = readEvent(t, conn)
		assert.Equal(t, evtUserLeft, evt.Type)
	}
}

func TestBroadcast_EmptyRoom(t *testing.T) {
	registry := NewRegistry("default")
	broadcaster := NewBroadcaster(registry)

	broadcaster.Broadcast("default", Event{Type: evtUserJoined, User: "alice"}, uuid.Nil)

	assert.Equal(t, 0, registry.Len())
}
