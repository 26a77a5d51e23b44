package chat

import (
	"sync"

	"github.com/google/uuid"

	"github.com/oranie/livechat/internal/metrics"
)

// Connection is the session state for one live channel. User stays empty
// until a join message is processed.
type Connection struct {
	ID   uuid.UUID
	Room string
	User string
}

// Member is a snapshot of one registry entry, handed out for broadcast.
type Member struct {
	Connection
	writer *clientWriter
}

type entry struct {
	conn   Connection
	writer *clientWriter
}

// Registry is the in-memory map of live channel identifiers to session
// state. Lifecycle is tied to the process: a restart loses all live session
// state, which is acceptable since durable data lives in the stores.
type Registry struct {
	mu          sync.Mutex
	defaultRoom string
	entries     map[uuid.UUID]*entry
}

func NewRegistry(defaultRoom string) *Registry {
	return &Registry{
		defaultRoom: defaultRoom,
		entries:     make(map[uuid.UUID]*entry),
	}
}

// Register adds a connection in the default room with no user. If the id is
// already present the old entry's writer is stopped and replaced, so the
// registry never holds two entries for one id.
func (r *Registry) Register(id uuid.UUID, w *clientWriter) {
	r.mu.Lock()
	old, exists := r.entries[id]
	r.entries[id] = &entry{
		conn:   Connection{ID: id, Room: r.defaultRoom},
		writer: w,
	}
	size := len(r.entries)
	r.mu.Unlock()

	if exists {
		old.writer.stop()
	}
	metrics.RegistryConnections.Set(float64(size))
}

// Unregister removes a connection and stops its writer. Returns the removed
// entry's state and whether anything was removed.
func (r *Registry) Unregister(id uuid.UUID) (Connection, bool) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	size := len(r.entries)
	r.mu.Unlock()

	if !ok {
		return Connection{}, false
	}
	e.writer.stop()
	metrics.RegistryConnections.Set(float64(size))
	return e.conn, true
}

// SetUser associates a user with a connection. Returns false if the id is
// not registered.
func (r *Registry) SetUser(id uuid.UUID, user string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return false
	}
	e.conn.User = user
	return true
}

// Get returns a copy of the connection state for id.
func (r *Registry) Get(id uuid.UUID) (Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return Connection{}, false
	}
	return e.conn, true
}

// InRoom returns a snapshot of the members currently in a room. Callers
// iterate the snapshot outside the lock, so broadcast delivery never blocks
// registry mutation.
func (r *Registry) InRoom(room string) []Member {
	r.mu.Lock()
	defer r.mu.Unlock()

	var members []Member
	for _, e := range r.entries {
		if e.conn.Room == room {
			members = append(members, Member{Connection: e.conn, writer: e.writer})
		}
	}
	return members
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close stops every writer and empties the registry. Used on shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := make([]*entry, 0, len(r.entries))
	for id, e := range r.entries {
		entries = append(entries, e)
		delete(r.entries, id)
	}
	r.mu.Unlock()

	for _, e := range entries {
		e.writer.stopGraceful("server shutting down")
	}
	metrics.RegistryConnections.Set(0)
}
