package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/oranie/livechat/internal/domain"
)

// mockCommentStore records puts and assigns deterministic times.
type mockCommentStore struct {
	mu    sync.Mutex
	puts  []domain.Comment
	seq   int
	putFn func(name, comment, room string) (domain.Comment, error)
}

func (m *mockCommentStore) PutComment(_ context.Context, name, comment, room string) (domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putFn != nil {
		return m.putFn(name, comment, room)
	}
	m.seq++
	stored := domain.Comment{
		Name:     name,
		Time:     fmt.Sprintf("%d.000000", 1_700_000_000+m.seq),
		Comment:  comment,
		ChatRoom: room,
	}
	m.puts = append(m.puts, stored)
	return stored, nil
}

func (m *mockCommentStore) GetLatestComments(context.Context, string, int) ([]domain.Comment, error) {
	return nil, nil
}

func (m *mockCommentStore) GetRangeComments(context.Context, string, string) ([]domain.Comment, error) {
	return nil, nil
}

func (m *mockCommentStore) GetAllComments(context.Context, string) ([]domain.Comment, error) {
	return nil, nil
}

// newChannelServer wires a full registry/broadcaster/handler stack behind an
// httptest WebSocket endpoint.
func newChannelServer(t *testing.T, store domain.CommentStore) (*Registry, func() *ws.Conn) {
	t.Helper()

	if store == nil {
		store = &mockCommentStore{}
	}

	registry := NewRegistry("default")
	broadcaster := NewBroadcaster(registry)
	handler := NewHandler(registry, broadcaster, store, "chat", clockwork.NewRealClock())

	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		go handler.HandleConnection(r.Context(), conn)
	}))
	t.Cleanup(server.Close)
	t.Cleanup(registry.Close)

	dial := func() *ws.Conn {
		t.Helper()
		url := "ws" + strings.TrimPrefix(server.URL, "http")
		conn, _, err := ws.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		return conn
	}

	return registry, dial
}

func send(t *testing.T, conn *ws.Conn, msg any) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(ws.TextMessage, data))
}

func readEvent(t *testing.T, conn *ws.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt Event
	require.NoError(t, json.Unmarshal(data, &evt))
	return evt
}

// expectSilence asserts no message arrives within the window.
func expectSilence(t *testing.T, conn *ws.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func waitForConnections(r *Registry, expected int) bool {
	for range 100 {
		if r.Len() == expected {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// newSocketPair upgrades one connection and returns both ends.
func newSocketPair(t *testing.T) (client, server *ws.Conn) {
	t.Helper()

	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	serverSide := make(chan *ws.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverSide <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-serverSide:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server side of socket pair")
	}
	t.Cleanup(func() { server.Close() })
	return client, server
}

// joinAs dials, joins with the given user and consumes the joiner's own
// user_joined echo.
func joinAs(t *testing.T, dial func() *ws.Conn, user string) *ws.Conn {
	t.Helper()
	conn := dial()
	send(t, conn, map[string]any{"type": "join", "user": user})
	evt := readEvent(t, conn)
	require.Equal(t, "user_joined", evt.Type)
	require.Equal(t, user, evt.User)
	return conn
}
