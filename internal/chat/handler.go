package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/oranie/livechat/internal/domain"
	"github.com/oranie/livechat/internal/logging"
	"github.com/oranie/livechat/internal/metrics"
)

// Handler drives one live channel from open to close: it registers the
// connection, dispatches inbound messages in receipt order and tears the
// entry down when the socket goes away.
type Handler struct {
	registry    *Registry
	broadcaster *Broadcaster
	comments    domain.CommentStore
	commentRoom string
	clock       clockwork.Clock
}

func NewHandler(registry *Registry, broadcaster *Broadcaster, comments domain.CommentStore, commentRoom string, clock clockwork.Clock) *Handler {
	return &Handler{
		registry:    registry,
		broadcaster: broadcaster,
		comments:    comments,
		commentRoom: commentRoom,
		clock:       clock,
	}
}

// HandleConnection runs the read loop for an upgraded connection and blocks
// until the client disconnects. Malformed messages are logged and the
// channel stays open; only a read error ends the session.
func (h *Handler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	id := uuid.New()
	writer := newClientWriter(conn, h.clock)
	h.registry.Register(id, writer)

	logger := logging.WithConnection(id.String())
	logger.Info("Channel connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if err := h.dispatch(ctx, id, data); err != nil {
			if errors.Is(err, domain.ErrProtocolViolation) {
				metrics.ProtocolViolationsTotal.Inc()
				logger.Warn("Protocol violation", "error", err)
				continue
			}
			logger.Error("Failed to handle channel message", "error", err)
		}
	}

	h.close(id)
}

// dispatch interprets one inbound message. Errors wrapping
// ErrProtocolViolation mark malformed input; anything else is an upstream
// failure (store unavailable etc.).
func (h *Handler) dispatch(ctx context.Context, id uuid.UUID, data []byte) error {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("%w: malformed message: %v", domain.ErrProtocolViolation, err)
	}

	// Metric labels stay within the known message vocabulary; anything else
	// lands in a single "unknown" bucket so clients cannot mint label values.
	switch msg.Type {
	case msgJoin:
		metrics.InboundMessagesTotal.WithLabelValues(msg.Type).Inc()
		return h.handleJoin(id, msg)
	case msgComment:
		metrics.InboundMessagesTotal.WithLabelValues(msg.Type).Inc()
		return h.handleComment(ctx, id, msg)
	case msgTyping:
		metrics.InboundMessagesTotal.WithLabelValues(msg.Type).Inc()
		return h.handleTyping(id, msg)
	default:
		metrics.InboundMessagesTotal.WithLabelValues("unknown").Inc()
		return fmt.Errorf("%w: unknown message type %q", domain.ErrProtocolViolation, msg.Type)
	}
}

// handleJoin sets the connection's user and announces it to the room. The
// joiner is not excluded: its own tabs receive the announcement too, which
// is intentional fan-out.
func (h *Handler) handleJoin(id uuid.UUID, msg inboundMessage) error {
	if msg.User == "" {
		return fmt.Errorf("%w: join requires user", domain.ErrProtocolViolation)
	}

	if !h.registry.SetUser(id, msg.User) {
		return fmt.Errorf("connection %s not registered", id)
	}

	conn, _ := h.registry.Get(id)
	h.broadcaster.Broadcast(conn.Room, Event{Type: evtUserJoined, User: msg.User}, uuid.Nil)
	return nil
}

// handleComment persists the comment and announces it with the
// server-assigned time. The sender receives its own echo; the echo is the
// delivery confirmation.
func (h *Handler) handleComment(ctx context.Context, id uuid.UUID, msg inboundMessage) error {
	if msg.Name == "" || msg.Comment == "" {
		return fmt.Errorf("%w: comment requires name and comment", domain.ErrProtocolViolation)
	}

	conn, ok := h.registry.Get(id)
	if !ok {
		return fmt.Errorf("connection %s not registered", id)
	}

	stored, err := h.comments.PutComment(ctx, msg.Name, msg.Comment, h.commentRoom)
	if err != nil {
		return fmt.Errorf("failed to store comment: %w", err)
	}

	h.broadcaster.Broadcast(conn.Room, Event{
		Type:    evtNewComment,
		Name:    stored.Name,
		Comment: stored.Comment,
		Time:    stored.Time,
	}, uuid.Nil)
	return nil
}

// handleTyping relays the typing indicator to everyone else in the room.
// This is the one message type that excludes the sender: the indicator is a
// UI signal the sender does not need echoed back.
func (h *Handler) handleTyping(id uuid.UUID, msg inboundMessage) error {
	if msg.User == "" || msg.IsTyping == nil {
		return fmt.Errorf("%w: typing requires user and is_typing", domain.ErrProtocolViolation)
	}

	conn, ok := h.registry.Get(id)
	if !ok {
		return fmt.Errorf("connection %s not registered", id)
	}

	h.broadcaster.Broadcast(conn.Room, Event{
		Type:     evtTyping,
		User:     msg.User,
		IsTyping: msg.IsTyping,
	}, id)
	return nil
}

// close removes the connection and, if a user had joined, announces the
// departure. The entry is removed unconditionally.
func (h *Handler) close(id uuid.UUID) {
	conn, ok := h.registry.Unregister(id)
	if !ok {
		return
	}
	logging.WithConnection(id.String()).Info("Channel disconnected", "user", conn.User)

	if conn.User != "" {
		h.broadcaster.Broadcast(conn.Room, Event{Type: evtUserLeft, User: conn.User}, uuid.Nil)
	}
}
