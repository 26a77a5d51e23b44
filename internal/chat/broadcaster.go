package chat

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/oranie/livechat/internal/logging"
	"github.com/oranie/livechat/internal/metrics"
)

// Broadcaster fans events out to every registry member of a room.
// Broadcast is best-effort: a failed delivery evicts the recipient but is
// never surfaced to the caller, so one dead client cannot fail the request
// that triggered the broadcast.
type Broadcaster struct {
	registry *Registry
}

func NewBroadcaster(registry *Registry) *Broadcaster {
	return &Broadcaster{registry: registry}
}

// Broadcast delivers event to all members of room except excludeID
// (uuid.Nil excludes nobody). Delivery order across recipients is
// unspecified. Failed recipients are collected during the sweep and evicted
// in a second pass, never mid-iteration.
func (b *Broadcaster) Broadcast(room string, event Event, excludeID uuid.UUID) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal broadcast event", "type", event.Type, "error", err)
		return
	}
	metrics.BroadcastsTotal.WithLabelValues(event.Type).Inc()
	logger := logging.WithRoom(room)

	var failed []uuid.UUID
	for _, m := range b.registry.InRoom(room) {
		if excludeID != uuid.Nil && m.ID == excludeID {
			continue
		}
		if !m.writer.trySend(data) {
			metrics.DeliveryFailuresTotal.Inc()
			logger.Warn("Failed to deliver to client, marking for eviction",
				"connection_id", m.ID.String(),
				"type", event.Type,
			)
			failed = append(failed, m.ID)
		}
	}

	for _, id := range failed {
		if _, ok := b.registry.Unregister(id); ok {
			metrics.EvictedConnectionsTotal.Inc()
			logger.Info("Evicted stale connection", "connection_id", id.String())
		}
	}
}
